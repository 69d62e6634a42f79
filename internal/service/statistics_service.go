package service

import (
	"sort"
	"time"

	"github.com/wedding-candy/internal/constants"
	"github.com/wedding-candy/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var weekdayTexts = [...]string{"日", "一", "二", "三", "四", "五", "六"}

// RegionStat 省份分布
type RegionStat struct {
	Name    string      `json:"name"`
	Count   int         `json:"count"`
	Percent float64     `json:"percent"`
	Cities  []CityCount `json:"cities"`
}

// TrendPoint 每日趋势
type TrendPoint struct {
	Date    string `json:"date"`
	Label   string `json:"label"`
	Weekday string `json:"weekday"`
	Count   int    `json:"count"`
}

// RelationStat 关系分布
type RelationStat struct {
	Key     string  `json:"key"`
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// StatisticsService 统计分析服务
type StatisticsService struct {
	recipients *RecipientService
}

// NewStatisticsService 创建统计分析服务
func NewStatisticsService(recipients *RecipientService) *StatisticsService {
	return &StatisticsService{recipients: recipients}
}

// Overview 基础统计
func (s *StatisticsService) Overview() RecipientStatistics {
	return s.recipients.GetStatistics()
}

// RegionDistribution 省份分布（按数量降序，同数量按中文排序）
func (s *StatisticsService) RegionDistribution() []RegionStat {
	return RegionDistribution(s.recipients.GetAll())
}

// DailyTrend 最近 N 天每日新增
func (s *StatisticsService) DailyTrend(days int) []TrendPoint {
	return DailyTrend(s.recipients.GetAll(), s.recipients.Now(), days)
}

// RelationDistribution 关系分布
func (s *StatisticsService) RelationDistribution() []RelationStat {
	return RelationDistribution(s.recipients.GetAll())
}

// RegionDistribution 计算省份及城市分布
func RegionDistribution(recipients []models.Recipient) []RegionStat {
	provinces := map[string]int{}
	cities := map[string]map[string]int{}
	for _, item := range recipients {
		province := orUnknown(item.Address.Province)
		city := orUnknown(item.Address.City)
		provinces[province]++
		if cities[province] == nil {
			cities[province] = map[string]int{}
		}
		cities[province][city]++
	}

	ordered := sortCounts(provinces)
	result := make([]RegionStat, 0, len(ordered))
	for _, entry := range ordered {
		cityList := make([]CityCount, 0, len(cities[entry.name]))
		for _, city := range sortCounts(cities[entry.name]) {
			cityList = append(cityList, CityCount{City: city.name, Count: city.count})
		}
		result = append(result, RegionStat{
			Name:    entry.name,
			Count:   entry.count,
			Percent: percentOf(entry.count, len(recipients), 1),
			Cities:  cityList,
		})
	}
	return result
}

// DailyTrend 计算最近 days 天（含今天）的每日新增
func DailyTrend(recipients []models.Recipient, now time.Time, days int) []TrendPoint {
	if days <= 0 {
		days = constants.RecipientDefaultTrendDays
	}
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	counts := map[string]int{}
	for _, item := range recipients {
		counts[item.SubmitTime.In(loc).Format(constants.RecipientTrendDateLayout)]++
	}

	result := make([]TrendPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := day.Format(constants.RecipientTrendDateLayout)
		result = append(result, TrendPoint{
			Date:    key,
			Label:   day.Format("01-02"),
			Weekday: weekdayTexts[day.Weekday()],
			Count:   counts[key],
		})
	}
	return result
}

// RelationDistribution 计算关系分布，关系为空时归入 other
func RelationDistribution(recipients []models.Recipient) []RelationStat {
	counts := map[string]int{}
	names := map[string]string{}
	for _, item := range recipients {
		key := item.Relation
		if key == "" {
			key = constants.RelationOther
		}
		counts[key]++
		if _, ok := names[key]; !ok {
			name := item.RelationText
			if name == "" {
				name = constants.RelationTexts[constants.RelationOther]
			}
			names[key] = name
		}
	}

	result := make([]RelationStat, 0, len(counts))
	for _, entry := range sortCounts(counts) {
		result = append(result, RelationStat{
			Key:     entry.name,
			Name:    names[entry.name],
			Count:   entry.count,
			Percent: percentOf(entry.count, len(recipients), 1),
		})
	}
	return result
}

type countEntry struct {
	name  string
	count int
}

// sortCounts 按数量降序排序，数量相同按中文拼音顺序
func sortCounts(counts map[string]int) []countEntry {
	entries := make([]countEntry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, countEntry{name: name, count: count})
	}
	collator := collate.New(language.Chinese)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return collator.CompareString(entries[i].name, entries[j].name) < 0
	})
	return entries
}

func topCities(counts map[string]int, limit int) []CityCount {
	entries := sortCounts(counts)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	result := make([]CityCount, 0, len(entries))
	for _, entry := range entries {
		result = append(result, CityCount{City: entry.name, Count: entry.count})
	}
	return result
}
