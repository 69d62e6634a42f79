package admin

import (
	"strconv"

	"github.com/wedding-candy/internal/http/response"

	"github.com/gin-gonic/gin"
)

const maxTrendDays = 90

// GetStatistics 获取统计概览
func (h *Handler) GetStatistics(c *gin.Context) {
	response.Success(c, h.StatisticsService.Overview())
}

// GetRegionStatistics 获取地区分布
func (h *Handler) GetRegionStatistics(c *gin.Context) {
	response.Success(c, h.StatisticsService.RegionDistribution())
}

// GetTrendStatistics 获取每日提交趋势
func (h *Handler) GetTrendStatistics(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	if days > maxTrendDays {
		days = maxTrendDays
	}
	response.Success(c, h.StatisticsService.DailyTrend(days))
}

// GetRelationStatistics 获取关系分布
func (h *Handler) GetRelationStatistics(c *gin.Context) {
	response.Success(c, h.StatisticsService.RelationDistribution())
}
