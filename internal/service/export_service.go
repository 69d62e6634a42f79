package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/wedding-candy/internal/constants"
	"github.com/wedding-candy/internal/logger"
	"github.com/wedding-candy/internal/models"
	"github.com/wedding-candy/internal/repository"

	"github.com/xuri/excelize/v2"
)

const (
	exportEmptyCell  = "-"
	exportSheetName  = "领取记录"
	exportFilePrefix = "婚礼喜糖领取记录"
	exportDateLayout = "2006-01-02"
	utf8BOM          = "\ufeff"
	xlsxHeaderFill   = "E8B4B8"
	xlsxHeaderFont   = "Microsoft YaHei"
)

// ExportHeaders 导出表头（CSV 与 XLSX 共用）
var ExportHeaders = []string{
	"序号", "记录ID", "姓名", "手机号", "微信号", "关系", "省份", "城市",
	"区县", "详细地址", "邮政编码", "期望配送时间", "祝福留言", "状态", "提交时间", "设备信息",
}

var exportColumnWidths = []float64{8, 18, 12, 15, 15, 10, 12, 12, 12, 30, 10, 15, 30, 10, 20, 20}

// ExportFilter 导出筛选条件
type ExportFilter struct {
	StartDate string `form:"start_date" json:"start_date"` // YYYY-MM-DD
	EndDate   string `form:"end_date" json:"end_date"`     // YYYY-MM-DD，包含当天
	Province  string `form:"province" json:"province"`
	City      string `form:"city" json:"city"`
	District  string `form:"district" json:"district"`
	Status    string `form:"status" json:"status"`     // all 表示不限
	Relation  string `form:"relation" json:"relation"` // all 表示不限
	Keyword   string `form:"keyword" json:"keyword"`
}

// ExportBundle JSON 导出结构
type ExportBundle struct {
	ExportedAt time.Time           `json:"exported_at"`
	Version    string              `json:"version"`
	Total      int                 `json:"total"`
	Statistics RecipientStatistics `json:"statistics"`
	Recipients []models.Recipient  `json:"recipients"`
}

// ImportResult 导入结果
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ExportService 导出导入服务
type ExportService struct {
	recipients   *RecipientService
	backups      *BackupService
	slots        repository.SlotStore
	historyLimit int
}

// NewExportService 创建导出服务
func NewExportService(recipients *RecipientService, backups *BackupService, slots repository.SlotStore, historyLimit int) *ExportService {
	if historyLimit <= 0 {
		historyLimit = constants.ExportHistoryLimit
	}
	return &ExportService{
		recipients:   recipients,
		backups:      backups,
		slots:        slots,
		historyLimit: historyLimit,
	}
}

// Collect 读取并筛选待导出记录
func (s *ExportService) Collect(filter ExportFilter) ([]models.Recipient, error) {
	recipients, err := s.recipients.Snapshot()
	if err != nil {
		return nil, err
	}
	return FilterRecipients(recipients, filter, s.recipients.Now().Location())
}

// FilterRecipients 按日期、地区、状态、关系与关键字筛选
func FilterRecipients(recipients []models.Recipient, filter ExportFilter, loc *time.Location) ([]models.Recipient, error) {
	if loc == nil {
		loc = time.Local
	}
	var start, end time.Time
	if v := strings.TrimSpace(filter.StartDate); v != "" {
		parsed, err := time.ParseInLocation(exportDateLayout, v, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: start_date", ErrFormInvalid)
		}
		start = parsed
	}
	if v := strings.TrimSpace(filter.EndDate); v != "" {
		parsed, err := time.ParseInLocation(exportDateLayout, v, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: end_date", ErrFormInvalid)
		}
		end = parsed.Add(24*time.Hour - time.Second)
	}
	keyword := strings.ToLower(strings.TrimSpace(filter.Keyword))
	status := normalizeAll(filter.Status)
	relation := normalizeAll(filter.Relation)

	result := make([]models.Recipient, 0, len(recipients))
	for _, item := range recipients {
		if !start.IsZero() && item.SubmitTime.Before(start) {
			continue
		}
		if !end.IsZero() && item.SubmitTime.After(end) {
			continue
		}
		if filter.Province != "" && item.Address.Province != filter.Province {
			continue
		}
		if filter.City != "" && item.Address.City != filter.City {
			continue
		}
		if filter.District != "" && item.Address.District != filter.District {
			continue
		}
		if status != "" && item.Status != status {
			continue
		}
		if relation != "" && item.Relation != relation {
			continue
		}
		if keyword != "" && !exportKeywordMatch(item, keyword) {
			continue
		}
		result = append(result, item)
	}
	return result, nil
}

func normalizeAll(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "all") {
		return ""
	}
	return value
}

func exportKeywordMatch(item models.Recipient, keyword string) bool {
	fields := []string{item.Name, item.Phone, item.Wechat, item.Address.Detail, item.Blessing}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), keyword) {
			return true
		}
	}
	return false
}

// ExportRows 生成导出行（不含表头），空值显示为 "-"
func ExportRows(recipients []models.Recipient) [][]string {
	rows := make([][]string, 0, len(recipients))
	for i, item := range recipients {
		submitTime := item.SubmitTimeFormatted
		if submitTime == "" && !item.SubmitTime.IsZero() {
			submitTime = item.SubmitTime.Format(constants.RecipientSubmitTimeLayout)
		}
		deliveryTime := item.DeliveryTime
		if text, ok := constants.DeliveryTimeTexts[deliveryTime]; ok {
			deliveryTime = text
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			item.ID,
			item.Name,
			item.Phone,
			orDash(item.Wechat),
			orDash(item.RelationText),
			orDash(item.Address.Province),
			orDash(item.Address.City),
			orDash(item.Address.District),
			orDash(item.Address.Detail),
			orDash(item.Address.Zipcode),
			orDash(deliveryTime),
			orDash(item.Blessing),
			orDash(item.StatusText),
			orDash(submitTime),
			orDash(item.DeviceInfo),
		})
	}
	return rows
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return exportEmptyCell
	}
	return value
}

// WriteCSV 输出带 BOM 的 UTF-8 CSV
func (s *ExportService) WriteCSV(w io.Writer, recipients []models.Recipient) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportHeaders); err != nil {
		return err
	}
	for _, row := range ExportRows(recipients) {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX 输出 XLSX 表格
func (s *ExportService) WriteXLSX(w io.Writer, recipients []models.Recipient) error {
	file := excelize.NewFile()
	defer func() {
		if err := file.Close(); err != nil {
			logger.Warnw("export_xlsx_close_failed", "error", err)
		}
	}()

	defaultSheet := file.GetSheetName(0)
	if err := file.SetSheetName(defaultSheet, exportSheetName); err != nil {
		return err
	}

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Family: xlsxHeaderFont, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{xlsxHeaderFill}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	for i, header := range ExportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(exportSheetName, cell, header); err != nil {
			return err
		}
		column, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := file.SetColWidth(exportSheetName, column, column, exportColumnWidths[i]); err != nil {
			return err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(ExportHeaders), 1)
	if err := file.SetCellStyle(exportSheetName, "A1", lastHeader, headerStyle); err != nil {
		return err
	}
	if err := file.SetRowHeight(exportSheetName, 1, 25); err != nil {
		return err
	}

	for r, row := range ExportRows(recipients) {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := file.SetCellStr(exportSheetName, cell, value); err != nil {
				return err
			}
		}
	}
	if err := file.SetPanes(exportSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	return file.Write(w)
}

// BuildJSON 生成 JSON 导出结构
func (s *ExportService) BuildJSON(recipients []models.Recipient) ExportBundle {
	now := s.recipients.Now()
	if recipients == nil {
		recipients = make([]models.Recipient, 0)
	}
	return ExportBundle{
		ExportedAt: now,
		Version:    constants.BackupVersion,
		Total:      len(recipients),
		Statistics: ComputeStatistics(recipients, now),
		Recipients: recipients,
	}
}

// WriteJSON 以缩进格式写出 JSON 导出包
func (s *ExportService) WriteJSON(w io.Writer, recipients []models.Recipient) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s.BuildJSON(recipients))
}

// ImportJSON 导入 JSON 导出包，仅追加 ID 不存在的记录
func (s *ExportService) ImportJSON(data []byte) (ImportResult, error) {
	var bundle struct {
		Recipients []models.Recipient `json:"recipients"`
	}
	if err := json.Unmarshal(data, &bundle); err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", ErrImportInvalid, err)
	}
	if bundle.Recipients == nil {
		return ImportResult{}, ErrImportInvalid
	}

	if s.backups != nil {
		if _, err := s.backups.Backup(); err != nil {
			logger.Warnw("import_backup_failed", "error", err)
		}
	}

	imported, skipped, err := s.recipients.MergeNew(bundle.Recipients)
	if err != nil {
		return ImportResult{}, err
	}
	return ImportResult{Imported: imported, Skipped: skipped}, nil
}

// Filename 生成导出文件名
func (s *ExportService) Filename(format string) string {
	return fmt.Sprintf("%s_%s.%s", exportFilePrefix, s.recipients.Now().Format(constants.ExportFilenameTimestampLayout), format)
}

// RecordExport 记录导出历史（只保留最近若干条，新记录在前）
func (s *ExportService) RecordExport(format, filename string, total int) error {
	history, err := s.History()
	if err != nil {
		history = make([]models.ExportRecord, 0)
	}
	record := models.ExportRecord{
		Format:     format,
		Filename:   filename,
		Total:      total,
		ExportedAt: s.recipients.Now(),
	}
	history = append([]models.ExportRecord{record}, history...)
	if len(history) > s.historyLimit {
		history = history[:s.historyLimit]
	}
	return repository.SetJSON(s.slots, constants.SlotExportHistory, history)
}

// History 读取导出历史
func (s *ExportService) History() ([]models.ExportRecord, error) {
	history := make([]models.ExportRecord, 0)
	if _, err := repository.GetJSON(s.slots, constants.SlotExportHistory, &history); err != nil {
		return nil, err
	}
	if history == nil {
		history = make([]models.ExportRecord, 0)
	}
	return history, nil
}

// ClearHistory 清空导出历史
func (s *ExportService) ClearHistory() error {
	return s.slots.Remove(constants.SlotExportHistory)
}
