package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wedding-candy/internal/constants"
	"github.com/wedding-candy/internal/logger"
	"github.com/wedding-candy/internal/models"
	"github.com/wedding-candy/internal/queue"
	"github.com/wedding-candy/internal/repository"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
)

// ClientMeta 提交端元信息
type ClientMeta struct {
	UserAgent string
}

// CreateResult 创建领取记录结果
type CreateResult struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    *models.Recipient `json:"data"`
	Err     error             `json:"-"`
}

// BatchResult 批量操作结果
type BatchResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// RecipientPatch 领取记录可编辑字段（nil 表示不修改）
type RecipientPatch struct {
	Name         *string         `json:"name"`
	Wechat       *string         `json:"wechat"`
	Address      *models.Address `json:"address"`
	Relation     *string         `json:"relation"`
	DeliveryTime *string         `json:"delivery_time"`
	Blessing     *string         `json:"blessing"`
}

// CityCount 城市计数
type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// RecipientStatistics 领取记录统计
type RecipientStatistics struct {
	Total          int            `json:"total"`
	Pending        int            `json:"pending"`
	Shipped        int            `json:"shipped"`
	Received       int            `json:"received"`
	Processed      int            `json:"processed"`
	Today          int            `json:"today"`
	ThisWeek       int            `json:"this_week"`
	ThisMonth      int            `json:"this_month"`
	RelationStats  map[string]int `json:"relation_stats"`
	ProvinceStats  map[string]int `json:"province_stats"`
	CityStats      []CityCount    `json:"city_stats"`
	CompletionRate float64        `json:"completion_rate"`
}

// StorageUsage 存储用量
type StorageUsage struct {
	Used    int64   `json:"used"`
	Limit   int64   `json:"limit"`
	Percent float64 `json:"percent"`
}

// recipientCreatedEnqueuer 新记录通知入队
type recipientCreatedEnqueuer interface {
	EnqueueRecipientCreated(payload queue.RecipientCreatedPayload, opts ...asynq.Option) error
}

// RecipientService 领取记录服务
// 记录整体以列表形式存放在一个槽位中，每次操作读取、修改后整体写回
type RecipientService struct {
	repo        repository.RecipientRepository
	backupRepo  repository.BackupRepository
	slots       repository.SlotStore
	capacity    int64
	queueClient recipientCreatedEnqueuer

	mu  sync.Mutex
	now func() time.Time
}

// NewRecipientService 创建领取记录服务
func NewRecipientService(
	repo repository.RecipientRepository,
	backupRepo repository.BackupRepository,
	slots repository.SlotStore,
	capacity int64,
	queueClient *queue.Client,
) *RecipientService {
	if capacity <= 0 {
		capacity = constants.DefaultStorageCapacityBytes
	}
	return &RecipientService{
		repo:        repo,
		backupRepo:  backupRepo,
		slots:       slots,
		capacity:    capacity,
		queueClient: queueClient,
		now:         time.Now,
	}
}

// SetClock 替换时钟（测试使用）
func (s *RecipientService) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Now 服务时钟的当前时间
func (s *RecipientService) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now()
}

// Create 创建领取记录
func (s *RecipientService) Create(input RecipientInput, meta ClientMeta) CreateResult {
	input = input.Normalize()
	if input.Name == "" || input.Phone == "" {
		return failedCreate(ErrValidation)
	}

	recipient, total, err := s.insert(input, meta)
	if err != nil {
		return failedCreate(err)
	}
	// 入队涉及网络 I/O，放在锁外执行
	if err := s.queueClient.EnqueueRecipientCreated(queue.RecipientCreatedPayload{
		RecipientID: recipient.ID,
		Name:        recipient.Name,
		Total:       total,
	}); err != nil {
		logger.Warnw("recipient_created_enqueue_failed", "recipient_id", recipient.ID, "error", err)
	}

	return CreateResult{
		Success: true,
		Message: "提交成功",
		Data:    recipient,
	}
}

// insert 在锁内完成查重、生成 ID 与写入，返回新记录和写入后的总数
func (s *RecipientService) insert(input RecipientInput, meta ClientMeta) (*models.Recipient, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipients, err := s.load()
	if err != nil {
		return nil, 0, err
	}
	if phoneExists(recipients, input.Phone) {
		return nil, 0, ErrDuplicatePhone
	}

	now := s.now()
	relation := input.Relationship
	relationText, ok := constants.RelationTexts[relation]
	if !ok {
		relation = constants.RelationOther
		relationText = constants.RelationTexts[constants.RelationOther]
	}
	deliveryTime := input.DeliveryTime
	if deliveryTime == "" {
		deliveryTime = constants.DeliveryTimeAnytime
	}

	address := models.Address{
		Province: input.Province,
		City:     input.City,
		District: input.District,
		Detail:   input.Address,
		Zipcode:  input.Zipcode,
	}
	address.Full = address.BuildFull()

	recipient := models.Recipient{
		ID:                  generateRecipientID(recipients, now),
		Name:                input.Name,
		Phone:               MaskPhone(input.Phone),
		PhoneRaw:            input.Phone,
		Wechat:              input.Wechat,
		Address:             address,
		Relation:            relation,
		RelationText:        relationText,
		DeliveryTime:        deliveryTime,
		Blessing:            input.Message,
		Status:              constants.RecipientStatusPending,
		StatusText:          StatusText(constants.RecipientStatusPending),
		SubmitTime:          now,
		SubmitTimeFormatted: now.Format(constants.RecipientSubmitTimeLayout),
		IPAddress:           constants.ClientIPAddressMarker,
		DeviceInfo:          DeviceInfoFromUserAgent(meta.UserAgent),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	next := make([]models.Recipient, 0, len(recipients)+1)
	next = append(next, recipient)
	next = append(next, recipients...)
	if err := s.repo.Save(next); err != nil {
		logger.Warnw("recipient_save_failed", "recipient_id", recipient.ID, "error", err)
		return nil, 0, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	s.writeBackup(next, now)
	s.writeLastSubmission(&recipient)
	return &recipient, len(next), nil
}

func failedCreate(err error) CreateResult {
	message := err.Error()
	switch {
	case errors.Is(err, ErrStorage):
		message = ErrStorage.Error()
	case errors.Is(err, ErrDuplicatePhone):
		message = ErrDuplicatePhone.Error()
	}
	return CreateResult{Success: false, Message: message, Err: err}
}

// GetAll 获取全部记录（新记录在前），读取失败时返回空列表
func (s *RecipientService) GetAll() []models.Recipient {
	s.mu.Lock()
	defer s.mu.Unlock()
	recipients, err := s.load()
	if err != nil {
		return make([]models.Recipient, 0)
	}
	return recipients
}

// Snapshot 获取全部记录，后端读取失败时返回 ErrStorage
func (s *RecipientService) Snapshot() ([]models.Recipient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Count 记录总数
func (s *RecipientService) Count() int {
	return len(s.GetAll())
}

// GetByID 根据 ID 获取记录
func (s *RecipientService) GetByID(id string) (*models.Recipient, bool) {
	id = strings.TrimSpace(id)
	for _, item := range s.GetAll() {
		if item.ID == id {
			recipient := item
			return &recipient, true
		}
	}
	return nil, false
}

// Search 关键字搜索（姓名、脱敏手机号、微信号、完整地址、ID，不区分大小写）
func (s *RecipientService) Search(keyword string) []models.Recipient {
	return SearchRecipients(s.GetAll(), keyword)
}

// SearchRecipients 在给定记录中按关键字搜索，空关键字返回原列表
func SearchRecipients(recipients []models.Recipient, keyword string) []models.Recipient {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return recipients
	}
	result := make([]models.Recipient, 0)
	for _, item := range recipients {
		if matchesKeyword(item, keyword) {
			result = append(result, item)
		}
	}
	return result
}

func matchesKeyword(item models.Recipient, keyword string) bool {
	fields := []string{item.Name, item.Phone, item.Wechat, item.Address.Full, item.ID}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), keyword) {
			return true
		}
	}
	return false
}

// FilterByStatus 按状态筛选
func (s *RecipientService) FilterByStatus(status string) []models.Recipient {
	result := make([]models.Recipient, 0)
	for _, item := range s.GetAll() {
		if item.Status == status {
			result = append(result, item)
		}
	}
	return result
}

// FilterByDateRange 按提交时间筛选（闭区间）
func (s *RecipientService) FilterByDateRange(start, end time.Time) []models.Recipient {
	result := make([]models.Recipient, 0)
	for _, item := range s.GetAll() {
		if !item.SubmitTime.Before(start) && !item.SubmitTime.After(end) {
			result = append(result, item)
		}
	}
	return result
}

// UpdateStatus 更新状态，记录不存在或状态非法时返回 false
func (s *RecipientService) UpdateStatus(id, status string) bool {
	_, err := s.SetStatus(id, status)
	return err == nil
}

// SetStatus 更新状态并返回更新后的记录
// 首次进入 shipped/received 时写入对应时间，之后不再覆盖
func (s *RecipientService) SetStatus(id, status string) (*models.Recipient, error) {
	if !IsValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.mutate(id, func(item *models.Recipient, now time.Time) error {
		applyStatus(item, status, now)
		return nil
	})
}

// ToggleStatus 在 pending 与 shipped 之间切换，received 不支持切换
func (s *RecipientService) ToggleStatus(id string) bool {
	_, err := s.Toggle(id)
	return err == nil
}

// Toggle 切换状态并返回更新后的记录
func (s *RecipientService) Toggle(id string) (*models.Recipient, error) {
	return s.mutate(id, func(item *models.Recipient, now time.Time) error {
		switch item.Status {
		case constants.RecipientStatusPending:
			applyStatus(item, constants.RecipientStatusShipped, now)
		case constants.RecipientStatusShipped:
			applyStatus(item, constants.RecipientStatusPending, now)
		default:
			return ErrInvalidStatus
		}
		return nil
	})
}

// UpdateRecipient 合并更新可编辑字段
func (s *RecipientService) UpdateRecipient(id string, patch RecipientPatch) bool {
	_, err := s.Patch(id, patch)
	return err == nil
}

// Patch 合并更新可编辑字段并返回更新后的记录
func (s *RecipientService) Patch(id string, patch RecipientPatch) (*models.Recipient, error) {
	return s.mutate(id, func(item *models.Recipient, now time.Time) error {
		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return ErrValidation
			}
			item.Name = name
		}
		if patch.Wechat != nil {
			item.Wechat = strings.TrimSpace(*patch.Wechat)
		}
		if patch.Address != nil {
			address := *patch.Address
			if strings.TrimSpace(address.Full) == "" {
				address.Full = address.BuildFull()
			}
			item.Address = address
		}
		if patch.Relation != nil {
			text, ok := constants.RelationTexts[*patch.Relation]
			if !ok {
				return ErrFormInvalid
			}
			item.Relation = *patch.Relation
			item.RelationText = text
		}
		if patch.DeliveryTime != nil {
			if !IsValidDeliveryTime(*patch.DeliveryTime) {
				return ErrFormInvalid
			}
			item.DeliveryTime = *patch.DeliveryTime
		}
		if patch.Blessing != nil {
			item.Blessing = strings.TrimSpace(*patch.Blessing)
		}
		item.UpdatedAt = now
		return nil
	})
}

// DeleteRecipient 删除记录，不存在时返回 false
func (s *RecipientService) DeleteRecipient(id string) bool {
	return s.Delete(id) == nil
}

// Delete 删除记录
func (s *RecipientService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipients, err := s.load()
	if err != nil {
		return err
	}
	index := indexOfRecipient(recipients, id)
	if index < 0 {
		return ErrNotFound
	}
	next := append(recipients[:index:index], recipients[index+1:]...)
	if err := s.repo.Save(next); err != nil {
		logger.Warnw("recipient_delete_save_failed", "recipient_id", id, "error", err)
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// BatchDelete 批量删除，每个 ID 独立处理
func (s *RecipientService) BatchDelete(ids []string) BatchResult {
	result := BatchResult{}
	for _, id := range ids {
		if s.DeleteRecipient(id) {
			result.Success++
		} else {
			result.Failed++
		}
	}
	return result
}

// GetStatistics 计算统计数据
func (s *RecipientService) GetStatistics() RecipientStatistics {
	s.mu.Lock()
	now := s.now()
	s.mu.Unlock()
	return ComputeStatistics(s.GetAll(), now)
}

// ComputeStatistics 基于记录列表计算统计
// 本周与本月按滚动窗口计算（最近 7 天 / 最近 1 个月）
func ComputeStatistics(recipients []models.Recipient, now time.Time) RecipientStatistics {
	stats := RecipientStatistics{
		Total:         len(recipients),
		RelationStats: map[string]int{},
		ProvinceStats: map[string]int{},
		CityStats:     []CityCount{},
	}

	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, -1, 0)
	cityCounts := map[string]int{}

	for _, item := range recipients {
		switch item.Status {
		case constants.RecipientStatusPending:
			stats.Pending++
		case constants.RecipientStatusShipped:
			stats.Shipped++
		case constants.RecipientStatusReceived:
			stats.Received++
		}
		if sameLocalDay(item.SubmitTime, now) {
			stats.Today++
		}
		if !item.SubmitTime.Before(weekAgo) {
			stats.ThisWeek++
		}
		if !item.SubmitTime.Before(monthAgo) {
			stats.ThisMonth++
		}
		stats.RelationStats[orUnknown(item.RelationText)]++
		stats.ProvinceStats[orUnknown(item.Address.Province)]++
		cityCounts[orUnknown(item.Address.City)]++
	}

	stats.Processed = stats.Shipped + stats.Received
	stats.CityStats = topCities(cityCounts, constants.RecipientStatisticsTopCities)
	stats.CompletionRate = percentOf(stats.Processed, stats.Total, 1)
	return stats
}

// GetLastSubmission 获取最近一次提交
func (s *RecipientService) GetLastSubmission() (*models.LastSubmission, error) {
	if s.slots == nil {
		return nil, nil
	}
	var last models.LastSubmission
	ok, err := repository.GetJSON(s.slots, constants.SlotLastSubmission, &last)
	if err != nil || !ok {
		return nil, err
	}
	return &last, nil
}

// GetStorageUsage 获取存储用量
func (s *RecipientService) GetStorageUsage() (StorageUsage, error) {
	usage := StorageUsage{Limit: s.capacity}
	if s.slots == nil {
		return usage, nil
	}
	used, err := s.slots.Usage()
	if err != nil {
		return usage, err
	}
	usage.Used = used
	usage.Percent = percentOf64(used, s.capacity, 2)
	return usage, nil
}

// ReplaceAll 整体替换记录列表
func (s *RecipientService) ReplaceAll(recipients []models.Recipient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Save(recipients); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// MergeNew 追加 ID 不存在的记录，返回导入数与跳过数
func (s *RecipientService) MergeNew(incoming []models.Recipient) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipients, err := s.load()
	if err != nil {
		return 0, len(incoming), err
	}
	seen := make(map[string]struct{}, len(recipients))
	for _, item := range recipients {
		seen[item.ID] = struct{}{}
	}
	imported, skipped := 0, 0
	for _, item := range incoming {
		if strings.TrimSpace(item.ID) == "" {
			skipped++
			continue
		}
		if _, ok := seen[item.ID]; ok {
			skipped++
			continue
		}
		seen[item.ID] = struct{}{}
		recipients = append(recipients, item)
		imported++
	}
	if imported == 0 {
		return 0, skipped, nil
	}
	if err := s.repo.Save(recipients); err != nil {
		return 0, len(incoming), fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return imported, skipped, nil
}

func (s *RecipientService) mutate(id string, apply func(item *models.Recipient, now time.Time) error) (*models.Recipient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipients, err := s.load()
	if err != nil {
		return nil, err
	}
	index := indexOfRecipient(recipients, id)
	if index < 0 {
		return nil, ErrNotFound
	}
	item := recipients[index]
	if err := apply(&item, s.now()); err != nil {
		return nil, err
	}
	recipients[index] = item
	if err := s.repo.Save(recipients); err != nil {
		logger.Warnw("recipient_update_save_failed", "recipient_id", id, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return &item, nil
}

// load 读取记录，内容损坏时按空列表处理
// 后端读取失败返回 ErrStorage，避免用不完整的列表覆盖已有数据
func (s *RecipientService) load() ([]models.Recipient, error) {
	recipients, err := s.repo.Load()
	if err == nil {
		return recipients, nil
	}
	if errors.Is(err, repository.ErrSlotCorrupt) {
		logger.Warnw("recipient_data_corrupt", "error", err)
		return make([]models.Recipient, 0), nil
	}
	logger.Errorw("recipient_load_failed", "error", err)
	return nil, fmt.Errorf("%w: %w", ErrStorage, err)
}

func (s *RecipientService) writeBackup(recipients []models.Recipient, now time.Time) {
	if s.backupRepo == nil {
		return
	}
	snapshot := &models.BackupSnapshot{
		Data:       recipients,
		BackupTime: now,
		Version:    constants.BackupVersion,
		Total:      len(recipients),
	}
	if err := s.backupRepo.SaveSnapshot(snapshot); err != nil {
		logger.Warnw("recipient_backup_write_failed", "total", len(recipients), "error", err)
	}
}

func (s *RecipientService) writeLastSubmission(recipient *models.Recipient) {
	if s.slots == nil {
		return
	}
	last := models.LastSubmission{
		ID:         recipient.ID,
		Name:       recipient.Name,
		Phone:      recipient.Phone,
		Address:    recipient.Address,
		Message:    recipient.Blessing,
		SubmitTime: recipient.SubmitTimeFormatted,
	}
	if err := repository.SetJSON(s.slots, constants.SlotLastSubmission, last); err != nil {
		logger.Warnw("recipient_last_submission_write_failed", "recipient_id", recipient.ID, "error", err)
	}
}

// generateRecipientID 生成 R<YYYYMMDD>_<NNN>，序号为当天已有记录数 + 1
// 当天记录被删除后序号可能与现存记录冲突，此时顺延到下一个空闲序号
func generateRecipientID(recipients []models.Recipient, now time.Time) string {
	dateStr := now.Format(constants.RecipientIDDateLayout)
	existing := make(map[string]struct{}, len(recipients))
	count := 0
	for _, item := range recipients {
		existing[item.ID] = struct{}{}
		if sameLocalDay(item.SubmitTime, now) {
			count++
		}
	}
	for seq := count + 1; ; seq++ {
		id := fmt.Sprintf("%s%s_%0*d", constants.RecipientIDPrefix, dateStr, constants.RecipientSequenceWidth, seq)
		if _, ok := existing[id]; !ok {
			return id
		}
	}
}

// phoneExists 前 3 位与后 4 位数字相同即视为同一号码
func phoneExists(recipients []models.Recipient, phone string) bool {
	digits := DigitsOnly(phone)
	if digits == "" {
		return false
	}
	for _, item := range recipients {
		existing := item.PhoneRaw
		if strings.TrimSpace(existing) == "" {
			existing = item.Phone
		}
		if phoneEquivalent(DigitsOnly(existing), digits) {
			return true
		}
	}
	return false
}

func phoneEquivalent(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return headOf(a, 3) == headOf(b, 3) && tailOf(a, 4) == tailOf(b, 4)
}

func headOf(value string, n int) string {
	if len(value) <= n {
		return value
	}
	return value[:n]
}

func tailOf(value string, n int) string {
	if len(value) <= n {
		return value
	}
	return value[len(value)-n:]
}

func indexOfRecipient(recipients []models.Recipient, id string) int {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1
	}
	for i := range recipients {
		if recipients[i].ID == id {
			return i
		}
	}
	return -1
}

func applyStatus(item *models.Recipient, status string, now time.Time) {
	item.Status = status
	item.StatusText = StatusText(status)
	item.UpdatedAt = now
	switch status {
	case constants.RecipientStatusShipped:
		if item.ShippedAt == nil {
			shippedAt := now
			item.ShippedAt = &shippedAt
		}
	case constants.RecipientStatusReceived:
		if item.ReceivedAt == nil {
			receivedAt := now
			item.ReceivedAt = &receivedAt
		}
	}
}

// IsValidStatus 判断状态是否合法
func IsValidStatus(status string) bool {
	switch status {
	case constants.RecipientStatusPending, constants.RecipientStatusShipped, constants.RecipientStatusReceived:
		return true
	default:
		return false
	}
}

// StatusText 状态文案
func StatusText(status string) string {
	switch status {
	case constants.RecipientStatusPending:
		return constants.RecipientStatusTextPending
	case constants.RecipientStatusShipped:
		return constants.RecipientStatusTextShipped
	case constants.RecipientStatusReceived:
		return constants.RecipientStatusTextReceived
	default:
		return constants.RecipientStatusTextUnknown
	}
}

func sameLocalDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func orUnknown(value string) string {
	if strings.TrimSpace(value) == "" {
		return constants.RecipientUnknownText
	}
	return value
}

// percentOf 计算百分比并保留指定小数位，total 为 0 时返回 0
func percentOf(part, total int, places int32) float64 {
	return percentOf64(int64(part), int64(total), places)
}

func percentOf64(part, total int64, places int32) float64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(places).
		InexactFloat64()
}
