package admin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wedding-candy/internal/config"
	"github.com/wedding-candy/internal/constants"
	handlershared "github.com/wedding-candy/internal/http/handlers/shared"
	"github.com/wedding-candy/internal/provider"
	"github.com/wedding-candy/internal/repository"
	"github.com/wedding-candy/internal/service"

	"github.com/gin-gonic/gin"
)

type apiEnvelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
	Pagination struct {
		Page  int   `json:"page"`
		Total int64 `json:"total"`
	} `json:"pagination"`
}

func setupAdminHandlerTest(t *testing.T) (*gin.Engine, *provider.Container) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWT:   config.JWTConfig{SecretKey: "admin-handler-secret"},
		Admin: config.AdminConfig{Username: "admin", Password: "wedding2024", SessionTimeoutMinutes: 120},
	}
	store := repository.NewMemorySlotStore()
	backupRepo := repository.NewBackupRepository(store)
	auth := service.NewAuthService(cfg, store)
	recipients := service.NewRecipientService(repository.NewRecipientRepository(store), backupRepo, store, 0, nil)
	backups := service.NewBackupService(cfg.Backup, recipients, backupRepo, auth, nil)
	container := &provider.Container{
		Config:            cfg,
		SlotStore:         store,
		BackupRepo:        backupRepo,
		AuthService:       auth,
		RecipientService:  recipients,
		BackupService:     backups,
		ExportService:     service.NewExportService(recipients, backups, store, 0),
		StatisticsService: service.NewStatisticsService(recipients),
	}
	h := New(container)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(handlershared.ContextKeyAdminUsername, "admin")
		c.Set(handlershared.ContextKeyAdminRole, constants.AdminRoleOwner)
		c.Next()
	})
	r.GET("/recipients", h.GetRecipients)
	r.POST("/recipients/batch-delete", h.BatchDeleteRecipients)
	r.GET("/recipients/:id", h.GetRecipient)
	r.PATCH("/recipients/:id", h.PatchRecipient)
	r.PUT("/recipients/:id/status", h.UpdateRecipientStatus)
	r.DELETE("/recipients/:id", h.DeleteRecipient)
	r.GET("/statistics/trend", h.GetTrendStatistics)
	r.GET("/export/json", h.ExportJSON)
	r.POST("/import/json", h.ImportJSON)
	r.GET("/export/history", h.GetExportHistory)
	r.GET("/backup", h.GetBackupStatus)
	r.POST("/backup", h.CreateBackup)
	r.POST("/backup/restore", h.RestoreBackup)
	r.GET("/audit-logs", h.ListAuditLogs)
	return r, container
}

func seedRecipient(t *testing.T, c *provider.Container, name, phone, province string) string {
	t.Helper()
	result := c.RecipientService.Create(service.RecipientInput{
		Name:            name,
		Phone:           phone,
		Province:        province,
		City:            "某市",
		District:        "某区",
		Address:         "幸福路1号",
		Relationship:    constants.RelationFriend,
		DeliveryTime:    constants.DeliveryTimeAnytime,
		PrivacyAccepted: true,
	}, service.ClientMeta{})
	if !result.Success {
		t.Fatalf("seed %s failed: %v", name, result.Err)
	}
	return result.Data.ID
}

func perform(t *testing.T, r *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func performJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) apiEnvelope {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
	}
	w := perform(t, r, method, path, payload)
	var env apiEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response failed: %v body=%s", err, w.Body.String())
	}
	return env
}

func TestGetRecipientsFilterAndPage(t *testing.T) {
	r, c := setupAdminHandlerTest(t)
	seedRecipient(t, c, "张三", "13800138000", "广东省")
	seedRecipient(t, c, "李四", "13900139001", "广东省")
	seedRecipient(t, c, "王五", "13700137002", "北京市")

	env := performJSON(t, r, http.MethodGet, "/recipients?province=广东省&page=1&page_size=1", nil)
	if env.StatusCode != 0 {
		t.Fatalf("list want 0 got %d msg=%s", env.StatusCode, env.Msg)
	}
	var items []map[string]interface{}
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("decode items failed: %v", err)
	}
	if env.Pagination.Total != 2 || len(items) != 1 {
		t.Fatalf("want total 2 with 1 item, got total=%d items=%d", env.Pagination.Total, len(items))
	}

	env = performJSON(t, r, http.MethodGet, "/recipients?start_date=2024/01/01", nil)
	if env.StatusCode != 400 {
		t.Fatalf("bad date want 400 got %d", env.StatusCode)
	}
}

func TestRecipientMutations(t *testing.T) {
	r, c := setupAdminHandlerTest(t)
	id := seedRecipient(t, c, "张三", "13800138000", "广东省")

	if env := performJSON(t, r, http.MethodGet, "/recipients/R19700101_999", nil); env.StatusCode != 404 {
		t.Fatalf("missing record want 404 got %d", env.StatusCode)
	}

	env := performJSON(t, r, http.MethodPatch, "/recipients/"+id, map[string]string{"name": "张三丰"})
	if env.StatusCode != 0 {
		t.Fatalf("patch want 0 got %d msg=%s", env.StatusCode, env.Msg)
	}
	if record, _ := c.RecipientService.GetByID(id); record.Name != "张三丰" {
		t.Fatalf("name should be patched, got %s", record.Name)
	}
	if env := performJSON(t, r, http.MethodPatch, "/recipients/"+id, map[string]string{"relation": "boss"}); env.StatusCode != 400 {
		t.Fatalf("invalid relation want 400 got %d", env.StatusCode)
	}

	env = performJSON(t, r, http.MethodPut, "/recipients/"+id+"/status", map[string]string{"status": constants.RecipientStatusReceived})
	if env.StatusCode != 0 {
		t.Fatalf("status want 0 got %d", env.StatusCode)
	}
	record, _ := c.RecipientService.GetByID(id)
	if record.Status != constants.RecipientStatusReceived || record.ReceivedAt == nil {
		t.Fatalf("received should stamp the received time: %+v", record)
	}
}

func TestBatchDeleteRecipients(t *testing.T) {
	r, c := setupAdminHandlerTest(t)
	first := seedRecipient(t, c, "张三", "13800138000", "广东省")
	second := seedRecipient(t, c, "李四", "13900139001", "广东省")

	env := performJSON(t, r, http.MethodPost, "/recipients/batch-delete", map[string][]string{"ids": {first, second, "missing"}})
	var result service.BatchResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result failed: %v", err)
	}
	if result.Success != 2 || result.Failed != 1 {
		t.Fatalf("batch delete want {2,1} got %+v", result)
	}
	if c.RecipientService.Count() != 0 {
		t.Fatalf("records should be deleted")
	}
}

func TestTrendStatisticsCapsDays(t *testing.T) {
	r, _ := setupAdminHandlerTest(t)
	env := performJSON(t, r, http.MethodGet, "/statistics/trend?days=365", nil)
	var points []service.TrendPoint
	if err := json.Unmarshal(env.Data, &points); err != nil {
		t.Fatalf("decode trend failed: %v", err)
	}
	if len(points) != maxTrendDays {
		t.Fatalf("trend days want %d got %d", maxTrendDays, len(points))
	}
}

func TestExportAndImportJSON(t *testing.T) {
	r, c := setupAdminHandlerTest(t)
	seedRecipient(t, c, "张三", "13800138000", "广东省")

	w := perform(t, r, http.MethodGet, "/export/json", nil)
	disposition := w.Header().Get("Content-Disposition")
	if !strings.HasPrefix(disposition, "attachment; filename=") || !strings.Contains(disposition, "filename*=UTF-8''") || !strings.HasSuffix(disposition, ".json") {
		t.Fatalf("unexpected content disposition: %s", disposition)
	}
	exported := w.Body.Bytes()

	env := performJSON(t, r, http.MethodGet, "/export/history", nil)
	var history []map[string]interface{}
	if err := json.Unmarshal(env.Data, &history); err != nil || len(history) != 1 {
		t.Fatalf("export should be recorded, got %d err=%v", len(history), err)
	}

	w = perform(t, r, http.MethodPost, "/import/json", exported)
	var imported apiEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &imported); err != nil {
		t.Fatalf("decode import failed: %v", err)
	}
	var result service.ImportResult
	if err := json.Unmarshal(imported.Data, &result); err != nil {
		t.Fatalf("decode import result failed: %v", err)
	}
	if result.Imported != 0 || result.Skipped != 1 {
		t.Fatalf("re-import should skip existing ids, got %+v", result)
	}

	if env := performJSON(t, r, http.MethodPost, "/import/json", map[string]string{"foo": "bar"}); env.StatusCode != 400 {
		t.Fatalf("payload without recipients want 400 got %d", env.StatusCode)
	}
}

func TestBackupHandlers(t *testing.T) {
	r, c := setupAdminHandlerTest(t)
	seedRecipient(t, c, "张三", "13800138000", "广东省")

	if env := performJSON(t, r, http.MethodPost, "/backup/restore", nil); env.StatusCode != 404 {
		t.Fatalf("restore without backup want 404 got %d", env.StatusCode)
	}
	if env := performJSON(t, r, http.MethodPost, "/backup", nil); env.StatusCode != 0 {
		t.Fatalf("create backup want 0 got %d msg=%s", env.StatusCode, env.Msg)
	}
	env := performJSON(t, r, http.MethodGet, "/backup", nil)
	var status service.BackupStatus
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("decode status failed: %v", err)
	}
	if !status.HasBackup || status.LastBackupTime == nil {
		t.Fatalf("status should report the backup: %+v", status)
	}

	snapshot, err := c.BackupService.GetBackup()
	if err != nil || snapshot == nil {
		t.Fatalf("load backup failed: %v", err)
	}
	if err := c.RecipientService.ReplaceAll(nil); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	env = performJSON(t, r, http.MethodPost, "/backup/restore", snapshot)
	var result service.RestoreResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode restore failed: %v", err)
	}
	if result.Restored != 1 || c.RecipientService.Count() != 1 {
		t.Fatalf("restore from body want 1 got %+v", result)
	}
}

func TestListAuditLogsWithoutRepository(t *testing.T) {
	r, _ := setupAdminHandlerTest(t)
	env := performJSON(t, r, http.MethodGet, "/audit-logs?created_from=2024-05-01", nil)
	if env.StatusCode != 0 || env.Pagination.Total != 0 {
		t.Fatalf("audit list without repository want empty, got status=%d total=%d", env.StatusCode, env.Pagination.Total)
	}
	if env := performJSON(t, r, http.MethodGet, "/audit-logs?created_from=yesterday", nil); env.StatusCode != 400 {
		t.Fatalf("bad created_from want 400 got %d", env.StatusCode)
	}
}
