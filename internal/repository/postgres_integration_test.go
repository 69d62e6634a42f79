//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/wedding-candy/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.StorageSlot{},
		&models.AdminAuditLog{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(cleanupModels...); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresSlotStoreUpsertAndKeys(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	store := NewSlotRepository(db, "pg_")

	if err := store.Set("recipients", []byte(`[]`)); err != nil {
		t.Fatalf("set slot failed: %v", err)
	}
	if err := store.Set("recipients", []byte(`[{"id":"R1"}]`)); err != nil {
		t.Fatalf("upsert slot failed: %v", err)
	}
	if err := store.Set("admin_session_abc", []byte(`{}`)); err != nil {
		t.Fatalf("set session slot failed: %v", err)
	}

	value, ok, err := store.Get("recipients")
	if err != nil || !ok || string(value) != `[{"id":"R1"}]` {
		t.Fatalf("get slot want upserted value, got %q ok=%v err=%v", value, ok, err)
	}
	keys, err := store.Keys("admin_session_")
	if err != nil || len(keys) != 1 || keys[0] != "admin_session_abc" {
		t.Fatalf("keys by prefix failed: %v err=%v", keys, err)
	}
	usage, err := store.Usage()
	if err != nil || usage <= 0 {
		t.Fatalf("usage should be positive, got %d err=%v", usage, err)
	}
}

func TestPostgresAdminAuditLogKeywordSearch(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewAdminAuditLogRepository(db)

	base := time.Now().UTC()
	logs := []models.AdminAuditLog{
		{OperatorUsername: "admin", Action: "recipient_delete", TargetID: "R20240520_001", CreatedAt: base},
		{OperatorUsername: "admin", Action: "export", Object: "/api/v1/admin/export/csv", CreatedAt: base.Add(time.Minute)},
	}
	for i := range logs {
		if err := repo.Create(&logs[i]); err != nil {
			t.Fatalf("create log failed: %v", err)
		}
	}

	items, total, err := repo.ListAdmin(AdminAuditLogListFilter{Keyword: "EXPORT/CSV"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Action != "export" {
		t.Fatalf("ilike keyword should ignore case, total=%d items=%+v", total, items)
	}
}
