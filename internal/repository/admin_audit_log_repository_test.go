package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/wedding-candy/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuditRepositoryTest(t *testing.T) *GormAdminAuditLogRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.AdminAuditLog{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewAdminAuditLogRepository(db)
}

func TestAdminAuditLogRepositoryListAdmin(t *testing.T) {
	repo := setupAuditRepositoryTest(t)
	base := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	logs := []models.AdminAuditLog{
		{OperatorUsername: "admin", Action: "recipient_delete", TargetID: "R20240520_001", CreatedAt: base},
		{OperatorUsername: "admin", Action: "data_clear", DetailJSON: models.JSON{"cleared": 3}, CreatedAt: base.Add(time.Hour)},
		{OperatorUsername: "helper", Action: "login", CreatedAt: base.Add(2 * time.Hour)},
	}
	for i := range logs {
		if err := repo.Create(&logs[i]); err != nil {
			t.Fatalf("create log failed: %v", err)
		}
	}

	items, total, err := repo.ListAdmin(AdminAuditLogListFilter{OperatorUsername: "admin", Page: 1, PageSize: 1})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(items) != 1 || items[0].Action != "data_clear" {
		t.Fatalf("want newest admin log first, total=%d items=%+v", total, items)
	}
	if items[0].DetailJSON["cleared"] != float64(3) {
		t.Fatalf("detail should round trip, got %+v", items[0].DetailJSON)
	}

	items, total, err = repo.ListAdmin(AdminAuditLogListFilter{Keyword: "0520_001"})
	if err != nil || total != 1 || items[0].TargetID != "R20240520_001" {
		t.Fatalf("keyword filter failed: total=%d err=%v", total, err)
	}

	from := base.Add(90 * time.Minute)
	_, total, err = repo.ListAdmin(AdminAuditLogListFilter{CreatedFrom: &from})
	if err != nil || total != 1 {
		t.Fatalf("created_from filter want 1 got %d err=%v", total, err)
	}
}
