package models

import (
	"path/filepath"
	"testing"
)

func TestSQLiteDSN(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"file::memory:?cache=shared", "file::memory:?cache=shared"},
		{"data/candy.db", "data/candy.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"},
		{"data/candy.db?_pragma=journal_mode(DELETE)", "data/candy.db?_pragma=journal_mode(DELETE)&_pragma=busy_timeout(5000)"},
	}
	for _, tc := range cases {
		if got := sqliteDSN(tc.input); got != tc.want {
			t.Fatalf("dsn %q want %q got %q", tc.input, tc.want, got)
		}
	}
}

func TestInitDBCreatesSQLiteFile(t *testing.T) {
	t.Cleanup(func() { _ = CloseDB() })
	dsn := filepath.Join(t.TempDir(), "nested", "candy.db")
	if err := InitDB("sqlite", dsn, DBPoolConfig{MaxOpenConns: 1}); err != nil {
		t.Fatalf("init db failed: %v", err)
	}
	if err := AutoMigrate(); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !DB.Migrator().HasTable(&StorageSlot{}) || !DB.Migrator().HasTable(&AdminAuditLog{}) {
		t.Fatalf("tables should be created")
	}
	if err := CloseDB(); err != nil || DB != nil {
		t.Fatalf("close db failed: %v", err)
	}
	if err := AutoMigrate(); err == nil {
		t.Fatalf("migrate without db should fail")
	}
}

func TestInitDBRejectsUnknownDriver(t *testing.T) {
	if err := InitDB("mysql", "root@/candy", DBPoolConfig{}); err == nil {
		t.Fatalf("unknown driver should fail")
	}
}
