package models

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite" // 纯 Go SQLite 驱动（基于 modernc.org/sqlite）
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 全局数据库连接，未配置数据库时为 nil
var DB *gorm.DB

// DBPoolConfig 数据库连接池配置
type DBPoolConfig struct {
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeSeconds int
	ConnMaxIdleTimeSeconds int
}

// InitDB 初始化数据库连接，driver 为空时使用 sqlite
func InitDB(driver, dsn string, pool DBPoolConfig) error {
	dialector, err := openDialector(driver, dsn)
	if err != nil {
		return err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("open %s database: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	applyDBPool(sqlDB, pool)
	DB = db
	return nil
}

// CloseDB 关闭全局连接
func CloseDB() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	DB = nil
	return sqlDB.Close()
}

func openDialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		if err := ensureSQLiteDir(dsn); err != nil {
			return nil, err
		}
		return sqlite.Open(sqliteDSN(dsn)), nil
	case "postgres", "postgresql":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// sqliteDSN 补齐 busy_timeout 与 WAL，后台导出和宾客提交可能同时写库
func sqliteDSN(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" || strings.Contains(dsn, ":memory:") {
		return dsn
	}
	var pragmas []string
	if !strings.Contains(dsn, "busy_timeout") {
		pragmas = append(pragmas, "_pragma=busy_timeout(5000)")
	}
	if !strings.Contains(dsn, "journal_mode") {
		pragmas = append(pragmas, "_pragma=journal_mode(WAL)")
	}
	if len(pragmas) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(pragmas, "&")
}

// ensureSQLiteDir 确保 sqlite 文件所在目录存在
func ensureSQLiteDir(dsn string) error {
	path := strings.TrimSpace(dsn)
	if path == "" || strings.HasPrefix(path, "file:") || strings.Contains(path, ":memory:") {
		return nil
	}
	if idx := strings.Index(path, "?"); idx >= 0 {
		path = path[:idx]
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create sqlite dir failed: %w", err)
	}
	return nil
}

func applyDBPool(sqlDB *sql.DB, pool DBPoolConfig) {
	if sqlDB == nil {
		return
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns >= 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetimeSeconds > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeSeconds) * time.Second)
	}
	if pool.ConnMaxIdleTimeSeconds > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(pool.ConnMaxIdleTimeSeconds) * time.Second)
	}
}

// AutoMigrate 迁移槽位表与审计日志表
func AutoMigrate() error {
	if DB == nil {
		return errors.New("database not initialized")
	}
	return DB.AutoMigrate(
		&StorageSlot{},
		&AdminAuditLog{},
	)
}
