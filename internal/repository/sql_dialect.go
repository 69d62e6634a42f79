package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

// buildLikeCondition 构建多列 LIKE 条件（OR 连接），并返回参数数量。
func buildLikeCondition(db *gorm.DB, columns []string) (string, int) {
	return buildLikeConditionByDialect(dbDialectName(db), columns)
}

func buildLikeConditionByDialect(dialect string, columns []string) (string, int) {
	parts := make([]string, 0, len(columns))
	operator := likeOperatorByDialect(dialect)
	for _, column := range columns {
		trimmed := strings.TrimSpace(column)
		if trimmed == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s ?", trimmed, operator))
	}
	if len(parts) == 0 {
		return "1 = 1", 0
	}
	return "(" + strings.Join(parts, " OR ") + ")", len(parts)
}

func likeOperatorByDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "ILIKE"
	default:
		return "LIKE"
	}
}

// repeatLikeArgs 生成重复的 LIKE 参数列表。
func repeatLikeArgs(like string, count int) []interface{} {
	args := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		args = append(args, like)
	}
	return args
}
