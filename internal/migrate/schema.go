package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"wilayah/internal/logger"
)

// 背景：导入前自动创建三级行政区表与父级索引；Postgres 与 SQLite 共用同一份 DDL
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；不建外键，数据完整性由筛选层降级兜底
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS wilayah_provinces (
            id BIGINT PRIMARY KEY,
            name TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS wilayah_regencies (
            id BIGINT PRIMARY KEY,
            name TEXT NOT NULL,
            province_id BIGINT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_regencies_province ON wilayah_regencies(province_id)`,
		`CREATE TABLE IF NOT EXISTS wilayah_districts (
            id BIGINT PRIMARY KEY,
            name TEXT NOT NULL,
            regency_id BIGINT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_districts_regency ON wilayah_districts(regency_id)`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("schema stmt %d: %w", i, err)
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
