// 包 store：行政区数据集的 SQL 读写（Postgres / SQLite），供数据集加载与导入工具使用
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"wilayah/internal/logger"
	"wilayah/internal/region"
	"wilayah/internal/utils"
)

// Store：持有连接池与方言（占位符风格）
type Store struct {
	db     *sql.DB
	driver string
}

// AttachDB 绑定已打开的连接；driver 取 utils.DriverPostgres 或 utils.DriverSQLite
func AttachDB(db *sql.DB, driver string) *Store { return &Store{db: db, driver: driver} }

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Driver() string { return s.driver }

func (s *Store) Close() error { return s.db.Close() }

// ph 返回第 n 个占位符：Postgres 为 $n，SQLite 为 ?
func (s *Store) ph(n int) string {
	if s.driver == utils.DriverPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// LoadDocument 读取三张表，按 id 升序返回
func (s *Store) LoadDocument(ctx context.Context) (region.Document, error) {
	var doc region.Document
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM wilayah_provinces ORDER BY id")
	if err != nil {
		return doc, fmt.Errorf("select provinces: %w", err)
	}
	for rows.Next() {
		var p region.Province
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			rows.Close()
			return doc, fmt.Errorf("scan province: %w", err)
		}
		doc.Provinces = append(doc.Provinces, p)
	}
	if err := closeRows(rows); err != nil {
		return doc, err
	}

	rows, err = s.db.QueryContext(ctx, "SELECT id, name, province_id FROM wilayah_regencies ORDER BY id")
	if err != nil {
		return doc, fmt.Errorf("select regencies: %w", err)
	}
	for rows.Next() {
		var r region.Regency
		if err := rows.Scan(&r.ID, &r.Name, &r.ProvinceID); err != nil {
			rows.Close()
			return doc, fmt.Errorf("scan regency: %w", err)
		}
		doc.Regencies = append(doc.Regencies, r)
	}
	if err := closeRows(rows); err != nil {
		return doc, err
	}

	rows, err = s.db.QueryContext(ctx, "SELECT id, name, regency_id FROM wilayah_districts ORDER BY id")
	if err != nil {
		return doc, fmt.Errorf("select districts: %w", err)
	}
	for rows.Next() {
		var d region.District
		if err := rows.Scan(&d.ID, &d.Name, &d.RegencyID); err != nil {
			rows.Close()
			return doc, fmt.Errorf("scan district: %w", err)
		}
		doc.Districts = append(doc.Districts, d)
	}
	if err := closeRows(rows); err != nil {
		return doc, err
	}
	logger.L().Debug("db_load_done", "provinces", len(doc.Provinces), "regencies", len(doc.Regencies), "districts", len(doc.Districts))
	return doc, nil
}

func closeRows(rows *sql.Rows) error {
	err := rows.Err()
	_ = rows.Close()
	if err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}
	return nil
}

// 文档注释：在单个事务内写入整份数据集（按 id upsert）
// 背景：导入工具使用；progress 每写入一行回调一次，可为 nil。
// 约束：重复执行幂等；失败整体回滚。
func (s *Store) ImportDocument(ctx context.Context, doc region.Document, progress func()) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	tick := func() {
		if progress != nil {
			progress()
		}
	}
	up2 := "INSERT INTO %s(id, name) VALUES(" + s.ph(1) + "," + s.ph(2) + ") ON CONFLICT (id) DO UPDATE SET name=excluded.name"
	up3 := "INSERT INTO %s(id, name, %s) VALUES(" + s.ph(1) + "," + s.ph(2) + "," + s.ph(3) + ") ON CONFLICT (id) DO UPDATE SET name=excluded.name, %s=excluded.%s"

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(up2, "wilayah_provinces"))
	if err != nil {
		return fmt.Errorf("prepare provinces: %w", err)
	}
	for _, p := range doc.Provinces {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name); err != nil {
			stmt.Close()
			return fmt.Errorf("upsert province %d: %w", p.ID, err)
		}
		tick()
	}
	stmt.Close()

	stmt, err = tx.PrepareContext(ctx, fmt.Sprintf(up3, "wilayah_regencies", "province_id", "province_id", "province_id"))
	if err != nil {
		return fmt.Errorf("prepare regencies: %w", err)
	}
	for _, r := range doc.Regencies {
		if _, err := stmt.ExecContext(ctx, r.ID, r.Name, r.ProvinceID); err != nil {
			stmt.Close()
			return fmt.Errorf("upsert regency %d: %w", r.ID, err)
		}
		tick()
	}
	stmt.Close()

	stmt, err = tx.PrepareContext(ctx, fmt.Sprintf(up3, "wilayah_districts", "regency_id", "regency_id", "regency_id"))
	if err != nil {
		return fmt.Errorf("prepare districts: %w", err)
	}
	for _, d := range doc.Districts {
		if _, err := stmt.ExecContext(ctx, d.ID, d.Name, d.RegencyID); err != nil {
			stmt.Close()
			return fmt.Errorf("upsert district %d: %w", d.ID, err)
		}
		tick()
	}
	stmt.Close()

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	logger.L().Info("db_import_done", "provinces", len(doc.Provinces), "regencies", len(doc.Regencies), "districts", len(doc.Districts))
	return nil
}

// Totals：各表行数
type Totals struct {
	Provinces int64
	Regencies int64
	Districts int64
}

// GetTotals 读取三张表行数，用于导入后核对
func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	var t Totals
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM wilayah_provinces").Scan(&t.Provinces); err != nil {
		return nil, fmt.Errorf("count provinces: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM wilayah_regencies").Scan(&t.Regencies); err != nil {
		return nil, fmt.Errorf("count regencies: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM wilayah_districts").Scan(&t.Districts); err != nil {
		return nil, fmt.Errorf("count districts: %w", err)
	}
	return &t, nil
}
