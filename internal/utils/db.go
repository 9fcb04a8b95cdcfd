// 包 utils：数据库与 Redis 连接工具，统一环境变量读取
package utils

import (
	"database/sql"
	"net/url"
	"os"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// 驱动名：与 database/sql 注册名一致
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// IsSQLiteDSN：sqlite:// 前缀或 .db / .sqlite 后缀视为 SQLite 文件
func IsSQLiteDSN(dsn string) bool {
	l := strings.ToLower(dsn)
	return strings.HasPrefix(l, "sqlite://") || strings.HasSuffix(l, ".db") || strings.HasSuffix(l, ".sqlite")
}

// IsPostgresDSN：postgres:// 或 postgresql:// 前缀
func IsPostgresDSN(dsn string) bool {
	l := strings.ToLower(dsn)
	return strings.HasPrefix(l, "postgres://") || strings.HasPrefix(l, "postgresql://")
}

// OpenDSN 按 DSN 形态选择驱动打开数据库，返回驱动名供上层选择 SQL 方言
func OpenDSN(dsn string) (*sql.DB, string, error) {
	if IsSQLiteDSN(dsn) {
		db, err := OpenSQLite(strings.TrimPrefix(dsn, "sqlite://"))
		return db, DriverSQLite, err
	}
	db, err := OpenPostgres(dsn)
	return db, DriverPostgres, err
}

// OpenSQLite 打开 SQLite 文件；单写连接避免 database is locked
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open(DriverSQLite, path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// OpenPostgres 打开 Postgres 连接池，连接数可由 PG_MAX_OPEN_CONNS / PG_MAX_IDLE_CONNS 覆盖
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverPostgres, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(envInt("PG_MAX_OPEN_CONNS", 10))
	db.SetMaxIdleConns(envInt("PG_MAX_IDLE_CONNS", 5))
	return db, nil
}

// BuildPostgresDSNFromEnv 由 PG_HOST / PG_PORT / PG_USER / PG_PASSWORD / PG_DB / PG_SSLMODE 拼出 DSN
// 约束：用户名与密码按 URL 规则转义，密码含 @ 或 / 时仍可解析
func BuildPostgresDSNFromEnv() string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     envOr("PG_HOST", "localhost") + ":" + envOr("PG_PORT", "5432"),
		Path:     "/" + envOr("PG_DB", "wilayah"),
		RawQuery: "sslmode=" + url.QueryEscape(envOr("PG_SSLMODE", "disable")),
	}
	user := envOr("PG_USER", "postgres")
	if pass := os.Getenv("PG_PASSWORD"); pass != "" {
		u.User = url.UserPassword(user, pass)
	} else {
		u.User = url.User(user)
	}
	return u.String()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return def
}
