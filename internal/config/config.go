// 包 config：集中读取环境变量并给出默认值；启动时先加载 .env 文件
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config：服务运行参数
type Config struct {
	Addr    string
	APIBase string

	// 数据集
	DatasetSource   string
	DatasetTimeout  time.Duration
	DatasetRefresh  time.Duration
	DatasetCacheTTL time.Duration

	// Redis（可选，仅缓存数据集原始文档）
	RedisEnable bool

	RootLabel string

	RateLimitEnabled bool
	RateLimitQPS     int

	// 来源白名单（部署在 CDN/网关之后时启用）
	OriginDefenseEnable bool
	OriginAllowIPs      string
	OriginAllowCIDRs    string
	OriginAllowLocal    bool
	OriginRealIPHeader  string

	LogLevel  string
	LogFormat string
}

// Load：加载 .env 与 data/env/.env 后读取环境变量
// 约束：解析失败的数值按默认值处理，不报错；已存在的环境变量不会被 .env 覆盖
func Load() *Config {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	return FromEnv()
}

// FromEnv 仅读取当前进程环境变量，便于测试
func FromEnv() *Config {
	return &Config{
		Addr:    getEnv("ADDR", ":8080"),
		APIBase: apiBase(getEnv("API_BASE", "/api")),

		DatasetSource:   getEnv("DATASET_SOURCE", filepath.Join("data", "indonesia_regions.json")),
		DatasetTimeout:  getEnvAsDuration("DATASET_TIMEOUT", 15*time.Second),
		DatasetRefresh:  getEnvAsDuration("DATASET_REFRESH", 0),
		DatasetCacheTTL: getEnvAsDuration("DATASET_CACHE_TTL", time.Hour),

		RedisEnable: getEnvAsBool("REDIS_ENABLE", false),

		RootLabel: getEnv("ROOT_LABEL", "Indonesia"),

		RateLimitEnabled: getEnvAsBool("RATE_LIMIT_ENABLED", false),
		RateLimitQPS:     getEnvAsInt("RATE_LIMIT_QPS", 200),

		OriginDefenseEnable: getEnvAsBool("ORIGIN_DEFENSE_ENABLE", false),
		OriginAllowIPs:      getEnv("ORIGIN_ALLOW_IPS", ""),
		OriginAllowCIDRs:    getEnv("ORIGIN_ALLOW_CIDRS", ""),
		OriginAllowLocal:    getEnvAsBool("ORIGIN_ALLOW_LOCAL", false),
		OriginRealIPHeader:  getEnv("ORIGIN_REAL_IP_HEADER", ""),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}
}

// apiBase 规范为 "/x" 形式；根路径留给页面，空值回退 /api
func apiBase(s string) string {
	s = strings.Trim(s, "/")
	if s == "" {
		return "/api"
	}
	return "/" + s
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d >= 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
