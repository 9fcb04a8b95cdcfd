package utils

import (
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"

	"wilayah/internal/logger"
)

// OpenRedisFromEnv：按 REDIS_HOST / REDIS_PORT / REDIS_PASS / REDIS_DB 构造客户端
// 约束：REDIS_DB 非法时回退 0；只构造客户端不做连通性检查，由调用方 Ping
func OpenRedisFromEnv() *redis.Client {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "127.0.0.1"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	addr := host + ":" + port
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			db = n
		}
	}
	logger.L().Debug("redis_env", "addr", addr, "db", db)
	return redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASS"), DB: db})
}
