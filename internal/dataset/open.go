package dataset

import (
	"context"
	"net/http"
	"strings"
	"time"

	"wilayah/internal/store"
	"wilayah/internal/utils"
)

// 文档注释：按来源串选择数据集来源
// 背景：DATASET_SOURCE 一个变量覆盖全部部署形态：
// http(s):// 走 HTTP；s3:// 走对象存储；postgres:// 与 sqlite:// 或 .db/.sqlite 走导入后的数据库；其余按本地 JSON 文件。
// 约束：此处只构造来源，不做加载；数据库连接的关闭由进程退出负责
func Open(ctx context.Context, source string, timeout time.Duration) (Provider, error) {
	lower := strings.ToLower(source)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return &HTTPProvider{URL: source, Client: &http.Client{Timeout: timeout}}, nil
	case strings.HasPrefix(lower, "s3://"):
		p, err := NewS3Provider(ctx, source, S3ConfigFromEnv())
		if err != nil {
			return nil, unavailable(source, err)
		}
		return p, nil
	case utils.IsPostgresDSN(source), utils.IsSQLiteDSN(source):
		db, driver, err := utils.OpenDSN(source)
		if err != nil {
			return nil, unavailable(source, err)
		}
		return &SQLProvider{Store: store.AttachDB(db, driver), Source: redact(source)}, nil
	}
	return &FileProvider{Path: source}, nil
}

// redact 去掉 DSN 中的密码，避免写入日志与错误信息
func redact(dsn string) string {
	at := strings.Index(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	userinfo := dsn[scheme+3 : at]
	if i := strings.Index(userinfo, ":"); i >= 0 {
		return dsn[:scheme+3] + userinfo[:i] + ":***" + dsn[at:]
	}
	return dsn
}
