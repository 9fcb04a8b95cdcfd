// 数据导入工具：从任一数据集来源读取行政区划并写入 PostgreSQL / SQLite，供服务以数据库来源加载
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"wilayah/internal/dataset"
	"wilayah/internal/logger"
	"wilayah/internal/migrate"
	"wilayah/internal/store"
	"wilayah/internal/utils"
)

// 文档注释：读取来源、建表、单事务 upsert 并打印各表行数
// 背景：-from 与服务的 DATASET_SOURCE 同格式；-to 缺省按 PG_* 环境变量拼接 DSN。
// 约束：重复导入幂等；任一步失败以非零状态退出，数据库保持导入前状态。
func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	from := flag.String("from", filepath.Join("data", "indonesia_regions.json"), "dataset source (file, http(s)://, s3://, sqlite or postgres DSN)")
	to := flag.String("to", "", "target DSN (postgres://... or sqlite path); defaults to PG_* env")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	l := logger.Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	target := *to
	if target == "" {
		target = utils.BuildPostgresDSNFromEnv()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	src, err := dataset.Open(ctx, *from, *timeout)
	if err != nil {
		l.Error("source_open_error", "err", err)
		os.Exit(1)
	}
	ds, err := src.Load(ctx)
	if err != nil {
		l.Error("source_load_error", "kind", src.Kind(), "err", err)
		os.Exit(1)
	}
	doc := ds.Document()
	l.Info("source_load_ok", "kind", src.Kind(), "provinces", len(doc.Provinces), "regencies", len(doc.Regencies), "districts", len(doc.Districts))

	db, driver, err := utils.OpenDSN(target)
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	st := store.AttachDB(db, driver)
	defer st.Close()
	if err := migrate.EnsureSchema(ctx, db); err != nil {
		l.Error("schema_error", "err", err)
		os.Exit(1)
	}

	total := int64(len(doc.Provinces) + len(doc.Regencies) + len(doc.Districts))
	bar := progressbar.NewOptions64(
		total,
		progressbar.OptionSetDescription("Importing regions"),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
		progressbar.OptionFullWidth(),
	)
	if err := st.ImportDocument(ctx, doc, func() { _ = bar.Add(1) }); err != nil {
		l.Error("import_error", "err", err)
		os.Exit(1)
	}
	_ = bar.Finish()

	t, err := st.GetTotals(ctx)
	if err != nil {
		l.Error("totals_error", "err", err)
		os.Exit(1)
	}
	fmt.Printf("provinces=%d regencies=%d districts=%d (%s)\n", t.Provinces, t.Regencies, t.Districts, driver)
}
