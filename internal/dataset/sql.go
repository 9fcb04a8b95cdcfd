package dataset

import (
	"context"

	"wilayah/internal/region"
	"wilayah/internal/store"
)

// SQLProvider 从导入工具写入的三张表读取数据集（Postgres 或 SQLite）
type SQLProvider struct {
	Store  *store.Store
	Source string
}

func (p *SQLProvider) Kind() string { return p.Store.Driver() }

func (p *SQLProvider) Load(ctx context.Context) (*region.Dataset, error) {
	doc, err := p.Store.LoadDocument(ctx)
	if err != nil {
		return nil, unavailable(p.Source, err)
	}
	return region.FromDocument(doc), nil
}
