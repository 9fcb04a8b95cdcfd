package dataset

import (
	"context"
	"os"

	"wilayah/internal/region"
)

// FileProvider 从本地 JSON 文件读取数据集
type FileProvider struct {
	Path string
}

func (p *FileProvider) Kind() string { return "file" }

func (p *FileProvider) Load(ctx context.Context) (*region.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(p.Path, err)
	}
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, unavailable(p.Path, err)
	}
	defer f.Close()
	ds, err := Decode(f)
	if err != nil {
		return nil, unavailable(p.Path, err)
	}
	return ds, nil
}
