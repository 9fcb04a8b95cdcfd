package dataset

import (
	"context"

	"wilayah/internal/region"
)

// Provider：数据集来源
// 约束：Load 失败时返回的错误满足 errors.Is(err, ErrDataUnavailable)；不做过滤与引用校验
type Provider interface {
	Load(ctx context.Context) (*region.Dataset, error)
	// Kind 返回来源类别（http/file/s3/postgres/sqlite），用于指标标签
	Kind() string
}
