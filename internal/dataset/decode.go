package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"wilayah/internal/region"
)

// rawDocument 使用指针切片区分“空数组”与“缺失字段”
type rawDocument struct {
	Provinces *[]region.Province `json:"provinces"`
	Regencies *[]region.Regency  `json:"regencies"`
	Districts *[]region.District `json:"districts"`
}

// Decode 解析数据集 JSON 文档
// 约束：三个数组缺一即视为文档损坏；不校验父子引用完整性，由筛选层降级处理
func Decode(r io.Reader) (*region.Dataset, error) {
	doc, err := decodeDocument(r)
	if err != nil {
		return nil, err
	}
	return region.FromDocument(doc), nil
}

func decodeDocument(r io.Reader) (region.Document, error) {
	var raw rawDocument
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return region.Document{}, fmt.Errorf("decode dataset: %w", err)
	}
	// 文档之后只允许空白
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return region.Document{}, errors.New("decode dataset: unexpected data after document")
	}
	if raw.Provinces == nil || raw.Regencies == nil || raw.Districts == nil {
		return region.Document{}, errors.New("decode dataset: provinces, regencies and districts are required")
	}
	return region.Document{Provinces: *raw.Provinces, Regencies: *raw.Regencies, Districts: *raw.Districts}, nil
}

// Encode 将数据集写回 JSON 文档（缓存写入用）
func Encode(w io.Writer, ds *region.Dataset) error {
	return json.NewEncoder(w).Encode(ds.Document())
}
