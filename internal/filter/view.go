package filter

import (
	"net/url"

	"wilayah/internal/region"
)

// View：一次请求的完整读模型，由数据集与查询串纯函数派生；HTML 页面与 JSON 接口共用
type View struct {
	Query      string
	State      url.Values
	Selection  Selection
	Provinces  []region.Province
	Options    Options
	Breadcrumb []string
	Dangling   []Level
}

// BuildView 解析状态并派生全部展示所需数据
func BuildView(ds *region.Dataset, state url.Values, root string) View {
	if root == "" {
		root = DefaultRootLabel
	}
	sel := Resolve(ds, state)
	provinces := []region.Province{}
	if ds != nil {
		provinces = ds.Provinces()
	}
	return View{
		Query:      Encode(state),
		State:      state,
		Selection:  sel,
		Provinces:  provinces,
		Options:    DeriveOptions(ds, sel),
		Breadcrumb: Breadcrumb(sel, root),
		Dangling:   Dangling(state, sel),
	}
}

// Value 返回某层级在状态中的原始值（下拉框回显用）；仅回显已解析保留的层级
func (v View) Value(level Level) string {
	if int(level) > v.Selection.Depth() {
		return ""
	}
	return Canonical(v.Selection).Get(level.Key())
}
