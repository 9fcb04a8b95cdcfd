package filter

import "wilayah/internal/region"

// DefaultRootLabel：面包屑根标签
const DefaultRootLabel = "Indonesia"

// Options：第二、三级下拉框当前可选项
type Options struct {
	Regencies []region.Regency
	Districts []region.District
}

// 文档注释：派生可选项
// 背景：县市选项为所选省的全部下属县市，区选项为所选县市的全部下属区；上级未选时为空列表。
// 约束：仅做外键等值过滤，保持数据集顺序；返回的切片均非 nil，便于序列化为 []。
func DeriveOptions(ds *region.Dataset, sel Selection) Options {
	out := Options{Regencies: []region.Regency{}, Districts: []region.District{}}
	if ds == nil {
		return out
	}
	if p, ok := sel.Province(); ok {
		out.Regencies = ds.RegenciesOf(p.ID)
	}
	if r, ok := sel.Regency(); ok {
		out.Districts = ds.DistrictsOf(r.ID)
	}
	return out
}

// Breadcrumb 返回根标签加上已选各级名称；级联不变量保证不会跳过中间层级
func Breadcrumb(sel Selection, root string) []string {
	out := make([]string, 0, 1+sel.Depth())
	out = append(out, root)
	if p, ok := sel.Province(); ok {
		out = append(out, p.Name)
	}
	if r, ok := sel.Regency(); ok {
		out = append(out, r.Name)
	}
	if d, ok := sel.District(); ok {
		out = append(out, d.Name)
	}
	return out
}

// CanReset：任一层级已选时允许重置
func CanReset(sel Selection) bool { return sel.Depth() > 0 }

// Enabled：上级已选时该层级的选择器可用；省始终可用
func Enabled(sel Selection, level Level) bool {
	if !level.Valid() {
		return false
	}
	return sel.Depth() >= int(level)-1
}
