package filter

import "wilayah/internal/region"

// 文档注释：已解析的筛选选择（封闭的四态和类型）
// 背景：用 Unset / ProvinceOnly / ProvinceRegency / Full 四种变体代替三个可空字段，
// 使“下级已选而上级未选”或“父子不一致”在类型层面无法构造。
// 约束：变体字段不导出，只能经 Resolve 或 narrow 系列方法构造，后者会校验父级引用。
type Selection interface {
	// Depth 返回已选层级数（0..3）
	Depth() int
	Province() (region.Province, bool)
	Regency() (region.Regency, bool)
	District() (region.District, bool)
	selection()
}

// Unset：三级均未选择
type Unset struct{}

// ProvinceOnly：仅选择了省
type ProvinceOnly struct {
	province region.Province
}

// ProvinceRegency：选择了省与其下属县市
type ProvinceRegency struct {
	province region.Province
	regency  region.Regency
}

// Full：三级均已选择且逐级一致
type Full struct {
	province region.Province
	regency  region.Regency
	district region.District
}

func (Unset) selection()           {}
func (ProvinceOnly) selection()    {}
func (ProvinceRegency) selection() {}
func (Full) selection()            {}

func (Unset) Depth() int           { return 0 }
func (ProvinceOnly) Depth() int    { return 1 }
func (ProvinceRegency) Depth() int { return 2 }
func (Full) Depth() int            { return 3 }

func (Unset) Province() (region.Province, bool) { return region.Province{}, false }
func (Unset) Regency() (region.Regency, bool)   { return region.Regency{}, false }
func (Unset) District() (region.District, bool) { return region.District{}, false }

func (s ProvinceOnly) Province() (region.Province, bool) { return s.province, true }
func (ProvinceOnly) Regency() (region.Regency, bool)     { return region.Regency{}, false }
func (ProvinceOnly) District() (region.District, bool)   { return region.District{}, false }

func (s ProvinceRegency) Province() (region.Province, bool) { return s.province, true }
func (s ProvinceRegency) Regency() (region.Regency, bool)   { return s.regency, true }
func (ProvinceRegency) District() (region.District, bool)   { return region.District{}, false }

func (s Full) Province() (region.Province, bool) { return s.province, true }
func (s Full) Regency() (region.Regency, bool)   { return s.regency, true }
func (s Full) District() (region.District, bool) { return s.district, true }

// SelectProvince 构造仅含省的选择
func SelectProvince(p region.Province) ProvinceOnly { return ProvinceOnly{province: p} }

// WithRegency 在省选择上追加县市；县市不属于该省时返回 false
func (s ProvinceOnly) WithRegency(r region.Regency) (ProvinceRegency, bool) {
	if r.ProvinceID != s.province.ID {
		return ProvinceRegency{}, false
	}
	return ProvinceRegency{province: s.province, regency: r}, true
}

// WithDistrict 在县市选择上追加区；区不属于该县市时返回 false
func (s ProvinceRegency) WithDistrict(d region.District) (Full, bool) {
	if d.RegencyID != s.regency.ID {
		return Full{}, false
	}
	return Full{province: s.province, regency: s.regency, district: d}, true
}
