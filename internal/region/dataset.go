package region

// 文档注释：只读数据集快照
// 背景：加载一次后在整个会话内共享，查询期不加锁；按 id 建立字典与父子列表，避免每次请求线性扫描。
// 约束：保持输入顺序；重复 id 以首次出现为准（与线性 find 语义一致）；父级不存在的子项保留在集合中但不可达。
type Dataset struct {
	provinces []Province
	regencies []Regency
	districts []District

	provinceByID map[int]int
	regencyByID  map[int]int
	districtByID map[int]int

	regenciesOf map[int][]int
	districtsOf map[int][]int
}

// NewDataset 复制输入切片并建立索引
func NewDataset(provinces []Province, regencies []Regency, districts []District) *Dataset {
	d := &Dataset{
		provinces:    append([]Province(nil), provinces...),
		regencies:    append([]Regency(nil), regencies...),
		districts:    append([]District(nil), districts...),
		provinceByID: make(map[int]int, len(provinces)),
		regencyByID:  make(map[int]int, len(regencies)),
		districtByID: make(map[int]int, len(districts)),
		regenciesOf:  make(map[int][]int),
		districtsOf:  make(map[int][]int),
	}
	for i, p := range d.provinces {
		if _, ok := d.provinceByID[p.ID]; !ok {
			d.provinceByID[p.ID] = i
		}
	}
	for i, r := range d.regencies {
		if _, ok := d.regencyByID[r.ID]; !ok {
			d.regencyByID[r.ID] = i
		}
		d.regenciesOf[r.ProvinceID] = append(d.regenciesOf[r.ProvinceID], i)
	}
	for i, x := range d.districts {
		if _, ok := d.districtByID[x.ID]; !ok {
			d.districtByID[x.ID] = i
		}
		d.districtsOf[x.RegencyID] = append(d.districtsOf[x.RegencyID], i)
	}
	return d
}

// FromDocument 由线上文档构建数据集
func FromDocument(doc Document) *Dataset {
	return NewDataset(doc.Provinces, doc.Regencies, doc.Districts)
}

// Document 返回可重新序列化的文档副本（用于缓存与导入）
func (d *Dataset) Document() Document {
	return Document{Provinces: d.Provinces(), Regencies: d.Regencies(), Districts: d.Districts()}
}

func (d *Dataset) Provinces() []Province { return append([]Province(nil), d.provinces...) }
func (d *Dataset) Regencies() []Regency  { return append([]Regency(nil), d.regencies...) }
func (d *Dataset) Districts() []District { return append([]District(nil), d.districts...) }

func (d *Dataset) Province(id int) (Province, bool) {
	i, ok := d.provinceByID[id]
	if !ok {
		return Province{}, false
	}
	return d.provinces[i], true
}

func (d *Dataset) Regency(id int) (Regency, bool) {
	i, ok := d.regencyByID[id]
	if !ok {
		return Regency{}, false
	}
	return d.regencies[i], true
}

func (d *Dataset) District(id int) (District, bool) {
	i, ok := d.districtByID[id]
	if !ok {
		return District{}, false
	}
	return d.districts[i], true
}

// RegenciesOf 返回 province_id 等于给定值的全部县市，按数据集顺序；无匹配时返回空切片而非 nil
func (d *Dataset) RegenciesOf(provinceID int) []Regency {
	idx := d.regenciesOf[provinceID]
	out := make([]Regency, 0, len(idx))
	for _, i := range idx {
		out = append(out, d.regencies[i])
	}
	return out
}

// DistrictsOf 返回 regency_id 等于给定值的全部区，按数据集顺序
func (d *Dataset) DistrictsOf(regencyID int) []District {
	idx := d.districtsOf[regencyID]
	out := make([]District, 0, len(idx))
	for _, i := range idx {
		out = append(out, d.districts[i])
	}
	return out
}

// Counts 返回三级实体数量，用于日志与健康检查
func (d *Dataset) Counts() (provinces, regencies, districts int) {
	return len(d.provinces), len(d.regencies), len(d.districts)
}
