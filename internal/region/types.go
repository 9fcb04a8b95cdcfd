// 包 region：行政区三级实体（省 / 县市 / 区）与只读索引数据集
package region

// Province：一级行政区（Provinsi）
type Province struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Regency：二级行政区（Kota/Kabupaten），ProvinceID 指向所属省
type Regency struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	ProvinceID int    `json:"province_id"`
}

// District：三级行政区（Kecamatan），RegencyID 指向所属县市
type District struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	RegencyID int    `json:"regency_id"`
}

// Document：数据集 JSON 文档的线上格式
// 约束：三个数组均为必填；缺失任意一个视为文档损坏，由加载层判定
type Document struct {
	Provinces []Province `json:"provinces"`
	Regencies []Regency  `json:"regencies"`
	Districts []District `json:"districts"`
}
