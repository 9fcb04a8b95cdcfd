// 包 filter：三级行政区筛选状态的解析、派生与级联更新；URL 查询串是唯一的状态来源
package filter

import (
	"errors"
	"strings"
)

// Level：筛选层级，数值即深度（省=1、县市=2、区=3）
type Level int

const (
	LevelProvince Level = iota + 1
	LevelRegency
	LevelDistrict
)

// 查询串键名：与分享链接保持兼容，不可随意改名
const (
	KeyProvince = "province"
	KeyRegency  = "regency"
	KeyDistrict = "district"
)

// ErrUnknownLevel：层级名不在 province/regency/district 之内
var ErrUnknownLevel = errors.New("unknown filter level")

// Levels 按层级顺序列出全部层级
var Levels = []Level{LevelProvince, LevelRegency, LevelDistrict}

func (l Level) Valid() bool { return l >= LevelProvince && l <= LevelDistrict }

// Key 返回层级对应的查询串键名；非法层级返回空串
func (l Level) Key() string {
	switch l {
	case LevelProvince:
		return KeyProvince
	case LevelRegency:
		return KeyRegency
	case LevelDistrict:
		return KeyDistrict
	}
	return ""
}

func (l Level) String() string { return l.Key() }

// Below 返回当前层级之下的所有层级（级联清除的目标）
func (l Level) Below() []Level {
	if !l.Valid() {
		return nil
	}
	return append([]Level(nil), Levels[int(l):]...)
}

// ParseLevel 将层级名解析为 Level，大小写与首尾空白不敏感
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case KeyProvince:
		return LevelProvince, nil
	case KeyRegency:
		return LevelRegency, nil
	case KeyDistrict:
		return LevelDistrict, nil
	}
	return 0, ErrUnknownLevel
}
