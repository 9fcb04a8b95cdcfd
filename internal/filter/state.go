package filter

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"wilayah/internal/region"
)

// 文档注释：解析外部状态为选择
// 背景：查询串来自分享链接，可被任意编辑；非法数字、不存在的 id、父子不匹配均按“未选择”降级，
// 且从第一个失败的层级起其下所有层级一并视为未选择。
// 约束：纯函数、全函数；任何输入都不返回错误也不 panic。数据集为 nil 时返回 Unset。
func Resolve(ds *region.Dataset, state url.Values) Selection {
	if ds == nil {
		return Unset{}
	}
	pid, ok := parseID(state, KeyProvince)
	if !ok {
		return Unset{}
	}
	p, ok := ds.Province(pid)
	if !ok {
		return Unset{}
	}
	sel := SelectProvince(p)

	rid, ok := parseID(state, KeyRegency)
	if !ok {
		return sel
	}
	r, ok := ds.Regency(rid)
	if !ok {
		return sel
	}
	withRegency, ok := sel.WithRegency(r)
	if !ok {
		return sel
	}

	did, ok := parseID(state, KeyDistrict)
	if !ok {
		return withRegency
	}
	d, ok := ds.District(did)
	if !ok {
		return withRegency
	}
	full, ok := withRegency.WithDistrict(d)
	if !ok {
		return withRegency
	}
	return full
}

// parseID：读取键的首个值并按十进制整数解析，允许首尾空白
func parseID(state url.Values, key string) (int, bool) {
	raw := strings.TrimSpace(state.Get(key))
	if raw == "" {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

// 文档注释：更新某一层级并执行级联清除
// 背景：这是唯一的状态写入口；设置或清除省会同时删除县市与区，设置或清除县市会删除区。
// 约束：返回新状态，不修改入参；value 去除空白后为空视为清除；与筛选无关的键原样保留。
func UpdateLevel(state url.Values, level Level, value string) (url.Values, error) {
	if !level.Valid() {
		return nil, ErrUnknownLevel
	}
	next := clone(state)
	v := strings.TrimSpace(value)
	if v == "" {
		next.Del(level.Key())
	} else {
		next.Set(level.Key(), v)
	}
	for _, lower := range level.Below() {
		next.Del(lower.Key())
	}
	return next, nil
}

// Reset 返回空状态，等价于初始状态
func Reset(url.Values) url.Values { return url.Values{} }

// Canonical 将选择序列化回外部状态（resolve 后再序列化）
func Canonical(sel Selection) url.Values {
	out := url.Values{}
	if p, ok := sel.Province(); ok {
		out.Set(KeyProvince, strconv.Itoa(p.ID))
	}
	if r, ok := sel.Regency(); ok {
		out.Set(KeyRegency, strconv.Itoa(r.ID))
	}
	if d, ok := sel.District(); ok {
		out.Set(KeyDistrict, strconv.Itoa(d.ID))
	}
	return out
}

// Dangling 返回状态中出现但未能解析保留的层级（悬空引用）
// 约束：仅用于日志与指标，不向用户暴露
func Dangling(state url.Values, sel Selection) []Level {
	var out []Level
	for _, l := range Levels {
		if strings.TrimSpace(state.Get(l.Key())) == "" {
			continue
		}
		if int(l) > sel.Depth() {
			out = append(out, l)
		}
	}
	return out
}

// 文档注释：按层级顺序编码查询串
// 背景：url.Values.Encode 按字母序输出（district 在前），分享链接可读性差；此处先输出 province/regency/district，
// 其余键按字母序追加。
func Encode(state url.Values) string {
	var b strings.Builder
	write := func(key string, values []string) {
		for _, v := range values {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	for _, l := range Levels {
		write(l.Key(), state[l.Key()])
	}
	var rest []string
	for k := range state {
		if k == KeyProvince || k == KeyRegency || k == KeyDistrict {
			continue
		}
		rest = append(rest, k)
	}
	sort.Strings(rest)
	for _, k := range rest {
		write(k, state[k])
	}
	return b.String()
}

func clone(state url.Values) url.Values {
	out := make(url.Values, len(state))
	for k, vs := range state {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
