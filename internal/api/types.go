package api

import (
	"wilayah/internal/filter"
	"wilayah/internal/region"
)

// 文档注释：对外 JSON 视图
// 背景：脚本客户端与页面共用同一读模型；query 为规范化后的查询串，客户端应直接写回地址栏。
// 约束：未选择的层级为 null；选项列表始终为数组。
type viewResponse struct {
	Query           string            `json:"query"`
	Selection       selectionJSON     `json:"selection"`
	Provinces       []region.Province `json:"provinces"`
	RegencyOptions  []region.Regency  `json:"regency_options"`
	DistrictOptions []region.District `json:"district_options"`
	Breadcrumb      []string          `json:"breadcrumb"`
	CanReset        bool              `json:"can_reset"`
	Enabled         map[string]bool   `json:"enabled"`
}

type selectionJSON struct {
	Province *region.Province `json:"province"`
	Regency  *region.Regency  `json:"regency"`
	District *region.District `json:"district"`
}

type selectRequest struct {
	Query string `json:"query"`
	Level string `json:"level"`
	Value string `json:"value"`
}

type resetRequest struct {
	Query string `json:"query"`
}

type healthResponse struct {
	Status    string `json:"status"`
	LoadedAt  string `json:"loaded_at,omitempty"`
	Error     string `json:"error,omitempty"`
	Provinces int    `json:"provinces"`
	Regencies int    `json:"regencies"`
	Districts int    `json:"districts"`
}

func toViewResponse(v filter.View) viewResponse {
	out := viewResponse{
		Query:           v.Query,
		Provinces:       v.Provinces,
		RegencyOptions:  v.Options.Regencies,
		DistrictOptions: v.Options.Districts,
		Breadcrumb:      v.Breadcrumb,
		CanReset:        filter.CanReset(v.Selection),
		Enabled:         make(map[string]bool, len(filter.Levels)),
	}
	if p, ok := v.Selection.Province(); ok {
		out.Selection.Province = &p
	}
	if r, ok := v.Selection.Regency(); ok {
		out.Selection.Regency = &r
	}
	if d, ok := v.Selection.District(); ok {
		out.Selection.District = &d
	}
	for _, l := range filter.Levels {
		out.Enabled[l.Key()] = filter.Enabled(v.Selection, l)
	}
	return out
}
