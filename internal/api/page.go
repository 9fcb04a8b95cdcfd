package api

import (
	"html/template"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"wilayah/internal/dataset"
	"wilayah/internal/filter"
	"wilayah/internal/logger"
	"wilayah/internal/metrics"
	"wilayah/internal/region"
)

// 页面交互参数名：/select 使用，解析状态前从查询串中剔除
const (
	paramLevel = "level"
	paramValue = "value"
)

type optionItem struct {
	Value    string
	Label    string
	Selected bool
}

type hiddenField struct {
	Name  string
	Value string
}

type selectModel struct {
	Level       string
	Label       string
	Placeholder string
	Enabled     bool
	Options     []optionItem
	Hidden      []hiddenField
}

type heading struct {
	Caption string
	Name    string
}

type pageModel struct {
	Breadcrumb []string
	Selects    []selectModel
	Headings   []heading
	CanReset   bool
	Query      string
}

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="id">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Filter Wilayah</title>
</head>
<body>
<aside class="sidebar">
  <h2>Filter Wilayah</h2>
  {{range .Selects}}
  <form method="get" action="/select">
    {{range .Hidden}}<input type="hidden" name="{{.Name}}" value="{{.Value}}">{{end}}
    <input type="hidden" name="level" value="{{.Level}}">
    <label for="sel-{{.Level}}">{{.Label}}</label>
    <select id="sel-{{.Level}}" name="value" onchange="this.form.submit()"{{if not .Enabled}} disabled{{end}}>
      <option value="">{{.Placeholder}}</option>
      {{range .Options}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
      {{end}}
    </select>
    <noscript><button type="submit"{{if not .Enabled}} disabled{{end}}>OK</button></noscript>
  </form>
  {{end}}
  <form method="get" action="/reset">
    <button type="submit"{{if not .CanReset}} disabled{{end}}>Reset Filter</button>
  </form>
</aside>
<div class="content">
  <nav class="breadcrumb">{{range $i, $c := .Breadcrumb}}{{if $i}} › {{end}}<span>{{$c}}</span>{{end}}</nav>
  <main>
    {{range .Headings}}
    <div>
      <p>{{.Caption}}</p>
      <h1>{{.Name}}</h1>
    </div>
    {{end}}
  </main>
</div>
</body>
</html>
`))

var statusTmpl = template.Must(template.New("status").Parse(`<!doctype html>
<html lang="id">
<head>
<meta charset="utf-8">
{{if .Refresh}}<meta http-equiv="refresh" content="2">{{end}}
<title>Filter Wilayah</title>
</head>
<body><p>{{.Message}}</p></body>
</html>
`))

// BuildPage 返回页面路由：首页渲染、/select 级联更新后重定向、/reset 清空后重定向
// 约束：页面不持有任何状态；每次交互都生成新的查询串并 303 跳回首页，地址栏即唯一状态
func BuildPage(h *dataset.Holder, rootLabel string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		defer observe("page", time.Now())
		ds, ok := readyPage(w, h)
		if !ok {
			return
		}
		v := buildView(ds, r.URL.Query(), rootLabel)
		w.Header().Set("content-type", "text/html; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		if err := pageTmpl.Execute(w, newPageModel(v)); err != nil {
			logger.L().Error("page_render_error", "err", err)
		}
	})

	mux.HandleFunc("GET /select", func(w http.ResponseWriter, r *http.Request) {
		defer observe("page_select", time.Now())
		if _, ok := readyPage(w, h); !ok {
			return
		}
		q := r.URL.Query()
		level, err := filter.ParseLevel(q.Get(paramLevel))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		value := q.Get(paramValue)
		q.Del(paramLevel)
		q.Del(paramValue)
		next, err := filter.UpdateLevel(q, level, value)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, pageURL(next), http.StatusSeeOther)
	})

	mux.HandleFunc("GET /reset", func(w http.ResponseWriter, r *http.Request) {
		defer observe("page_reset", time.Now())
		http.Redirect(w, r, pageURL(filter.Reset(r.URL.Query())), http.StatusSeeOther)
	})

	return mux
}

func pageURL(state url.Values) string {
	if q := filter.Encode(state); q != "" {
		return "/?" + q
	}
	return "/"
}

// readyPage 取当前快照；加载中渲染自动刷新的等待页（503），加载失败渲染终止错误页（500）
func readyPage(w http.ResponseWriter, h *dataset.Holder) (*region.Dataset, bool) {
	s := h.Snapshot()
	if s.Status == dataset.StatusReady {
		return s.Dataset, true
	}
	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	data := struct {
		Refresh bool
		Message string
	}{}
	if s.Status == dataset.StatusLoading {
		metrics.UnavailableTotal.WithLabelValues("loading").Inc()
		w.Header().Set("retry-after", "2")
		w.WriteHeader(http.StatusServiceUnavailable)
		data.Refresh = true
		data.Message = "Memuat data wilayah…"
	} else {
		metrics.UnavailableTotal.WithLabelValues("failed").Inc()
		w.WriteHeader(http.StatusInternalServerError)
		data.Message = "Failed to load data"
	}
	_ = statusTmpl.Execute(w, data)
	return nil, false
}

func newPageModel(v filter.View) pageModel {
	m := pageModel{
		Breadcrumb: v.Breadcrumb,
		CanReset:   filter.CanReset(v.Selection),
		Query:      v.Query,
	}
	var hidden []hiddenField
	for k, vs := range v.State {
		if k == paramLevel || k == paramValue {
			continue
		}
		for _, x := range vs {
			hidden = append(hidden, hiddenField{Name: k, Value: x})
		}
	}
	sort.SliceStable(hidden, func(i, j int) bool { return hidden[i].Name < hidden[j].Name })

	provinces := make([]optionItem, 0, len(v.Provinces))
	for _, p := range v.Provinces {
		provinces = append(provinces, option(p.ID, p.Name, v.Value(filter.LevelProvince)))
	}
	regencies := make([]optionItem, 0, len(v.Options.Regencies))
	for _, r := range v.Options.Regencies {
		regencies = append(regencies, option(r.ID, r.Name, v.Value(filter.LevelRegency)))
	}
	districts := make([]optionItem, 0, len(v.Options.Districts))
	for _, d := range v.Options.Districts {
		districts = append(districts, option(d.ID, d.Name, v.Value(filter.LevelDistrict)))
	}

	m.Selects = []selectModel{
		{Level: filter.KeyProvince, Label: "Provinsi", Placeholder: "Pilih Provinsi", Options: provinces},
		{Level: filter.KeyRegency, Label: "Kota/Kabupaten", Placeholder: "Pilih Kota/Kabupaten", Options: regencies},
		{Level: filter.KeyDistrict, Label: "Kecamatan", Placeholder: "Pilih Kecamatan", Options: districts},
	}
	for i, l := range filter.Levels {
		m.Selects[i].Enabled = filter.Enabled(v.Selection, l)
		m.Selects[i].Hidden = hidden
	}

	if p, ok := v.Selection.Province(); ok {
		m.Headings = append(m.Headings, heading{Caption: "PROVINSI", Name: p.Name})
	}
	if r, ok := v.Selection.Regency(); ok {
		m.Headings = append(m.Headings, heading{Caption: "KOTA / KABUPATEN", Name: r.Name})
	}
	if d, ok := v.Selection.District(); ok {
		m.Headings = append(m.Headings, heading{Caption: "KECAMATAN", Name: d.Name})
	}
	return m
}

func option(id int, name, selected string) optionItem {
	v := strconv.Itoa(id)
	return optionItem{Value: v, Label: name, Selected: v == selected}
}
