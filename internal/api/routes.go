// 包 api：注册筛选 JSON 接口与页面路由；处理器只做解析与渲染，状态逻辑全部在 filter 包
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wilayah/internal/dataset"
	"wilayah/internal/filter"
	"wilayah/internal/logger"
	"wilayah/internal/metrics"
	"wilayah/internal/region"
)

// 构建并返回 API 路由：独立 ServeMux，在主入口以 API_BASE 前缀挂载
func BuildRoutes(h *dataset.Holder, rootLabel string) *http.ServeMux {
	apiMux := http.NewServeMux()

	apiMux.HandleFunc("GET /regions", func(w http.ResponseWriter, r *http.Request) {
		defer observe("api_view", time.Now())
		ds, ok := readyJSON(w, h)
		if !ok {
			return
		}
		v := buildView(ds, r.URL.Query(), rootLabel)
		writeJSON(w, http.StatusOK, toViewResponse(v))
	})

	apiMux.HandleFunc("POST /regions/select", func(w http.ResponseWriter, r *http.Request) {
		defer observe("api_select", time.Now())
		ds, ok := readyJSON(w, h)
		if !ok {
			return
		}
		var req selectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		state, err := parseState(req.Query)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid query")
			return
		}
		level, err := filter.ParseLevel(req.Level)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		next, err := filter.UpdateLevel(state, level, req.Value)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, toViewResponse(buildView(ds, next, rootLabel)))
	})

	apiMux.HandleFunc("POST /regions/reset", func(w http.ResponseWriter, r *http.Request) {
		defer observe("api_reset", time.Now())
		ds, ok := readyJSON(w, h)
		if !ok {
			return
		}
		var req resetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		writeJSON(w, http.StatusOK, toViewResponse(buildView(ds, filter.Reset(nil), rootLabel)))
	})

	apiMux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		s := h.Snapshot()
		res := healthResponse{Status: string(s.Status)}
		if !s.LoadedAt.IsZero() {
			res.LoadedAt = s.LoadedAt.UTC().Format(time.RFC3339)
		}
		if s.Err != nil {
			res.Error = s.Err.Error()
		}
		if s.Dataset != nil {
			res.Provinces, res.Regencies, res.Districts = s.Dataset.Counts()
		}
		code := http.StatusOK
		if s.Status != dataset.StatusReady {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, res)
	})

	return apiMux
}

// parseState 解析客户端回传的查询串；兼容带前导 "?" 的 location.search 形式
func parseState(query string) (url.Values, error) {
	return url.ParseQuery(strings.TrimPrefix(query, "?"))
}

// buildView 派生视图并记录悬空引用（仅日志与指标，不返回给用户）
func buildView(ds *region.Dataset, state url.Values, rootLabel string) filter.View {
	v := filter.BuildView(ds, state, rootLabel)
	for _, l := range v.Dangling {
		metrics.DanglingRefsTotal.WithLabelValues(l.Key()).Inc()
		logger.L().Debug("dangling_reference", "level", l.Key(), "value", state.Get(l.Key()))
	}
	return v
}

func observe(route string, start time.Time) {
	metrics.RequestsTotal.WithLabelValues(route).Inc()
	metrics.RequestDurationMs.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
}

// readyJSON 取当前快照；加载中返回 503，加载失败返回 500
func readyJSON(w http.ResponseWriter, h *dataset.Holder) (*region.Dataset, bool) {
	s := h.Snapshot()
	switch s.Status {
	case dataset.StatusReady:
		return s.Dataset, true
	case dataset.StatusLoading:
		metrics.UnavailableTotal.WithLabelValues("loading").Inc()
		w.Header().Set("retry-after", "2")
		writeError(w, http.StatusServiceUnavailable, "dataset is loading")
	default:
		metrics.UnavailableTotal.WithLabelValues("failed").Inc()
		writeError(w, http.StatusInternalServerError, "Failed to load data")
	}
	return nil, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
