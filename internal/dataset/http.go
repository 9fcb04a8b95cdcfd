package dataset

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"wilayah/internal/logger"
	"wilayah/internal/region"
)

// HTTPProvider 通过 HTTP GET 获取数据集文档
// 约束：非 2xx 或响应体无法解析均视为数据不可用；不重试，超时由 ctx 与 Client 控制
type HTTPProvider struct {
	URL    string
	Client *http.Client
}

func (p *HTTPProvider) Kind() string { return "http" }

func (p *HTTPProvider) Load(ctx context.Context) (*region.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return nil, unavailable(p.URL, err)
	}
	req.Header.Set("accept", "application/json")
	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	logger.L().Debug("dataset_http_req", "url", p.URL)
	resp, err := client.Do(req)
	if err != nil {
		return nil, unavailable(p.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, unavailable(p.URL, fmt.Errorf("bad status: %s", resp.Status))
	}
	ds, err := Decode(resp.Body)
	if err != nil {
		return nil, unavailable(p.URL, err)
	}
	return ds, nil
}
