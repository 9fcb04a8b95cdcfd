package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// 文档注释：来源 IP 白名单（IP/CIDR）
// 背景：部署在 CDN 或内网网关之后时，只允许回源网段与指定调试 IP 直接访问；其他请求统一返回 403。
// 约束：
// 1) 支持 IPv4/IPv6 CIDR；
// 2) 真实来源 IP 以 RemoteAddr 为准；指定 realIPHeader 时取该头的首个有效 IP；
// 3) 允许集合在构造后只读，无需加锁。
type Allowlist struct {
	l            *slog.Logger
	allowIPs     map[string]struct{}
	allowCIDRs   []*net.IPNet
	realIPHeader string
}

// NewAllowlist：ips/cidrs 为逗号分隔列表，非法项忽略；allowLocal 追加 127.0.0.1 与 ::1
func NewAllowlist(l *slog.Logger, ips, cidrs string, allowLocal bool, realIPHeader string) *Allowlist {
	m := &Allowlist{l: l, allowIPs: map[string]struct{}{}, realIPHeader: strings.TrimSpace(realIPHeader)}
	for _, p := range strings.Split(ips, ",") {
		if ip := net.ParseIP(strings.TrimSpace(p)); ip != nil {
			m.allowIPs[ip.String()] = struct{}{}
		}
	}
	for _, c := range strings.Split(cidrs, ",") {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, n, err := net.ParseCIDR(c); err == nil {
			m.allowCIDRs = append(m.allowCIDRs, n)
		} else {
			l.Warn("allowlist_bad_cidr", "cidr", c)
		}
	}
	if allowLocal {
		m.allowIPs["127.0.0.1"] = struct{}{}
		m.allowIPs["::1"] = struct{}{}
	}
	return m
}

// Wrap：生成 http.Handler 中间件；enabled=false 时原样返回 next
func (m *Allowlist) Wrap(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r, m.realIPHeader)
			if ip == nil {
				m.l.Debug("allowlist_block", "reason", "no_ip")
				write403(w)
				return
			}
			if m.allowed(ip) {
				next.ServeHTTP(w, r)
				return
			}
			m.l.Debug("allowlist_block", "ip", ip.String())
			write403(w)
		})
	}
}

func (m *Allowlist) allowed(ip net.IP) bool {
	if _, ok := m.allowIPs[ip.String()]; ok {
		return true
	}
	for _, n := range m.allowCIDRs {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP：解析请求来源 IP；优先 header 指定头的首个有效 IP，其次 RemoteAddr
func ClientIP(r *http.Request, header string) net.IP {
	if header != "" {
		if raw := r.Header.Get(header); raw != "" {
			first, _, _ := strings.Cut(raw, ",")
			if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
				return ip
			}
		}
	}
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return net.ParseIP(host)
}

func write403(w http.ResponseWriter) {
	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`<!doctype html><html lang="id"><meta charset="utf-8"><title>403 Akses Ditolak</title><p>Akses ditolak.</p></html>`))
}
