package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTokenBucketRefillsEachSecond(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tb := NewTokenBucket(2)
	tb.now = func() time.Time { return now }
	tb.lastSec = now.Unix()
	tb.tokens = tb.capacity

	for i, want := range []bool{true, true, false} {
		if got := tb.allow(); got != want {
			t.Errorf("allow() #%d = %v; want %v", i, got, want)
		}
	}
	now = now.Add(time.Second)
	if !tb.allow() {
		t.Errorf("allow() after refill = false; want true")
	}
}

func TestRateLimit(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	clock = func() time.Time { return fixed }
	defer func() { clock = time.Now }()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name    string
		enabled bool
		want    []int
	}{
		{"disabled passes through", false, []int{204, 204, 204}},
		{"enabled drops overflow", true, []int{204, 429, 429}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RateLimit(tt.enabled, 1)(ok)
			for i, want := range tt.want {
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
				if rec.Code != want {
					t.Errorf("request #%d status = %d; want %d", i, rec.Code, want)
				}
			}
		})
	}
}
