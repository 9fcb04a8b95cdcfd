package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wilayah/internal/dataset"
)

func TestPageRendersSelection(t *testing.T) {
	mux := BuildPage(readyHolder(t), "Indonesia")
	rec := do(t, mux, http.MethodGet, "/?province=11&regency=3273", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Filter Wilayah",
		`<option value="11" selected>Jawa Barat</option>`,
		`<option value="3273" selected>Kota Bandung</option>`,
		`<option value="327301">Sukasari</option>`,
		"<span>Indonesia</span> › <span>Jawa Barat</span> › <span>Kota Bandung</span>",
		"KOTA / KABUPATEN",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "KECAMATAN</p>") {
		t.Errorf("district heading rendered without a district")
	}
}

func TestPageEmptyDisablesChildren(t *testing.T) {
	rec := do(t, BuildPage(readyHolder(t), "Indonesia"), http.MethodGet, "/", "")
	body := rec.Body.String()
	if !strings.Contains(body, `id="sel-regency" name="value" onchange="this.form.submit()" disabled`) {
		t.Errorf("regency select should be disabled")
	}
	if !strings.Contains(body, `<button type="submit" disabled>Reset Filter</button>`) {
		t.Errorf("reset should be disabled on the empty state")
	}
}

func TestPageSelectRedirectsWithCascade(t *testing.T) {
	mux := BuildPage(readyHolder(t), "Indonesia")
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"set regency", "/select?province=11&level=regency&value=3273", "/?province=11&regency=3273"},
		{"change province clears lower", "/select?province=11&regency=3273&district=327301&level=province&value=31", "/?province=31"},
		{"clear province", "/select?province=11&regency=3273&level=province&value=", "/"},
		{"clear regency keeps others", "/select?province=11&regency=3273&tab=map&level=regency&value=", "/?province=11&tab=map"},
		{"unknown id still written", "/select?level=province&value=99", "/?province=99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, mux, http.MethodGet, tt.target, "")
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d", rec.Code)
			}
			if got := rec.Header().Get("Location"); got != tt.want {
				t.Errorf("Location = %q; want %q", got, tt.want)
			}
		})
	}
	if rec := do(t, mux, http.MethodGet, "/select?level=village&value=1", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown level status = %d", rec.Code)
	}
}

func TestPageReset(t *testing.T) {
	rec := do(t, BuildPage(readyHolder(t), "Indonesia"), http.MethodGet, "/reset?province=11&regency=3273", "")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Errorf("reset = %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestPageStatusPages(t *testing.T) {
	rec := do(t, BuildPage(dataset.NewHolder(), "Indonesia"), http.MethodGet, "/?province=11", "")
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), `http-equiv="refresh"`) {
		t.Errorf("loading page = %d %s", rec.Code, rec.Body.String())
	}
	rec = do(t, BuildPage(failedHolder(t), "Indonesia"), http.MethodGet, "/select?level=province&value=11", "")
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "Failed to load data") {
		t.Errorf("failed page = %d %s", rec.Code, rec.Body.String())
	}
}

func TestReadyPageReturnsCheckedSnapshot(t *testing.T) {
	h := readyHolder(t)
	rec := httptest.NewRecorder()
	ds, ok := readyPage(rec, h)
	if !ok || ds == nil {
		t.Fatalf("readyPage = %v, %v; want dataset, true", ds, ok)
	}
	if ds != h.Snapshot().Dataset {
		t.Errorf("readyPage returned a different dataset than the holder snapshot")
	}
	if rec.Body.Len() != 0 {
		t.Errorf("readyPage wrote a body when ready: %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	if ds, ok := readyPage(rec, dataset.NewHolder()); ok || ds != nil {
		t.Errorf("readyPage(loading) = %v, %v; want nil, false", ds, ok)
	}
}
