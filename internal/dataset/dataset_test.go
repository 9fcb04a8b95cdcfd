package dataset

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"wilayah/internal/migrate"
	"wilayah/internal/region"
	"wilayah/internal/store"
	"wilayah/internal/utils"
)

const sampleDoc = `{
  "provinces": [{"id": 11, "name": "Jawa Barat"}],
  "regencies": [{"id": 3273, "name": "Kota Bandung", "province_id": 11}],
  "districts": [{"id": 327301, "name": "Sukasari", "regency_id": 3273}]
}`

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", sampleDoc, false},
		{"empty arrays", `{"provinces":[],"regencies":[],"districts":[]}`, false},
		{"missing districts", `{"provinces":[],"regencies":[]}`, true},
		{"null provinces", `{"provinces":null,"regencies":[],"districts":[]}`, true},
		{"not json", `<html>oops</html>`, true},
		{"wrong id type", `{"provinces":[{"id":"11","name":"x"}],"regencies":[],"districts":[]}`, true},
		{"empty body", ``, true},
		{"trailing garbage", `{"provinces":[],"regencies":[],"districts":[]}<html>oops</html>`, true},
		{"second document", `{"provinces":[],"regencies":[],"districts":[]} {}`, true},
		{"trailing whitespace", "{\"provinces\":[],\"regencies\":[],\"districts\":[]}\n\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.body))
			if (err != nil) != tt.wantErr {
				t.Errorf("Decode(%q) err = %v; wantErr %v", tt.body, err, tt.wantErr)
			}
		})
	}
}

func TestUnavailableError(t *testing.T) {
	base := errors.New("boom")
	err := unavailable("x.json", base)
	if !errors.Is(err, ErrDataUnavailable) || !errors.Is(err, base) {
		t.Errorf("errors.Is failed for %v", err)
	}
	if again := unavailable("y.json", err); again != err {
		t.Errorf("unavailable double-wrapped: %v", again)
	}
}

func TestFileProvider(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "regions.json")
	if err := os.WriteFile(good, []byte(sampleDoc), 0o600); err != nil {
		t.Fatal(err)
	}
	ds, err := (&FileProvider{Path: good}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p, ok := ds.Province(11); !ok || p.Name != "Jawa Barat" {
		t.Errorf("Province(11) = %v, %v", p, ok)
	}
	_, err = (&FileProvider{Path: filepath.Join(dir, "missing.json")}).Load(context.Background())
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestHTTPProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/indonesia_regions.json":
			w.Header().Set("content-type", "application/json")
			_, _ = io.WriteString(w, sampleDoc)
		case "/broken.json":
			_, _ = io.WriteString(w, `{"provinces":`)
		default:
			http.Error(w, "nope", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	ds, err := (&HTTPProvider{URL: srv.URL + "/data/indonesia_regions.json", Client: srv.Client()}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, r, _ := ds.Counts(); r != 1 {
		t.Errorf("regencies = %d", r)
	}
	for _, path := range []string{"/missing.json", "/broken.json"} {
		_, err := (&HTTPProvider{URL: srv.URL + path, Client: srv.Client()}).Load(context.Background())
		if !errors.Is(err, ErrDataUnavailable) {
			t.Errorf("%s: err = %v; want ErrDataUnavailable", path, err)
		}
	}
}

type fakeObjects struct {
	body string
	err  error
	got  *s3.GetObjectInput
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3Provider(t *testing.T) {
	fake := &fakeObjects{body: sampleDoc}
	p := &S3Provider{Bucket: "regions", Key: "id/indonesia_regions.json", client: fake}
	ds, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *fake.got.Bucket != "regions" || *fake.got.Key != "id/indonesia_regions.json" {
		t.Errorf("GetObject input = %+v", fake.got)
	}
	if _, _, d := ds.Counts(); d != 1 {
		t.Errorf("districts = %d", d)
	}
	fake.err = errors.New("access denied")
	if _, err := p.Load(context.Background()); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("err = %v", err)
	}
}

func TestParseS3Source(t *testing.T) {
	b, k, err := parseS3Source("s3://regions/id/indonesia_regions.json")
	if err != nil || b != "regions" || k != "id/indonesia_regions.json" {
		t.Errorf("parseS3Source = %q, %q, %v", b, k, err)
	}
	for _, bad := range []string{"s3://regions", "s3:///key", "http://regions/key"} {
		if _, _, err := parseS3Source(bad); err == nil {
			t.Errorf("parseS3Source(%q) accepted", bad)
		}
	}
}

func TestSQLProviderOnSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "wilayah.db")
	db, err := utils.OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := migrate.EnsureSchema(ctx, db); err != nil {
		t.Fatal(err)
	}
	src, _ := Decode(strings.NewReader(sampleDoc))
	st := store.AttachDB(db, utils.DriverSQLite)
	if err := st.ImportDocument(ctx, src.Document(), nil); err != nil {
		t.Fatal(err)
	}
	p := &SQLProvider{Store: st, Source: "sqlite://" + path}
	if p.Kind() != "sqlite" {
		t.Errorf("Kind = %q", p.Kind())
	}
	ds, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := ds.DistrictsOf(3273); len(got) != 1 || got[0].Name != "Sukasari" {
		t.Errorf("DistrictsOf(3273) = %v", got)
	}
}

func TestOpenChoosesProvider(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		source string
		kind   string
	}{
		{"https://example.org/data/indonesia_regions.json", "http"},
		{"data/indonesia_regions.json", "file"},
		{"sqlite://" + filepath.Join(t.TempDir(), "w.db"), "sqlite"},
	}
	for _, tt := range tests {
		p, err := Open(ctx, tt.source, time.Second)
		if err != nil {
			t.Fatalf("Open(%q): %v", tt.source, err)
		}
		if p.Kind() != tt.kind {
			t.Errorf("Open(%q).Kind() = %q; want %q", tt.source, p.Kind(), tt.kind)
		}
	}
}

func TestRedact(t *testing.T) {
	tests := map[string]string{
		"postgres://app:secret@db:5432/wilayah": "postgres://app:***@db:5432/wilayah",
		"postgres://app@db/wilayah":             "postgres://app@db/wilayah",
		"data/indonesia_regions.json":           "data/indonesia_regions.json",
	}
	for in, want := range tests {
		if got := redact(in); got != want {
			t.Errorf("redact(%q) = %q; want %q", in, got, want)
		}
	}
}

type memCache struct {
	data   map[string][]byte
	getErr error
	sets   int
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.data[key], nil
}

func (m *memCache) Set(_ context.Context, key string, doc []byte, _ time.Duration) error {
	m.sets++
	m.data[key] = append([]byte(nil), doc...)
	return nil
}

type countingProvider struct {
	calls int
	err   error
}

func (c *countingProvider) Kind() string { return "test" }

func (c *countingProvider) Load(context.Context) (*region.Dataset, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return Decode(strings.NewReader(sampleDoc))
}

func TestCachedProvider(t *testing.T) {
	ctx := context.Background()
	inner := &countingProvider{}
	cache := &memCache{data: map[string][]byte{}}
	p := &CachedProvider{Inner: inner, Cache: cache, Key: CacheKey("data/x.json"), TTL: time.Minute}

	if _, err := p.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 1 || cache.sets != 1 {
		t.Errorf("inner calls = %d, cache sets = %d; want 1, 1", inner.calls, cache.sets)
	}

	cache.data[p.Key] = []byte("garbage")
	if _, err := p.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("corrupt cache entry should fall back to source, calls = %d", inner.calls)
	}

	cache.getErr = errors.New("redis down")
	if _, err := p.Load(ctx); err != nil {
		t.Errorf("cache error leaked: %v", err)
	}

	inner.err = unavailable("x", errors.New("gone"))
	if _, err := p.Load(ctx); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("err = %v", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	ds, _ := Decode(strings.NewReader(sampleDoc))
	var buf bytes.Buffer
	if err := Encode(&buf, ds); err != nil {
		t.Fatal(err)
	}
	again, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := again.District(327301); !ok {
		t.Errorf("district lost in round trip")
	}
}
