package utils

import (
	"path/filepath"
	"testing"
)

func TestDSNKinds(t *testing.T) {
	tests := []struct {
		dsn              string
		sqlite, postgres bool
	}{
		{"sqlite://data/wilayah.db", true, false},
		{"data/wilayah.DB", true, false},
		{"regions.sqlite", true, false},
		{"postgres://u@localhost/wilayah", false, true},
		{"postgresql://u@localhost/wilayah", false, true},
		{"data/indonesia_regions.json", false, false},
	}
	for _, tt := range tests {
		if got := IsSQLiteDSN(tt.dsn); got != tt.sqlite {
			t.Errorf("IsSQLiteDSN(%q) = %v; want %v", tt.dsn, got, tt.sqlite)
		}
		if got := IsPostgresDSN(tt.dsn); got != tt.postgres {
			t.Errorf("IsPostgresDSN(%q) = %v; want %v", tt.dsn, got, tt.postgres)
		}
	}
}

func TestBuildPostgresDSNFromEnv(t *testing.T) {
	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_PORT", "")
	t.Setenv("PG_USER", "app")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("PG_DB", "")
	t.Setenv("PG_SSLMODE", "")
	if got, want := BuildPostgresDSNFromEnv(), "postgres://app:secret@db:5432/wilayah?sslmode=disable"; got != want {
		t.Errorf("dsn = %q; want %q", got, want)
	}
	t.Setenv("PG_PASSWORD", "p@ss/w")
	if got, want := BuildPostgresDSNFromEnv(), "postgres://app:p%40ss%2Fw@db:5432/wilayah?sslmode=disable"; got != want {
		t.Errorf("dsn = %q; want %q", got, want)
	}
}

func TestOpenDSNSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.db")
	db, driver, err := OpenDSN("sqlite://" + path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if driver != DriverSQLite {
		t.Errorf("driver = %q", driver)
	}
	if err := db.Ping(); err != nil {
		t.Errorf("ping: %v", err)
	}
}
