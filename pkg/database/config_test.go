package database_test

import (
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/veritas/pkg/database"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := database.Config{User: "veritas"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"host", cfg.Host, "localhost"},
		{"port", cfg.Port, 5432},
		{"name", cfg.Name, "veritas"},
		{"ssl_mode", cfg.SSLMode, "disable"},
		{"max_open_conns", cfg.MaxOpenConns, 25},
		{"max_idle_conns", cfg.MaxIdleConns, 5},
		{"conn_max_lifetime", cfg.ConnMaxLifetimeDuration(), 15 * time.Minute},
		{"conn_timeout", cfg.ConnTimeoutDuration(), 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "db.internal")
	t.Setenv("TEST_DB_PORT", "5433")
	t.Setenv("TEST_DB_USER", "trainer")
	t.Setenv("TEST_DB_PASSWORD", "s3cret")
	t.Setenv("TEST_DB_MAX_OPEN", "40")
	t.Setenv("TEST_DB_TIMEOUT", "10s")

	cfg := database.Config{}
	err := cfg.Finalize(&database.Env{
		Host:         "TEST_DB_HOST",
		Port:         "TEST_DB_PORT",
		User:         "TEST_DB_USER",
		Password:     "TEST_DB_PASSWORD",
		MaxOpenConns: "TEST_DB_MAX_OPEN",
		ConnTimeout:  "TEST_DB_TIMEOUT",
	})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.Host != "db.internal" || cfg.Port != 5433 || cfg.User != "trainer" || cfg.Password != "s3cret" {
		t.Errorf("connection fields not overridden: %+v", cfg)
	}
	if cfg.MaxOpenConns != 40 {
		t.Errorf("MaxOpenConns = %d, want 40", cfg.MaxOpenConns)
	}
	if cfg.ConnTimeoutDuration() != 10*time.Second {
		t.Errorf("ConnTimeout = %s, want 10s", cfg.ConnTimeout)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     database.Config
		wantErr string
	}{
		{"missing user", database.Config{}, "user required"},
		{"port out of range", database.Config{User: "u", Port: 70000}, "invalid port"},
		{"idle exceeds open", database.Config{User: "u", MaxOpenConns: 2, MaxIdleConns: 4}, "max_idle_conns"},
		{"bad lifetime", database.Config{User: "u", ConnMaxLifetime: "forever"}, "conn_max_lifetime"},
		{"bad timeout", database.Config{User: "u", ConnTimeout: "soon"}, "conn_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	cfg := database.Config{Host: "localhost", Port: 5432, User: "veritas", SSLMode: "disable"}
	cfg.Merge(&database.Config{Host: "prod-db", SSLMode: "require"})

	if cfg.Host != "prod-db" || cfg.SSLMode != "require" {
		t.Errorf("overlay not applied: %+v", cfg)
	}
	if cfg.Port != 5432 || cfg.User != "veritas" {
		t.Errorf("zero overlay fields overwrote base: %+v", cfg)
	}
}

func TestURL(t *testing.T) {
	cfg := database.Config{
		Host:     "db",
		Port:     5432,
		Name:     "veritas",
		User:     "veritas",
		Password: "p@ss word",
		SSLMode:  "disable",
	}

	want := "postgres://veritas:p%40ss%20word@db:5432/veritas?sslmode=disable"
	if got := cfg.URL(); got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}
