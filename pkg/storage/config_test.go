package storage_test

import (
	"testing"

	"github.com/JaimeStill/veritas/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	var cfg storage.Config
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.Provider != storage.ProviderLocal {
		t.Errorf("provider = %s, want local", cfg.Provider)
	}
	if cfg.Root != "storage/public" {
		t.Errorf("root = %s, want storage/public", cfg.Root)
	}
	if cfg.ContainerName != "images" {
		t.Errorf("container_name = %s, want images", cfg.ContainerName)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PROVIDER", "azure")
	t.Setenv("TEST_CONTAINER", "datasets")
	t.Setenv("TEST_CONN", "override-connection")

	env := &storage.Env{
		Provider:         "TEST_PROVIDER",
		Root:             "TEST_ROOT",
		ContainerName:    "TEST_CONTAINER",
		ConnectionString: "TEST_CONN",
	}

	var cfg storage.Config
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.Provider != storage.ProviderAzure {
		t.Errorf("provider = %s, want azure", cfg.Provider)
	}
	if cfg.ContainerName != "datasets" {
		t.Errorf("container_name = %s, want datasets", cfg.ContainerName)
	}
	if cfg.ConnectionString != "override-connection" {
		t.Errorf("connection_string = %s", cfg.ConnectionString)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  storage.Config
	}{
		{"azure without connection string", storage.Config{Provider: storage.ProviderAzure}},
		{"unknown provider", storage.Config{Provider: "ftp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{Provider: "local", Root: "storage/public", ContainerName: "images"}
	base.Merge(&storage.Config{Root: "/srv/veritas"})

	if base.Root != "/srv/veritas" {
		t.Errorf("root = %s, want /srv/veritas", base.Root)
	}
	if base.Provider != "local" || base.ContainerName != "images" {
		t.Errorf("unset overlay fields changed base: %+v", base)
	}
}
