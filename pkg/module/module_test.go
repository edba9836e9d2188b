package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/veritas/pkg/module"
)

func TestNewInvalidPrefixPanics(t *testing.T) {
	for _, prefix := range []string{"", "api", "/api/v1"} {
		t.Run(prefix, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for prefix %q", prefix)
				}
			}()
			module.New(prefix, http.NewServeMux())
		})
	}
}

func echoPath(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(r.URL.Path))
}

func TestRouter(t *testing.T) {
	api := http.NewServeMux()
	api.HandleFunc("GET /", echoPath)
	api.HandleFunc("GET /images/{id}", echoPath)

	var order []string
	m := module.New("/api", api)
	m.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	})

	router := module.NewRouter()
	router.Mount(m)
	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	router.Handle("GET /metrics", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("metrics"))
	}))

	tests := []struct {
		name   string
		path   string
		status int
		body   string
	}{
		{"module route", "/api/images/42", http.StatusOK, "/images/42"},
		{"module root", "/api", http.StatusOK, "/"},
		{"trailing slash", "/api/images/42/", http.StatusOK, "/images/42"},
		{"native handler", "/healthz", http.StatusOK, "ok"},
		{"native http.Handler", "/metrics", http.StatusOK, "metrics"},
		{"similar prefix is not the module", "/apix/images", http.StatusNotFound, ""},
		{"unknown", "/nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}

	if len(order) != 3 {
		t.Errorf("module middleware ran %d times, want 3", len(order))
	}
}

func TestStripPreservesOriginalRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /results", echoPath)
	m := module.New("/api", mux)

	req := httptest.NewRequest("GET", "/api/results?split_ratio=80", nil)
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, req)

	if rec.Body.String() != "/results" {
		t.Errorf("inner path = %q, want /results", rec.Body.String())
	}
	if req.URL.Path != "/api/results" {
		t.Errorf("original request mutated: %s", req.URL.Path)
	}
}
