package datasets_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/JaimeStill/veritas/internal/datasets"
)

func setupMux(h *datasets.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func uploadRequest(t *testing.T, split string, archive []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	if split != "" {
		if err := w.WriteField("split", split); err != nil {
			t.Fatal(err)
		}
	}
	if archive != nil {
		part, err := w.CreateFormFile("archive", "dataset.zip")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(archive); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("POST", "/datasets", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func zipBytes(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	data, err := os.ReadFile(writeZip(t, entries))
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestHandlerUpload(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		f := newFixture(t)
		mux := setupMux(f.sys.Handler(1 << 30))

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, uploadRequest(t, "90", zipBytes(t, balanced(10))))

		if rec.Code != http.StatusAccepted {
			t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body.String())
		}

		var report datasets.Report
		if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if report.SplitRatio != 90 || report.Rows != 20 {
			t.Errorf("report = %+v, want ratio 90 with 20 rows", report)
		}
		if report.State != datasets.StateDispatched {
			t.Errorf("state = %s, want dispatched", report.State)
		}

		assertEmptyDir(t, f.scratch)
	})

	tests := []struct {
		name    string
		split   string
		archive func(*testing.T) []byte
		status  int
	}{
		{
			name:    "missing split",
			archive: func(t *testing.T) []byte { return zipBytes(t, balanced(2)) },
			status:  http.StatusBadRequest,
		},
		{
			name:    "non numeric split",
			split:   "eighty",
			archive: func(t *testing.T) []byte { return zipBytes(t, balanced(2)) },
			status:  http.StatusBadRequest,
		},
		{
			name:    "unsupported split",
			split:   "50",
			archive: func(t *testing.T) []byte { return zipBytes(t, balanced(2)) },
			status:  http.StatusBadRequest,
		},
		{
			name:   "missing archive",
			split:  "80",
			status: http.StatusBadRequest,
		},
		{
			name:    "not a zip",
			split:   "80",
			archive: func(*testing.T) []byte { return []byte("plain text, not an archive") },
			status:  http.StatusBadRequest,
		},
		{
			name:    "missing class folders",
			split:   "80",
			archive: func(t *testing.T) []byte { return zipBytes(t, imageEntries("photos", 3, "jpg")) },
			status:  http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			mux := setupMux(f.sys.Handler(1 << 30))

			var archive []byte
			if tt.archive != nil {
				archive = tt.archive(t)
			}

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, uploadRequest(t, tt.split, archive))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] == "" {
				t.Error("error message is empty")
			}

			assertEmptyDir(t, f.scratch)
			if len(f.dispatcher.ratios) != 0 {
				t.Errorf("dispatched %v after rejected upload", f.dispatcher.ratios)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid ratio", datasets.ErrInvalidSplitRatio, http.StatusBadRequest},
		{"invalid archive", datasets.ErrInvalidArchive, http.StatusBadRequest},
		{"archive open", datasets.ErrArchiveOpen, http.StatusBadRequest},
		{"missing folders", &datasets.IngestError{State: datasets.StateDiscoveringFolders, Err: datasets.ErrMissingClassFolders}, http.StatusUnprocessableEntity},
		{"too large", datasets.ErrArchiveTooLarge, http.StatusRequestEntityTooLarge},
		{"dispatch", datasets.ErrDispatch, http.StatusBadGateway},
		{"unknown", os.ErrPermission, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := datasets.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
