package api

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"

	"github.com/JaimeStill/veritas/pkg/handlers"
	"github.com/JaimeStill/veritas/pkg/middleware"
	"github.com/JaimeStill/veritas/pkg/module"
	"github.com/JaimeStill/veritas/pkg/storage"
)

type storageHandler struct {
	store  storage.System
	logger *slog.Logger
}

// NewStorageModule creates a read-only module serving stored images by key
// under prefix, e.g. /storage/images/80/train/real/a.jpg.
func NewStorageModule(
	prefix string,
	store storage.System,
	logger *slog.Logger,
	httpMetrics *middleware.HTTPMetrics,
) *module.Module {
	h := &storageHandler{
		store:  store,
		logger: logger.With("handler", "storage"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{key...}", h.serve)

	m := module.New(prefix, mux)
	m.Use(httpMetrics.Instrument(prefix))
	m.Use(middleware.Logger(logger))
	return m
}

func (h *storageHandler) serve(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	body, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	io.Copy(w, body)
}
