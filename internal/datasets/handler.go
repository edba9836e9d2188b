package datasets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/JaimeStill/veritas/pkg/formatting"
	"github.com/JaimeStill/veritas/pkg/handlers"
	"github.com/JaimeStill/veritas/pkg/routes"
)

const (
	formMemory  = 32 << 20
	sniffLength = 512
	zipMIME     = "application/zip"
)

// Handler provides HTTP endpoints for dataset uploads.
type Handler struct {
	sys           System
	logger        *slog.Logger
	spoolDir      string
	maxUploadSize int64
}

// NewHandler creates a Handler. Uploaded archives are spooled below spoolDir
// (the system temp directory when empty).
func NewHandler(sys System, logger *slog.Logger, spoolDir string, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "datasets"),
		spoolDir:      spoolDir,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for dataset endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/datasets",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Upload, OpenAPI: Spec.Upload},
		},
	}
}

// Upload accepts a multipart form with an "archive" zip file and a "split"
// ratio, ingests it, and responds 202 once training has been dispatched.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrArchiveTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidArchive)
		return
	}
	defer r.MultipartForm.RemoveAll()

	ratio, err := strconv.Atoi(r.FormValue("split"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidSplitRatio)
		return
	}

	file, header, err := r.FormFile("archive")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidArchive)
		return
	}
	defer file.Close()

	path, err := h.spool(file)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.logger.Info("archive received", "filename", header.Filename, "size", formatting.FormatBytes(header.Size, 1), "split_ratio", ratio)

	report, err := h.sys.Ingest(
		context.WithoutCancel(r.Context()),
		IngestCommand{ArchivePath: path, SplitRatio: ratio},
	)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, report)
}

// spool copies an uploaded zip to a temp file and returns its path.
// Content that does not sniff as a zip is rejected.
func (h *Handler) spool(src io.Reader) (string, error) {
	head := make([]byte, sniffLength)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	head = head[:n]

	if ct := http.DetectContentType(head); ct != zipMIME {
		return "", fmt.Errorf("%w: detected %s", ErrInvalidArchive, ct)
	}

	if h.spoolDir != "" {
		if err := os.MkdirAll(h.spoolDir, 0755); err != nil {
			return "", fmt.Errorf("create spool dir: %w", err)
		}
	}

	out, err := os.CreateTemp(h.spoolDir, "upload-*.zip")
	if err != nil {
		return "", fmt.Errorf("create spool file: %w", err)
	}

	_, err = out.Write(head)
	if err == nil {
		_, err = io.Copy(out, src)
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("spool archive: %w", err)
	}

	return out.Name(), nil
}
