package results

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/veritas/internal/images"
	"github.com/JaimeStill/veritas/pkg/handlers"
	"github.com/JaimeStill/veritas/pkg/pagination"
	"github.com/JaimeStill/veritas/pkg/routes"
)

// PredictionsPageSize is the fixed page size of the predictions listing.
const PredictionsPageSize = 50

// Handler provides HTTP endpoints for training results.
type Handler struct {
	sys        System
	images     images.System
	logger     *slog.Logger
	pagination pagination.Config
}

// RatioResult pairs a split ratio with its latest result, if any.
type RatioResult struct {
	SplitRatio int     `json:"split_ratio"`
	Result     *Result `json:"result"`
}

// NewHandler creates a Handler with the given systems, logger, and pagination config.
func NewHandler(
	sys System,
	imgs images.System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		images:     imgs,
		logger:     logger.With("handler", "results"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for result endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/results",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "GET", Pattern: "/latest", Handler: h.Latest, OpenAPI: Spec.Latest},
			{Method: "GET", Pattern: "/ratios", Handler: h.Ratios, OpenAPI: Spec.Ratios},
			{Method: "GET", Pattern: "/summary", Handler: h.Summary, OpenAPI: Spec.Summary},
			{Method: "GET", Pattern: "/predictions", Handler: h.Predictions, OpenAPI: Spec.Predictions},
		},
	}
}

// List returns a paginated list of results, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Latest returns the most recent result, optionally for a single split_ratio.
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	var ratio *int
	if v := r.URL.Query().Get("split_ratio"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || !images.ValidSplitRatio(n) {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidSplitRatio)
			return
		}
		ratio = &n
	}

	res, err := h.sys.Latest(r.Context(), ratio)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, res)
}

// Ratios returns the latest result for each supported split ratio.
func (h *Handler) Ratios(w http.ResponseWriter, r *http.Request) {
	latest, err := h.sys.LatestByRatio(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	out := make([]RatioResult, 0, len(images.SplitRatios))
	for _, ratio := range images.SplitRatios {
		out = append(out, RatioResult{SplitRatio: ratio, Result: latest[ratio]})
	}

	handlers.RespondJSON(w, http.StatusOK, out)
}

// Summary returns dashboard totals, best metrics, and success criteria.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.sys.Summary(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, s)
}

// Predictions returns predicted images for the latest result's split ratio,
// or across all ratios when nothing has been trained yet.
func (h *Handler) Predictions(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	page.PageSize = PredictionsPageSize

	predicted := true
	filters := images.Filters{Predicted: &predicted}

	latest, err := h.sys.Latest(r.Context(), nil)
	switch {
	case err == nil:
		filters.SplitRatio = &latest.SplitRatio
	case !errors.Is(err, ErrNotFound):
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	result, err := h.images.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
