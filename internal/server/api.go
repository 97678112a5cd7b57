package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"github.com/desertthunder/tubecorr/internal/models"
	"github.com/desertthunder/tubecorr/internal/shared"
)

const (
	defaultLimit = 50
	maxLimit     = 1000
)

// ResultStore reads stored pipeline results. Implemented by repositories.Store.
type ResultStore interface {
	TopCorrelations(ctx context.Context, limit int) ([]models.Correlation, error)
	TrackCorrelations(ctx context.Context, trackID string) ([]models.Correlation, error)
	Regions(ctx context.Context) ([]models.RegionalAggregate, error)
	Region(ctx context.Context, code string) (*models.RegionalAggregate, error)
	Counts(ctx context.Context) (map[string]int, error)
}

// RunStore reads pipeline runs. Implemented by repositories.RunRepository.
type RunStore interface {
	Latest(ctx context.Context) (*models.RunStats, error)
	List(ctx context.Context, limit int) ([]*models.RunStats, error)
}

// API serves the stored correlations, regional statistics and runs as JSON.
type API struct {
	results ResultStore
	runs    RunStore
	logger  *log.Logger
	now     func() time.Time
}

// NewAPI creates the results API handler.
func NewAPI(results ResultStore, runs RunStore, logger *log.Logger) *API {
	return &API{results: results, runs: runs, logger: logger, now: time.Now}
}

// Register adds the API routes to r.
func (a *API) Register(r Router) {
	r.Handle(http.MethodGet, "/health", http.HandlerFunc(a.health))
	r.Handle(http.MethodGet, "/api/correlations", http.HandlerFunc(a.correlations))
	r.Handle(http.MethodGet, "/api/regions", http.HandlerFunc(a.regions))
	r.Handle(http.MethodGet, "/api/regions/{code}", http.HandlerFunc(a.region))
	r.Handle(http.MethodGet, "/api/runs", http.HandlerFunc(a.listRuns))
	r.Handle(http.MethodGet, "/api/stats", http.HandlerFunc(a.stats))
}

// NewRouter builds a [BasicRouter] with recovery and request logging serving the API.
func NewRouter(api *API, logger *log.Logger) *BasicRouter {
	r := NewBasicRouter()
	r.Use(Recover(logger), Logging(logger), CORS("*"))
	r.Handler(api)
	return r
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   a.now().UTC().Format(time.RFC3339),
	})
}

// correlations answers ?limit=N for the best correlations overall, or ?track_id=ID for one track.
func (a *API) correlations(w http.ResponseWriter, r *http.Request) {
	var (
		corrs []models.Correlation
		err   error
	)

	if trackID := r.URL.Query().Get("track_id"); trackID != "" {
		corrs, err = a.results.TrackCorrelations(r.Context(), trackID)
	} else {
		limit, lerr := parseLimit(r)
		if lerr != nil {
			writeError(w, http.StatusBadRequest, lerr.Error())
			return
		}
		corrs, err = a.results.TopCorrelations(r.Context(), limit)
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"count": len(corrs), "correlations": nonNil(corrs)})
}

func (a *API) regions(w http.ResponseWriter, r *http.Request) {
	regions, err := a.results.Regions(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(regions), "regions": nonNil(regions)})
}

func (a *API) region(w http.ResponseWriter, r *http.Request) {
	region, err := a.results.Region(r.Context(), r.PathValue("code"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "region not found")
		return
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, region)
}

func (a *API) listRuns(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	runs, err := a.runs.List(r.Context(), limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(runs), "runs": nonNil(runs)})
}

// stats reports the stored record counts and the latest run, which is null before the first run.
func (a *API) stats(w http.ResponseWriter, r *http.Request) {
	counts, err := a.results.Counts(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}

	latest, err := a.runs.Latest(r.Context())
	if err != nil && !errors.Is(err, shared.ErrRunNotFound) {
		a.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"counts": counts, "latest_run": latest})
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	a.logger.Error("request failed", "path", r.URL.Path, "err", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", shared.ErrInvalidArgument)
	}
	return min(limit, maxLimit), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
