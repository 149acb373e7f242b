package http

import (
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "truetalent/internal/errors"
	"truetalent/internal/talent"
)

// Handler serves the dataset endpoints.
type Handler struct {
	store  *Store
	logger *slog.Logger
}

// NewHandler creates a dataset handler.
func NewHandler(store *Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: store, logger: logger}
}

// RegisterRoutes registers the dataset routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/dataset", h.GetDataset)
		r.Get("/batters/{id}", h.GetBatter)
		r.Get("/leaders", h.GetLeaders)
		r.Get("/references", h.GetReferences)
		r.Get("/audit", h.GetAudit)
	})
}

// dataset returns the current snapshot or renders a 503.
func (h *Handler) dataset(w http.ResponseWriter, r *http.Request) *talent.Dataset {
	ds := h.store.Dataset()
	if ds == nil {
		h.logger.WarnContext(r.Context(), "dataset requested before first build")
		render.Render(w, r, apierrors.ErrDatasetUnavailable)
		return nil
	}
	return ds
}

// GetDataset returns the full dataset for the latest run.
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	ds := h.dataset(w, r)
	if ds == nil {
		return
	}
	render.JSON(w, r, ds)
}

// GetBatter returns one batter record by MLBAM player ID.
func (h *Handler) GetBatter(w http.ResponseWriter, r *http.Request) {
	ds := h.dataset(w, r)
	if ds == nil {
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		render.Render(w, r, apierrors.InvalidParameter("id", "id must be an integer player ID"))
		return
	}

	batter, ok := ds.Batter(id)
	if !ok {
		render.Render(w, r, apierrors.BatterNotFound(id))
		return
	}
	render.JSON(w, r, batter)
}

// leaderColumns maps the sortable column names to their values. Nullable
// columns sort undefined values last.
var leaderColumns = map[string]func(talent.BatterRecord) float64{
	"woba_true_talent":  func(b talent.BatterRecord) float64 { return b.WOBATrueTalent },
	"total_context_adj": func(b talent.BatterRecord) float64 { return b.TotalContextAdj },
	"woba":              func(b talent.BatterRecord) float64 { return b.WOBA },
	"wrc_plus_true_talent": func(b talent.BatterRecord) float64 {
		return b.WRCPlusTrueTalent.Or(-1 << 30)
	},
	"wraa_true_talent": func(b talent.BatterRecord) float64 {
		return b.WRAATrueTalent.Or(-1 << 30)
	},
}

// leadersResponse is the /api/leaders payload.
type leadersResponse struct {
	By      string                `json:"by"`
	Order   string                `json:"order"`
	Limit   int                   `json:"limit"`
	Batters []talent.BatterRecord `json:"batters"`
}

// GetLeaders returns the top batters by a sortable column.
// Query: by (default woba_true_talent), order (desc|asc), limit (default 10).
func (h *Handler) GetLeaders(w http.ResponseWriter, r *http.Request) {
	ds := h.dataset(w, r)
	if ds == nil {
		return
	}

	by := r.URL.Query().Get("by")
	if by == "" {
		by = "woba_true_talent"
	}
	value, ok := leaderColumns[by]
	if !ok {
		render.Render(w, r, apierrors.InvalidParameter("by", "unknown leaders column"))
		return
	}

	order := r.URL.Query().Get("order")
	if order == "" {
		order = "desc"
	}
	if order != "asc" && order != "desc" {
		render.Render(w, r, apierrors.InvalidParameter("order", "order must be asc or desc"))
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			render.Render(w, r, apierrors.InvalidParameter("limit", "limit must be between 1 and 1000"))
			return
		}
		limit = n
	}

	sorted := make([]talent.BatterRecord, len(ds.Batters))
	copy(sorted, ds.Batters)
	sort.SliceStable(sorted, func(i, j int) bool {
		if order == "asc" {
			return value(sorted[i]) < value(sorted[j])
		}
		return value(sorted[i]) > value(sorted[j])
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	render.JSON(w, r, leadersResponse{By: by, Order: order, Limit: limit, Batters: sorted})
}

// GetReferences returns the league reference values backing the run.
func (h *Handler) GetReferences(w http.ResponseWriter, r *http.Request) {
	ds := h.dataset(w, r)
	if ds == nil {
		return
	}
	render.JSON(w, r, ds.References)
}

// GetAudit returns the run's data-quality counters.
func (h *Handler) GetAudit(w http.ResponseWriter, r *http.Request) {
	ds := h.dataset(w, r)
	if ds == nil {
		return
	}
	render.JSON(w, r, ds.Audit)
}

// healthResponse is the /healthz payload.
type healthResponse struct {
	Status  string `json:"status"`
	Season  int    `json:"season,omitempty"`
	Batters int    `json:"batters,omitempty"`
	RunID   string `json:"run_id,omitempty"`
}

// Health reports liveness and whether a dataset is loaded.
func Health(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds := store.Dataset()
		if ds == nil {
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, healthResponse{Status: "starting"})
			return
		}
		render.JSON(w, r, healthResponse{
			Status:  "ok",
			Season:  ds.Season,
			Batters: len(ds.Batters),
			RunID:   ds.RunID.String(),
		})
	}
}
