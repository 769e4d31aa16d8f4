package cost

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/de-tools/cost-monitor/pkg/adapters"
	"github.com/de-tools/cost-monitor/pkg/models/api"
	"github.com/de-tools/cost-monitor/pkg/models/domain"
	"github.com/de-tools/cost-monitor/pkg/models/store"
	"github.com/de-tools/cost-monitor/pkg/services/cost"
	"github.com/de-tools/cost-monitor/pkg/store/sqlite/history"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Monitor is the part of the cost monitor served over HTTP.
type Monitor interface {
	Now() time.Time
	DailySummary(ctx context.Context, period domain.TimePeriod, limit int) (*domain.DailyAlert, error)
	OwnerBreakdown(ctx context.Context, period domain.TimePeriod) (*domain.MonthlyReport, error)
}

// RunStore reads recorded runs.
type RunStore interface {
	ListRuns(ctx context.Context, kind string, limit int) ([]store.Run, error)
	GetRun(ctx context.Context, id int64) (*store.Run, error)
}

type Handler struct {
	monitor  Monitor
	runs     RunStore
	provider domain.ProviderType
	location *time.Location
}

// NewHandler creates the cost API handler. runs may be nil when history is disabled.
func NewHandler(monitor Monitor, runs RunStore, provider domain.ProviderType, location *time.Location) *Handler {
	if location == nil {
		location = time.Local
	}
	return &Handler{
		monitor:  monitor,
		runs:     runs,
		provider: provider,
		location: location,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, api.Health{Status: "ok", Provider: string(h.provider)})
}

func (h *Handler) GetDailyCost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	query := r.URL.Query()

	period := cost.Yesterday(h.monitor.Now().In(h.location))
	if date := query.Get("date"); date != "" {
		var err error
		period, err = cost.ParseDay(date, h.location)
		if err != nil {
			http.Error(w, "invalid 'date' format. Expected format: YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	limit, err := intParam(query.Get("limit"))
	if err != nil {
		http.Error(w, "invalid 'limit'. Expected a positive number", http.StatusBadRequest)
		return
	}

	summary, err := h.monitor.DailySummary(ctx, period, limit)
	if err != nil {
		logger.Error().Err(err).Str("date", period.Start.Format(cost.DateLayout)).Msg("failed to get daily cost")
		http.Error(w, "failed to query billing data", http.StatusBadGateway)
		return
	}
	writeJSON(ctx, w, adapters.MapDailyAlertDomainToApi(summary))
}

func (h *Handler) GetOwnerCost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	period := cost.PreviousMonth(h.monitor.Now().In(h.location))
	if month := r.URL.Query().Get("month"); month != "" {
		var err error
		period, err = cost.ParseMonth(month, h.location)
		if err != nil {
			http.Error(w, "invalid 'month' format. Expected format: YYYY-MM", http.StatusBadRequest)
			return
		}
	}

	report, err := h.monitor.OwnerBreakdown(ctx, period)
	if err != nil {
		logger.Error().Err(err).Str("month", period.Start.Format(cost.MonthLayout)).Msg("failed to get owner cost")
		http.Error(w, "failed to query billing data", http.StatusBadGateway)
		return
	}
	writeJSON(ctx, w, adapters.MapMonthlyReportDomainToApi(report))
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	query := r.URL.Query()

	if h.runs == nil {
		http.Error(w, "run history is disabled", http.StatusServiceUnavailable)
		return
	}

	kind := query.Get("kind")
	switch domain.RunKind(kind) {
	case "", domain.RunKindDaily, domain.RunKindMonthly:
	default:
		http.Error(w, "invalid 'kind'. Expected daily or monthly", http.StatusBadRequest)
		return
	}

	limit, err := intParam(query.Get("limit"))
	if err != nil {
		http.Error(w, "invalid 'limit'. Expected a positive number", http.StatusBadRequest)
		return
	}

	runs, err := h.runs.ListRuns(ctx, kind, limit)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list runs")
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}

	response := make([]api.Run, 0, len(runs))
	for _, run := range runs {
		response = append(response, adapters.MapRunDomainToApi(adapters.MapStoreRunToDomain(run)))
	}
	writeJSON(ctx, w, response)
}

func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	if h.runs == nil {
		http.Error(w, "run history is disabled", http.StatusServiceUnavailable)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid run id", http.StatusBadRequest)
		return
	}

	run, err := h.runs.GetRun(ctx, id)
	if errors.Is(err, history.ErrNotFound) {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error().Err(err).Int64("run_id", id).Msg("failed to get run")
		http.Error(w, "failed to get run", http.StatusInternalServerError)
		return
	}
	writeJSON(ctx, w, adapters.MapRunDomainToApi(adapters.MapStoreRunToDomain(*run)))
}

// intParam parses an optional positive integer; empty means zero.
func intParam(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("must be positive")
	}
	return n, nil
}

func writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}
