package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/fairwayclub/league-engine/internal/domain/league"
	"github.com/fairwayclub/league-engine/internal/domain/weekresult"
	"github.com/fairwayclub/league-engine/internal/platform/logging"
	"github.com/fairwayclub/league-engine/internal/usecase"
)

// Handler exposes the engine's small HTTP surface: health, read-only
// results, and the token-guarded internal tick trigger.
type Handler struct {
	processor      *usecase.ProcessorService
	leagueRepo     league.Repository
	weekResultRepo weekresult.Repository
	logger         *logging.Logger
}

func NewHandler(
	processor *usecase.ProcessorService,
	leagueRepo league.Repository,
	weekResultRepo weekresult.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		processor:      processor,
		leagueRepo:     leagueRepo,
		weekResultRepo: weekResultRepo,
		logger:         logger,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	lg, found, err := h.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get league failed", "league_id", leagueID, "error", err)
		writeInternalError(ctx, w)
		return
	}
	if !found {
		writeError(ctx, w, fmt.Errorf("%w: league %s", usecase.ErrNotFound, leagueID))
		return
	}

	lg.Normalize()
	writeSuccess(ctx, w, http.StatusOK, lg)
}

func (h *Handler) GetWeekResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWeekResult")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	week, err := strconv.Atoi(r.PathValue("week"))
	if err != nil || week < 1 {
		writeError(ctx, w, fmt.Errorf("%w: week must be a positive number", usecase.ErrInvalidInput))
		return
	}

	result, found, err := h.weekResultRepo.GetByWeek(ctx, leagueID, week)
	if err != nil {
		h.logger.ErrorContext(ctx, "get week result failed", "league_id", leagueID, "week", week, "error", err)
		writeInternalError(ctx, w)
		return
	}
	if !found {
		writeError(ctx, w, fmt.Errorf("%w: no result for league %s week %d", usecase.ErrNotFound, leagueID, week))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
