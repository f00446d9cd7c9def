package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/fairwayclub/league-engine/internal/domain/league"
	"github.com/fairwayclub/league-engine/internal/domain/weekresult"
	"github.com/fairwayclub/league-engine/internal/infrastructure/repository/memory"
	idgen "github.com/fairwayclub/league-engine/internal/platform/id"
	"github.com/fairwayclub/league-engine/internal/platform/logging"
	"github.com/fairwayclub/league-engine/internal/usecase"
)

func newTestRouter(t *testing.T, leagueRepo *memory.LeagueRepository, weekResultRepo *memory.WeekResultRepository) http.Handler {
	t.Helper()

	memberRepo := memory.NewMemberRepository()
	teamRepo := memory.NewTeamRepository()
	scoreRepo := memory.NewScoreRepository()
	notificationRepo := memory.NewNotificationRepository()

	logger := logging.NewNop()
	standings := usecase.NewStandingsService(memberRepo, logger)
	strategies := map[league.Format]usecase.WeekStrategy{
		league.FormatStroke: usecase.NewStrokePlayStrategy(scoreRepo, memberRepo, standings, nil, logger),
	}
	notifier := usecase.NewNotifierService(notificationRepo, idgen.NewRandomGenerator(), logger)
	season := usecase.NewSeasonService(leagueRepo, memberRepo, teamRepo, scoreRepo, weekResultRepo, strategies, notifier, logger)

	processor, err := usecase.NewProcessorService(leagueRepo, season, 2, time.UTC, logger)
	if err != nil {
		t.Fatalf("new processor: %v", err)
	}
	t.Cleanup(processor.Close)

	handler := NewHandler(processor, leagueRepo, weekResultRepo, logger)
	return NewRouter(handler, logger, "job-secret", []string{"*"})
}

func TestGetWeekResult_NotFound(t *testing.T) {
	router := newTestRouter(t, memory.NewLeagueRepository(), memory.NewWeekResultRepository())

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues/lg/weeks/1/result", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetWeekResult_ReturnsStoredResult(t *testing.T) {
	weekResultRepo := memory.NewWeekResultRepository()
	if err := weekResultRepo.Create(t.Context(), weekresult.WeekResult{
		LeagueID:     "lg",
		Week:         3,
		PrizeCents:   2000,
		Currency:     "USD",
		WinnerUserID: "u1",
		WinnerName:   "Pat",
		WinnerNet:    68,
	}); err != nil {
		t.Fatalf("seed week result: %v", err)
	}

	router := newTestRouter(t, memory.NewLeagueRepository(), weekResultRepo)

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues/lg/weeks/3/result", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data weekresult.WeekResult `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body.Data.WinnerUserID != "u1" || body.Data.WinnerNet != 68 {
		t.Fatalf("unexpected result payload: %+v", body.Data)
	}
}

func TestGetWeekResult_RejectsBadWeek(t *testing.T) {
	router := newTestRouter(t, memory.NewLeagueRepository(), memory.NewWeekResultRepository())

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues/lg/weeks/zero/result", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRunTick_RequiresToken(t *testing.T) {
	router := newTestRouter(t, memory.NewLeagueRepository(), memory.NewWeekResultRepository())

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/tick", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRunTick_RunsProcessor(t *testing.T) {
	router := newTestRouter(t, memory.NewLeagueRepository(), memory.NewWeekResultRepository())

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/tick", strings.NewReader(`{"mode":"manual"}`))
	req.Header.Set("X-Internal-Job-Token", "job-secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data usecase.RunResult `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body.Data.Mode != "manual" {
		t.Fatalf("unexpected run mode: %q", body.Data.Mode)
	}
	if body.Data.LeagueCount != 0 {
		t.Fatalf("expected zero leagues processed, got %d", body.Data.LeagueCount)
	}
}

func TestRunTick_RejectsUnknownFields(t *testing.T) {
	router := newTestRouter(t, memory.NewLeagueRepository(), memory.NewWeekResultRepository())

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/tick", strings.NewReader(`{"bogus":true}`))
	req.Header.Set("X-Internal-Job-Token", "job-secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
