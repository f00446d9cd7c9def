package httpapi

import (
	"net/http"

	"github.com/fairwayclub/league-engine/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger, internalJobToken string, corsAllowedOrigins []string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/leagues/{leagueID}", handler.GetLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/weeks/{week}/result", handler.GetWeekResult)
	mux.Handle("POST /v1/internal/jobs/tick",
		RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunTick)))

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
