package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/fairwayclub/league-engine/internal/usecase"
)

type tickRequest struct {
	Mode string `json:"mode"`
}

// RunTick triggers one processor run. The cron scheduler hits this same
// path through localhost, so manual replays and scheduled runs share one
// code path and the same idempotency guarantees.
func (h *Handler) RunTick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunTick")
	defer span.End()

	if h.processor == nil {
		writeError(ctx, w, fmt.Errorf("%w: processor is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeTickRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	mode := strings.TrimSpace(req.Mode)
	if mode == "" {
		mode = "manual"
	}

	result, err := h.processor.Run(ctx, mode)
	if err != nil {
		h.logger.ErrorContext(ctx, "processor tick failed", "mode", mode, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func decodeTickRequest(r *http.Request) (tickRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req tickRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return tickRequest{}, nil
		}
		return tickRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return req, nil
}
