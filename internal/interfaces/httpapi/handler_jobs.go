package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-cards/internal/usecase"
)

type scoreWeekJobRequest struct {
	WeekID     string `json:"week_id" validate:"required"`
	MaxWorkers int    `json:"max_workers" validate:"omitempty,min=1,max=64"`
}

// RunScoreWeekJob settles every submitted lineup of a locked week. Invoked
// by the scheduler through the internal job surface, never by end users.
func (h *Handler) RunScoreWeekJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScoreWeekJob")
	defer span.End()

	var req scoreWeekJobRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.scoringService.ScoreWeek(ctx, usecase.ScoreWeekInput{
		WeekID:     req.WeekID,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "score week job failed", "week_id", req.WeekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

type recomputeTrendsJobRequest struct {
	Season     int `json:"season" validate:"required,min=2000"`
	MaxWorkers int `json:"max_workers" validate:"omitempty,min=1,max=64"`
}

func (h *Handler) RunRecomputeTrendsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRecomputeTrendsJob")
	defer span.End()

	var req recomputeTrendsJobRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.trendService.RecomputeSeason(ctx, req.Season, req.MaxWorkers)
	if err != nil {
		h.logger.ErrorContext(ctx, "recompute trends job failed", "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

type grantCoinsJobRequest struct {
	TeamID         string `json:"team_id" validate:"required"`
	Amount         int64  `json:"amount" validate:"required,min=1"`
	Reference      string `json:"reference" validate:"omitempty,max=128"`
	IdempotencyKey string `json:"idempotency_key" validate:"required,max=128"`
}

func (h *Handler) RunGrantCoinsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunGrantCoinsJob")
	defer span.End()

	var req grantCoinsJobRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entry, err := h.economyService.GrantCoins(ctx, req.TeamID, req.Amount, req.Reference, req.IdempotencyKey)
	if err != nil {
		h.logger.ErrorContext(ctx, "grant coins job failed", "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transactionToDTO(entry))
}
