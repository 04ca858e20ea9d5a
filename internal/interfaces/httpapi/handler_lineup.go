package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-cards/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-cards/internal/usecase"
)

type lineupSlotRequest struct {
	Position       string `json:"position" validate:"required"`
	UserCardID     string `json:"user_card_id" validate:"omitempty,max=64"`
	AppliedTokenID string `json:"applied_token_id" validate:"omitempty,max=64"`
}

type submitLineupRequest struct {
	Slots []lineupSlotRequest `json:"slots" validate:"required,min=1,max=20,dive"`
}

func (h *Handler) GetLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLineup")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	weekID := strings.TrimSpace(r.PathValue("weekID"))

	item, err := h.lineupService.GetLineup(ctx, principal.UserID, teamID, weekID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			writeSuccess(ctx, w, http.StatusOK, nil)
			return
		}
		h.logger.WarnContext(ctx, "get lineup failed", "team_id", teamID, "week_id", weekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(item))
}

func (h *Handler) SubmitLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitLineup")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	weekID := strings.TrimSpace(r.PathValue("weekID"))

	var req submitLineupRequest
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

	slots := make([]lineup.Slot, 0, len(req.Slots))
	for _, slot := range req.Slots {
		slots = append(slots, lineup.Slot{
			Position:       lineup.SlotPosition(strings.ToUpper(strings.TrimSpace(slot.Position))),
			UserCardID:     strings.TrimSpace(slot.UserCardID),
			AppliedTokenID: strings.TrimSpace(slot.AppliedTokenID),
		})
	}

	item, err := h.lineupService.SubmitLineup(ctx, principal.UserID, teamID, weekID, slots)
	if err != nil {
		h.logger.WarnContext(ctx, "submit lineup failed", "team_id", teamID, "week_id", weekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(item))
}
