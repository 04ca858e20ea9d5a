package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-cards/internal/usecase"
)

type purchasePackRequest struct {
	PackID         string `json:"pack_id" validate:"required"`
	IdempotencyKey string `json:"idempotency_key" validate:"required,max=128"`
}

func (h *Handler) PurchasePack(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PurchasePack")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	teamID := strings.TrimSpace(r.PathValue("teamID"))

	var req purchasePackRequest
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

	result, err := h.economyService.PurchasePack(ctx, principal.UserID, teamID, req.PackID, req.IdempotencyKey)
	if err != nil {
		h.logger.WarnContext(ctx, "purchase pack failed", "team_id", teamID, "pack_id", req.PackID, "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyProcessed {
		status = http.StatusOK
	}
	writeSuccess(ctx, w, status, map[string]any{
		"user_pack":         userPackToDTO(result.UserPack),
		"transaction":       transactionToDTO(result.Transaction),
		"already_processed": result.AlreadyProcessed,
	})
}

func (h *Handler) OpenPack(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OpenPack")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	userPackID := strings.TrimSpace(r.PathValue("userPackID"))

	result, err := h.economyService.OpenPack(ctx, principal.UserID, userPackID)
	if err != nil {
		h.logger.WarnContext(ctx, "open pack failed", "user_pack_id", userPackID, "error", err)
		writeError(ctx, w, err)
		return
	}

	cards := make([]userCardDTO, 0, len(result.Cards))
	for _, item := range result.Cards {
		cards = append(cards, userCardToDTO(item))
	}
	tokens := make([]userTokenDTO, 0, len(result.Tokens))
	for _, item := range result.Tokens {
		tokens = append(tokens, userTokenToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"user_pack":     userPackToDTO(result.UserPack),
		"cards":         cards,
		"tokens":        tokens,
		"coins_granted": result.CoinsGranted,
	})
}

type sellCardRequest struct {
	IdempotencyKey string `json:"idempotency_key" validate:"required,max=128"`
}

func (h *Handler) SellCard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SellCard")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	userCardID := strings.TrimSpace(r.PathValue("userCardID"))

	var req sellCardRequest
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

	result, err := h.economyService.SellCard(ctx, principal.UserID, userCardID, req.IdempotencyKey)
	if err != nil {
		h.logger.WarnContext(ctx, "sell card failed", "user_card_id", userCardID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"card":              userCardToDTO(result.Card),
		"transaction":       transactionToDTO(result.Transaction),
		"already_processed": result.AlreadyProcessed,
	})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTransactions")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	teamID := strings.TrimSpace(r.PathValue("teamID"))

	transactions, err := h.economyService.ListTransactions(ctx, principal.UserID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list transactions failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]transactionDTO, 0, len(transactions))
	for _, item := range transactions {
		items = append(items, transactionToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
