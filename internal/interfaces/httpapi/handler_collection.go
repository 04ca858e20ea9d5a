package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-cards/internal/usecase"
)

func (h *Handler) ListMyTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyTeams")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teams, err := h.collectionService.ListMyTeams(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, item := range teams {
		items = append(items, teamToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMyTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	teamID := strings.TrimSpace(r.PathValue("teamID"))

	item, err := h.collectionService.GetMyTeam(ctx, principal.UserID, teamID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item))
}

func (h *Handler) ListMyCards(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyCards")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	teamID := strings.TrimSpace(r.PathValue("teamID"))

	cards, err := h.collectionService.ListCards(ctx, principal.UserID, teamID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]userCardDTO, 0, len(cards))
	for _, item := range cards {
		items = append(items, userCardToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMyPacks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPacks")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	teamID := strings.TrimSpace(r.PathValue("teamID"))

	packs, err := h.collectionService.ListPacks(ctx, principal.UserID, teamID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]userPackDTO, 0, len(packs))
	for _, item := range packs {
		items = append(items, userPackToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMyTokens(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyTokens")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	teamID := strings.TrimSpace(r.PathValue("teamID"))

	tokens, err := h.collectionService.ListTokens(ctx, principal.UserID, teamID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]userTokenDTO, 0, len(tokens))
	for _, item := range tokens {
		items = append(items, userTokenToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListCatalogPacks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCatalogPacks")
	defer span.End()

	packs, err := h.collectionService.ListCatalogPacks(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list catalog packs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]packCatalogDTO, 0, len(packs))
	for _, item := range packs {
		items = append(items, packCatalogToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListWeeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListWeeks")
	defer span.End()

	season, err := parseSeason(r.PathValue("season"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	weeks, err := h.collectionService.ListWeeks(ctx, season)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	now := time.Now().UTC()
	items := make([]weekDTO, 0, len(weeks))
	for _, item := range weeks {
		items = append(items, weekToDTO(item, now))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func parseSeason(raw string) (int, error) {
	season, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || season <= 0 {
		return 0, fmt.Errorf("%w: invalid season: %q", usecase.ErrInvalidInput, raw)
	}
	return season, nil
}
