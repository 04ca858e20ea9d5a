package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListTrending(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTrending")
	defer span.End()

	season, err := parseSeason(r.PathValue("season"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.trendService.ListTrending(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list trending failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]trendingDTO, 0, len(rows))
	for _, item := range rows {
		items = append(items, trendingToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTrending(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTrending")
	defer span.End()

	season, err := parseSeason(r.PathValue("season"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID := strings.TrimSpace(r.PathValue("playerID"))

	item, err := h.trendService.GetTrending(ctx, playerID, season)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, trendingToDTO(item))
}
