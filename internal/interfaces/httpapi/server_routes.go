package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/catalog/packs", handler.ListCatalogPacks)
	mux.HandleFunc("GET /v1/seasons/{season}/weeks", handler.ListWeeks)
	mux.HandleFunc("GET /v1/seasons/{season}/trending", handler.ListTrending)
	mux.HandleFunc("GET /v1/seasons/{season}/trending/{playerID}", handler.GetTrending)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedCollectionRoutes(mux, handler, verifier)
	registerAuthorizedEconomyRoutes(mux, handler, verifier)
	registerAuthorizedLineupRoutes(mux, handler, verifier)
}

func registerAuthorizedCollectionRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/teams", RequireAuth(verifier, http.HandlerFunc(handler.ListMyTeams)))
	mux.Handle("GET /v1/teams/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.GetMyTeam)))
	mux.Handle("GET /v1/teams/{teamID}/cards", RequireAuth(verifier, http.HandlerFunc(handler.ListMyCards)))
	mux.Handle("GET /v1/teams/{teamID}/packs", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPacks)))
	mux.Handle("GET /v1/teams/{teamID}/tokens", RequireAuth(verifier, http.HandlerFunc(handler.ListMyTokens)))
	mux.Handle("GET /v1/teams/{teamID}/transactions", RequireAuth(verifier, http.HandlerFunc(handler.ListTransactions)))
}

func registerAuthorizedEconomyRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/teams/{teamID}/packs/purchase", RequireAuth(verifier, http.HandlerFunc(handler.PurchasePack)))
	mux.Handle("POST /v1/packs/{userPackID}/open", RequireAuth(verifier, http.HandlerFunc(handler.OpenPack)))
	mux.Handle("POST /v1/cards/{userCardID}/sell", RequireAuth(verifier, http.HandlerFunc(handler.SellCard)))
}

func registerAuthorizedLineupRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/teams/{teamID}/weeks/{weekID}/lineup", RequireAuth(verifier, http.HandlerFunc(handler.GetLineup)))
	mux.Handle("PUT /v1/teams/{teamID}/weeks/{weekID}/lineup", RequireAuth(verifier, http.HandlerFunc(handler.SubmitLineup)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/score-week", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunScoreWeekJob)))
	mux.Handle("POST /v1/internal/jobs/recompute-trends", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRecomputeTrendsJob)))
	mux.Handle("POST /v1/internal/jobs/grant-coins", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunGrantCoinsJob)))
}
