package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPickRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}/predictions", handler.ListPlayerPredictions)
	mux.HandleFunc("GET /v1/gameweeks/{gameweek}/fixtures", handler.ListGameweekFixtures)
	mux.HandleFunc("PUT /v1/gameweeks/{gameweek}/predictions", handler.SubmitPredictions)
	mux.HandleFunc("GET /v1/gameweeks/{gameweek}/outcomes", handler.GetGameweekOutcomes)
	mux.HandleFunc("GET /v1/gameweeks/{gameweek}/scores", handler.GetGameweekScores)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/refresh-outcomes", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshOutcomesJob)))
}
