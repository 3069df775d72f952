package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/cellarparty/winegambit/internal/game"
)

func addRoutes(r chi.Router, logger *slog.Logger, svc *game.Service, db *sql.DB, spaDir string) {
	broker := NewBroker()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("WineGambit API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	r.Route("/api/games", func(r chi.Router) {
		r.Post("/", handleCreateGame(svc))

		r.Route("/{code}", func(r chi.Router) {
			// Anyone with the code.
			r.Get("/", handleGameState(svc))
			r.Post("/join", handleJoin(svc, broker))
			r.Get("/leaderboard", handleLeaderboard(svc))
			r.Get("/events", handleEvents(svc, broker))

			// Players, identified by X-Player-Id.
			r.Put("/rounds/{round}/submission", handleSaveDraft(svc))
			r.Post("/rounds/{round}/submission", handleSubmitTasting(svc, broker))
			r.Get("/rounds/{round}/submission", handleGetSubmission(svc))
			r.Post("/gambit", handleSubmitGambit(svc))

			// Host, gated by the bearer token inside the service.
			r.Put("/config", handleSetConfiguration(svc))
			r.Post("/bottles", handleAddBottles(svc))
			r.Put("/rounds", handleOrganizeRounds(svc))
			r.Post("/start", handleStartGame(svc, broker))
			r.Post("/rounds/begin", handleBeginRound(svc, broker))
			r.Post("/rounds/{round}/close", handleCloseRound(svc, broker))
			r.Post("/rounds/advance", handleAdvanceRound(svc, broker))
			r.Post("/finish", handleFinishGame(svc, broker))
			r.Post("/players/{playerID}/kick", handleKickPlayer(svc, broker))
			r.Delete("/", handleDeleteGame(svc))
		})
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
