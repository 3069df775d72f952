package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/cellarparty/winegambit/internal/game"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "WineGambit API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the blind wine-tasting party game. Host operations expect `Authorization: Bearer <hostToken>`; player operations expect the `X-Player-Id` header. Round indexes in paths are 0-based.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/games
	postGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	postGame.SetSummary("Create game")
	postGame.SetDescription("Creates a game in setup phase and returns the host token. Keep the token; it authorizes every host action.")
	postGame.AddReqStructure(CreateGameRequest{})
	postGame.AddRespStructure(CreateGameResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postGame.AddRespStructure(ValidationResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postGame)

	// GET /api/games/{code}
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/games/{code}")
	getState.SetSummary("Get game state")
	getState.SetDescription("Polling endpoint with everything a client renders. Bottle prices stay hidden until their round is revealed.")
	getState.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getState)

	// POST /api/games/{code}/join
	postJoin, _ := r.NewOperationContext(http.MethodPost, "/api/games/{code}/join")
	postJoin.SetSummary("Join game")
	postJoin.SetDescription("Joins with a display name, or as a spectator when the name is omitted.")
	postJoin.AddReqStructure(JoinRequest{})
	postJoin.AddRespStructure(JoinResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postJoin)

	// PUT /api/games/{code}/config
	putConfig, _ := r.NewOperationContext(http.MethodPut, "/api/games/{code}/config")
	putConfig.SetSummary("Set configuration")
	putConfig.SetDescription("Sets all six configuration fields atomically. Host only, setup phase only.")
	putConfig.AddRespStructure(GameInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	putConfig.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	putConfig.AddRespStructure(ValidationResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(putConfig)

	// POST /api/games/{code}/bottles
	postBottles, _ := r.NewOperationContext(http.MethodPost, "/api/games/{code}/bottles")
	postBottles.SetSummary("Add bottles")
	postBottles.AddReqStructure(AddBottlesRequest{})
	postBottles.AddRespStructure(AddBottlesResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postBottles.AddRespStructure(ValidationResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postBottles)

	// PUT /api/games/{code}/rounds
	putRounds, _ := r.NewOperationContext(http.MethodPut, "/api/games/{code}/rounds")
	putRounds.SetSummary("Organize rounds")
	putRounds.SetDescription("Applies a full bottle-to-round assignment. Partial or unbalanced assignments are rejected with every violation listed.")
	putRounds.AddReqStructure(OrganizeRoundsRequest{})
	putRounds.AddRespStructure(ValidationResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(putRounds)

	// POST /api/games/{code}/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/games/{code}/start")
	postStart.SetSummary("Start game")
	postStart.SetDescription("Validates the whole setup, auto-assigns bottles to rounds when none are assigned, creates the rounds, and opens the lobby.")
	postStart.AddRespStructure(StartGameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ValidationResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postStart)

	// POST /api/games/{code}/rounds/begin
	postBegin, _ := r.NewOperationContext(http.MethodPost, "/api/games/{code}/rounds/begin")
	postBegin.SetSummary("Begin first round")
	postBegin.AddRespStructure(GameInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postBegin)

	// PUT /api/games/{code}/rounds/{round}/submission
	putSub, _ := r.NewOperationContext(http.MethodPut, "/api/games/{code}/rounds/{round}/submission")
	putSub.SetSummary("Save draft submission")
	putSub.SetDescription("Upserts a work-in-progress submission. Drafts may be partial and are never scored.")
	putSub.AddReqStructure(SubmissionRequest{})
	putSub.AddRespStructure(SubmissionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(putSub)

	// POST /api/games/{code}/rounds/{round}/submission
	postSub, _ := r.NewOperationContext(http.MethodPost, "/api/games/{code}/rounds/{round}/submission")
	postSub.SetSummary("Submit tasting")
	postSub.SetDescription("Validates and locks the final answer: a note of 10+ characters per bottle and a complete price ranking. Locked submissions cannot change.")
	postSub.AddReqStructure(SubmissionRequest{})
	postSub.AddRespStructure(SubmissionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSub.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postSub.AddRespStructure(ValidationResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postSub)

	// POST /api/games/{code}/rounds/{round}/close
	postClose, _ := r.NewOperationContext(http.MethodPost, "/api/games/{code}/rounds/{round}/close")
	postClose.SetSummary("Close round")
	postClose.SetDescription("Reveals the round, scores locked submissions, and returns the correct price order. Safe to retry: a revealed round is never scored twice.")
	postClose.AddRespStructure(CloseRoundResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postClose)

	// POST /api/games/{code}/rounds/advance
	postAdvance, _ := r.NewOperationContext(http.MethodPost, "/api/games/{code}/rounds/advance")
	postAdvance.SetSummary("Advance round")
	postAdvance.SetDescription("Moves to the next round, or to the gambit phase after the last reveal.")
	postAdvance.AddRespStructure(GameInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postAdvance)

	// POST /api/games/{code}/gambit
	postGambit, _ := r.NewOperationContext(http.MethodPost, "/api/games/{code}/gambit")
	postGambit.SetSummary("Submit gambit prediction")
	postGambit.SetDescription("Predict the most and least expensive bottle plus a favorite. Upsertable until the host finishes the game.")
	postGambit.AddReqStructure(GambitRequest{})
	postGambit.AddRespStructure(GambitResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postGambit.AddRespStructure(ValidationResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postGambit)

	// POST /api/games/{code}/finish
	postFinish, _ := r.NewOperationContext(http.MethodPost, "/api/games/{code}/finish")
	postFinish.SetSummary("Finish game")
	postFinish.SetDescription("Ends the session from any active phase, scoring gambit predictions exactly once. Skipped rounds stay unscored.")
	postFinish.AddRespStructure(GameInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postFinish)

	// GET /api/games/{code}/leaderboard
	getBoard, _ := r.NewOperationContext(http.MethodGet, "/api/games/{code}/leaderboard")
	getBoard.SetSummary("Leaderboard")
	getBoard.SetDescription("Active players by score descending, ties broken by display name.")
	getBoard.AddRespStructure([]game.Standing{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getBoard)

	// POST /api/games/{code}/players/{playerID}/kick
	postKick, _ := r.NewOperationContext(http.MethodPost, "/api/games/{code}/players/{playerID}/kick")
	postKick.SetSummary("Kick player")
	postKick.SetDescription("Marks a player as kicked. They keep their record but cannot submit and drop off the leaderboard. The host cannot be kicked.")
	postKick.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postKick)

	// DELETE /api/games/{code}
	deleteGame, _ := r.NewOperationContext(http.MethodDelete, "/api/games/{code}")
	deleteGame.SetSummary("Delete game")
	deleteGame.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	_ = r.AddOperation(deleteGame)

	// GET /api/games/{code}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/games/{code}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events nudging clients to re-poll. Optional; polling alone is sufficient.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		json.NewEncoder(w).Encode(spec)
	}
}
