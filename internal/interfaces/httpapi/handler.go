package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/gameweek-picks/internal/platform/logging"
	"github.com/riskibarqy/gameweek-picks/internal/usecase"
)

const maxRequestBodyBytes = 64 << 10

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

type Handler struct {
	playerService     *usecase.PlayerService
	fixtureService    *usecase.FixtureService
	predictionService *usecase.PredictionService
	scoringService    *usecase.ScoringService
	refreshService    *usecase.OutcomeRefreshService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	playerService *usecase.PlayerService,
	fixtureService *usecase.FixtureService,
	predictionService *usecase.PredictionService,
	scoringService *usecase.ScoringService,
	refreshService *usecase.OutcomeRefreshService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		playerService:     playerService,
		fixtureService:    fixtureService,
		predictionService: predictionService,
		scoringService:    scoringService,
		refreshService:    refreshService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	ids := h.playerService.List(ctx)
	items := make([]playerDTO, 0, len(ids))
	for _, id := range ids {
		items = append(items, playerDTO{ID: id})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListGameweekFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGameweekFixtures")
	defer span.End()

	gameweek, err := parseGameweek(r.PathValue("gameweek"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	fixtures, err := h.fixtureService.ListByGameweek(ctx, gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "list gameweek fixtures failed", "gameweek", gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixturesToDTO(fixtures))
}

func (h *Handler) SubmitPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPredictions")
	defer span.End()

	gameweek, err := parseGameweek(r.PathValue("gameweek"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req submitPredictionsRequest
	if err := decodeJSONBody(w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	picks := make([]usecase.PickInput, 0, len(req.Picks))
	for _, pick := range req.Picks {
		picks = append(picks, usecase.PickInput{MatchID: pick.MatchID, Label: pick.Label})
	}

	saved, err := h.predictionService.Submit(ctx, usecase.SubmitPredictionsInput{
		PlayerID: req.PlayerID,
		Gameweek: gameweek,
		Picks:    picks,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit predictions failed", "player_id", req.PlayerID, "gameweek", gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]predictionDTO, 0, len(saved))
	for _, item := range saved {
		items = append(items, predictionToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListPlayerPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayerPredictions")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))

	var gameweek *int
	if raw := strings.TrimSpace(r.URL.Query().Get("gameweek")); raw != "" {
		value, err := parseGameweek(raw)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		gameweek = &value
	}

	items, err := h.predictionService.ListByPlayer(ctx, playerID, gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "list player predictions failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]predictionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, predictionToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetGameweekOutcomes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameweekOutcomes")
	defer span.End()

	gameweek, err := parseGameweek(r.PathValue("gameweek"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	outcomes, err := h.scoringService.OutcomesByGameweek(ctx, gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "get gameweek outcomes failed", "gameweek", gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, outcomesToDTO(outcomes))
}

func (h *Handler) GetGameweekScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameweekScores")
	defer span.End()

	gameweek, err := parseGameweek(r.PathValue("gameweek"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	scores, err := h.scoringService.GameweekScores(ctx, gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "get gameweek scores failed", "gameweek", gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoresToDTO(scores))
}

func (h *Handler) RunRefreshOutcomesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshOutcomesJob")
	defer span.End()

	if h.refreshService == nil {
		writeError(ctx, w, fmt.Errorf("%w: outcome refresh is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req refreshOutcomesRequest
	if err := decodeJSONBody(w, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	started := time.Now()
	result, err := h.refreshService.Refresh(ctx, usecase.RefreshOutcomesInput{
		From:    req.From,
		Through: req.Through,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "refresh outcomes job failed", "from", req.From, "through", req.Through, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "refresh outcomes job completed",
		"from", result.From,
		"through", result.Through,
		"success_count", result.SuccessCount,
		"failed_count", result.FailedCount,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSONBody rejects unknown fields. An empty body is accepted only when
// allowEmpty is set.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, out any, allowEmpty bool) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		if allowEmpty {
			return nil
		}
		return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
	}
	if err := strictJSON.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func parseGameweek(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: gameweek must be an integer, got %q", usecase.ErrInvalidInput, raw)
	}
	return value, nil
}
