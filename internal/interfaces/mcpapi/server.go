package mcpapi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/riskibarqy/gameweek-picks/internal/platform/logging"
	"github.com/riskibarqy/gameweek-picks/internal/usecase"
)

const (
	serverName  = "gameweek-picks-mcp"
	apiKeyHeader = "X-API-Key"
)

// Services are the read-only use cases exposed as tools.
type Services struct {
	Players     *usecase.PlayerService
	Fixtures    *usecase.FixtureService
	Predictions *usecase.PredictionService
	Scoring     *usecase.ScoringService
}

type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewServer registers every tool on a fresh MCP server and returns the tool
// registry alongside it.
func NewServer(services Services, version string, logger *logging.Logger) (*mcp.Server, []ToolInfo) {
	if logger == nil {
		logger = logging.Default()
	}

	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	tools := &toolSet{services: services, logger: logger}
	registry := make([]ToolInfo, 0, 5)

	addTool(server, &registry, &mcp.Tool{
		Name:        "list_players",
		Description: "Players taking part in the prediction game",
	}, tools.listPlayers)
	addTool(server, &registry, &mcp.Tool{
		Name:        "gameweek_fixtures",
		Description: "Premier League fixtures of one gameweek with kickoff and status",
	}, tools.gameweekFixtures)
	addTool(server, &registry, &mcp.Tool{
		Name:        "gameweek_outcomes",
		Description: "Resolved HOME/AWAY/TIE outcome of every match in a gameweek; unfinished matches are UNKNOWN",
	}, tools.gameweekOutcomes)
	addTool(server, &registry, &mcp.Tool{
		Name:        "gameweek_scores",
		Description: "Weekly and cumulative leaderboards through a gameweek",
	}, tools.gameweekScores)
	addTool(server, &registry, &mcp.Tool{
		Name:        "player_predictions",
		Description: "Stored picks of one player, optionally filtered by gameweek",
	}, tools.playerPredictions)

	return server, registry
}

func addTool[T any](server *mcp.Server, registry *[]ToolInfo, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	*registry = append(*registry, ToolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(server, tool, handler)
}

// NewHTTPHandler serves the streamable MCP endpoint at /mcp plus /health and
// /tools. Every route requires apiKey when it is non-empty.
func NewHTTPHandler(server *mcp.Server, registry []ToolInfo, apiKey string) http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /tools", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"tools": registry})
	})
	mux.Handle("/mcp", streamable)

	return requireAPIKey(strings.TrimSpace(apiKey), mux)
}

func requireAPIKey(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		key := strings.TrimSpace(r.Header.Get(apiKeyHeader))
		if key == "" {
			if authz := r.Header.Get("Authorization"); len(authz) > 7 && strings.EqualFold(authz[:7], "bearer ") {
				key = strings.TrimSpace(authz[7:])
			}
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := sonic.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
