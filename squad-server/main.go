package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fplkit/squad-engine/internal/auth"
	"github.com/fplkit/squad-engine/internal/cache"
	"github.com/fplkit/squad-engine/internal/metrics"
)

type ServerConfig struct {
	DataRoot string
	Cache    *cache.ReportCache
	Metrics  *metrics.Recorder
}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func main() {
	var (
		addr        = flag.String("addr", ":8080", "HTTP listen address")
		mcpPath     = flag.String("path", "/mcp", "HTTP path for MCP endpoint")
		dataRoot    = flag.String("data-root", "data/raw", "root directory for raw JSON")
		redisAddr   = flag.String("redis-addr", "", "Redis address for the report cache (empty = no cache)")
		requireAuth = flag.Bool("require-auth", true, "require auth via SQUAD_MCP_API_KEY or SQUAD_MCP_JWT_SECRET")
		authHeader  = flag.String("auth-header", "X-API-Key", "HTTP header to read API key from")
		allowOrigin = flag.String("allow-origin", "*", "CORS allowed origin")
	)
	flag.Parse()

	rec := metrics.NewRecorder()
	reportCache := cache.New(*redisAddr)
	if reportCache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := reportCache.Ping(ctx); err != nil {
			log.Fatalf("redis ping failed: %v", err)
		}
		cancel()
	}

	cfg := ServerConfig{
		DataRoot: *dataRoot,
		Cache:    reportCache,
		Metrics:  rec,
	}

	authn := auth.Authenticator{
		APIKey:    strings.TrimSpace(os.Getenv("SQUAD_MCP_API_KEY")),
		APIHeader: *authHeader,
		JWTSecret: []byte(strings.TrimSpace(os.Getenv("SQUAD_MCP_JWT_SECRET"))),
	}
	if len(authn.JWTSecret) == 0 {
		authn.JWTSecret = nil
	}
	if *requireAuth && !authn.Enabled() {
		log.Fatal("auth required: set SQUAD_MCP_API_KEY or SQUAD_MCP_JWT_SECRET (or run with --require-auth=false)")
	}
	if !*requireAuth {
		authn = auth.Authenticator{}
	}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fpl-squad-engine",
			Version: "0.1.0",
		},
		nil,
	)

	registry := make([]toolInfo, 0, 8)

	addTool(server, &registry, cfg, &mcp.Tool{
		Name:        "fixture_difficulty",
		Description: "Rolling fixture difficulty window per team (avg FDR, easy/hard runs)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args FixtureDifficultyArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildFixtureDifficulty(cfg, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return marshalTool(out)
	})

	addTool(server, &registry, cfg, &mcp.Tool{
		Name:        "player_scores",
		Description: "Value scores for every player (form, xG/xA, fixtures, reliability)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args PlayerScoresArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildPlayerScores(cfg, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return marshalTool(out)
	})

	addTool(server, &registry, cfg, &mcp.Tool{
		Name:        "optimal_squad",
		Description: "Greedy 15-player squad under budget, position, and club constraints",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args OptimalSquadArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildOptimalSquad(cfg, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return marshalTool(out)
	})

	addTool(server, &registry, cfg, &mcp.Tool{
		Name:        "captain_picks",
		Description: "Top captaincy candidates from the optimal squad with reasons",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args CaptainPicksArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildCaptainPicks(cfg, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return marshalTool(out)
	})

	addTool(server, &registry, cfg, &mcp.Tool{
		Name:        "squad_analysis",
		Description: "Full analysis report: windows, scores, squad, and captain picks",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SquadAnalysisArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildSquadAnalysis(ctx, cfg, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSONBytes(out), nil, nil
	})

	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{*allowOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", *authHeader},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", rec.Handler())

	r.Group(func(pr chi.Router) {
		pr.Use(authn.Middleware)
		pr.Get("/tools", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			b, _ := json.MarshalIndent(map[string]any{"tools": registry}, "", "  ")
			w.Write(b)
		})
		pr.Handle(*mcpPath, handler)
	})

	log.Printf("MCP HTTP server listening on %s%s (data root %s)", *addr, *mcpPath, *dataRoot)
	if err := http.ListenAndServe(*addr, r); err != nil {
		log.Fatal(err)
	}
}

// addTool registers the tool and wraps its handler so every call lands in
// the metrics recorder.
func addTool[T any](server *mcp.Server, registry *[]toolInfo, cfg ServerConfig, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	*registry = append(*registry, toolInfo{Name: tool.Name, Description: tool.Description})
	wrapped := func(ctx context.Context, req *mcp.CallToolRequest, args T) (*mcp.CallToolResult, any, error) {
		res, out, err := handler(ctx, req, args)
		callErr := err
		if callErr == nil && res != nil && res.IsError {
			callErr = errToolFailed
		}
		cfg.Metrics.RecordToolCall(tool.Name, callErr)
		return res, out, err
	}
	mcp.AddTool(server, tool, wrapped)
}

var errToolFailed = errors.New("tool call failed")

func marshalTool(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSONBytes(b), nil, nil
}

func toolJSONBytes(res []byte) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: "error: " + err.Error()},
		},
	}
}
