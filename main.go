package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/datasure/profiling-agent/internal/agent"
	"github.com/datasure/profiling-agent/internal/agent/classify"
	"github.com/datasure/profiling-agent/internal/agent/clarify"
	"github.com/datasure/profiling-agent/internal/agent/handler"
	"github.com/datasure/profiling-agent/internal/agent/model"
	"github.com/datasure/profiling-agent/internal/agent/repo"
	"github.com/datasure/profiling-agent/internal/core"
	"github.com/datasure/profiling-agent/internal/profiling"
	"github.com/datasure/profiling-agent/internal/server"
	logx "github.com/datasure/profiling-agent/pkg/logger"
	pkgredis "github.com/datasure/profiling-agent/pkg/redis"
)

// AppConfig defines all configurable parameters for the profiling agent,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis    pkgredis.Config
	Database model.DatabaseConfig

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Classifier model.ClassifierModelConfig
	Session    model.SessionConfig
	Turn       model.TurnConfig
	Server     model.ServerConfig
}

func main() {
	ctx := context.Background()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	env := core.ParseEnvironment(cfg.Environment)
	logx.Init(logx.LoggerOpts{Environment: env})

	sessionRepo, cleanup, err := buildSessionRepo(ctx, cfg)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to initialise session store")
	}
	defer cleanup()

	engine, err := profiling.Open(cfg.Database.DSN)
	if err != nil {
		logx.Fatal().Err(err).Str("dsn", cfg.Database.DSN).Msg("Failed to open profiling database")
	}
	defer engine.Close()

	classifier, err := classify.NewGeminiClassifier(ctx, classify.GeminiConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Classifier,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build intent classifier")
	}

	clarifier := clarify.NewEngine(clarify.DefaultRequiredParams())

	registry := handler.NewRegistry()
	registry.Register("nulls", handler.NewNullCount(engine, clarifier))
	registry.Register("distincts", handler.NewDistinctCount(engine, clarifier))

	callTimeout, err := time.ParseDuration(cfg.Turn.CallTimeout)
	if err != nil {
		logx.Fatal().Err(err).Str("value", cfg.Turn.CallTimeout).Msg("Invalid TURN_CALL_TIMEOUT")
	}

	orch := agent.NewOrchestrator(sessionRepo, classifier, registry, clarifier, callTimeout)

	if env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	server.SetupRoutes(router, orch)

	logx.Info().
		Str("addr", cfg.Server.Addr).
		Str("environment", env.String()).
		Str("session_backend", cfg.Session.Backend).
		Msg("Profiling agent listening")
	if err := router.Run(cfg.Server.Addr); err != nil {
		logx.Fatal().Err(err).Msg("HTTP server stopped")
	}
}

// buildSessionRepo selects the session store backend. Redis keeps sessions
// across restarts and instances; memory is enough for a single local process.
func buildSessionRepo(ctx context.Context, cfg AppConfig) (model.SessionRepository, func(), error) {
	ttl, err := time.ParseDuration(cfg.Session.TTL)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Session.Backend {
	case "redis":
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			return nil, nil, err
		}
		return repo.NewRedisSessionRepository(rdb, ttl), func() { _ = rdb.Close() }, nil
	default:
		return repo.NewMemorySessionRepository(), func() {}, nil
	}
}
