package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/haeun/fitcoach-go/internal/config"
	"github.com/haeun/fitcoach-go/internal/server"
	"github.com/haeun/fitcoach-go/internal/service/ai"
	"github.com/haeun/fitcoach-go/internal/service/cache"
	"github.com/haeun/fitcoach-go/internal/service/citations"
	"github.com/haeun/fitcoach-go/internal/service/store"
	"github.com/haeun/fitcoach-go/internal/service/trainer"
	"go.uber.org/zap"
)

// Container bundles assembled services for constructing the HTTP server.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	server  *server.Server
	closers []func()
}

// NewServer returns the fully-wired HTTP server.
func (c *Container) NewServer() (*server.Server, error) {
	if c == nil || c.server == nil {
		return nil, fmt.Errorf("server not initialized")
	}
	return c.server, nil
}

// Close releases infrastructure connections in reverse build order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles all infrastructure services. Heavy-weight initialization
// (DB, cache, AI client) happens here so handlers stay focused on request
// logic.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Cache and database
	cacheSvc, err := cache.NewService(ctx, cfg.Redis, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache service: %w", err)
	}
	closers = append(closers, func() {
		_ = cacheSvc.Close()
	})

	postgresSvc, err := store.NewPostgresService(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres service: %w", err)
	}
	closers = append(closers, func() {
		_ = postgresSvc.Close()
	})

	// AI stack
	generator, err := ai.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.Timeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	// Citation pipeline
	literatureHTTP := &http.Client{Timeout: cfg.Literature.RequestTimeout}
	gate := citations.NewGate(cfg.Literature.GateInterval)
	pubmed := citations.NewPubMedClient(cfg.Literature.PubMedBaseURL, cfg.Literature.MaxResults, literatureHTTP, logger)
	semantic := citations.NewSemanticScholarClient(
		cfg.Literature.SemanticScholarBaseURL,
		cfg.Literature.SemanticScholarAPIKey,
		cfg.Literature.MaxResults,
		gate,
		literatureHTTP,
		logger,
	)
	aiSearch := citations.NewAISearcher(generator, logger)
	citationSvc := citations.NewService(pubmed, semantic, aiSearch, generator, cacheSvc, logger)

	// Trainer pipeline
	planBuilder := trainer.NewPlanBuilder(generator, logger)
	trainerSvc := trainer.NewService(citationSvc, planBuilder, postgresSvc, logger)

	handler := server.NewHandler(trainerSvc, postgresSvc, cacheSvc, logger)
	httpServer := server.New(cfg.HTTP, handler, logger)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		server:  httpServer,
		closers: closers,
	}, nil
}
