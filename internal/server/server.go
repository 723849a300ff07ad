package server

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/haeun/fitcoach-go/internal/config"
	"go.uber.org/zap"
)

// Server wires the gin engine, middleware, and routes.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

func New(cfg config.HTTPConfig, handler *Handler, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(logger))
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/v1")
	v1.Use(AuthMiddleware(cfg.JWTSecret, logger))
	{
		v1.POST("/plan/generate", handler.GeneratePlan)
		v1.POST("/plan/comments", handler.CoachComments)

		v1.POST("/sessions", handler.CreateSession)
		v1.GET("/sessions/:id", handler.GetSession)
		v1.POST("/sessions/:id/sets", handler.LogSet)
		v1.POST("/sessions/:id/complete", handler.CompleteSession)
		v1.POST("/sessions/:id/feedback", handler.SessionFeedback)

		v1.PUT("/onboarding", handler.SaveOnboarding)
		v1.GET("/onboarding", handler.GetOnboarding)
		v1.GET("/onboarding/status", handler.OnboardingStatus)
		v1.DELETE("/onboarding", handler.DeleteOnboarding)

		v1.GET("/me", handler.Me)
	}

	return &Server{
		engine: engine,
		http:   &http.Server{Addr: cfg.Addr, Handler: engine},
		logger: logger,
	}
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
