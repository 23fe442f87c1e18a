package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pkcegen/internal/app/health"
	"pkcegen/internal/app/middleware"
	"pkcegen/pkg/logger"
	"pkcegen/pkg/oauth2"

	"github.com/gin-gonic/gin"
)

// Server is the HTTP transport in front of the OAuth2 manager
type Server struct {
	provider   *Provider
	httpServer *http.Server
	router     *gin.Engine
	logger     logger.Logger
}

func NewServer(provider *Provider) *Server {
	s := &Server{
		provider: provider,
		logger:   provider.Infra.Logger,
	}

	s.setupRoutes()
	s.setupHTTPServer()

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	if s.provider.Config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := s.provider.Config.HTTPServer
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware(s.logger))

	var cacheChecker health.CacheChecker
	if s.provider.Infra.Cache != nil {
		cacheChecker = s.provider.Infra.Cache
	}
	hc := health.NewChecker(cacheChecker, s.provider.Generator, s.logger)

	r.GET("/healthz", hc.Liveness)
	r.GET("/readyz", hc.Readiness)
	r.GET("/metrics", gin.WrapH(s.provider.Infra.MetricsHandler))
	limited := middleware.RateLimitMiddleware(httpCfg.RateLimitRPS, httpCfg.RateLimitBurst)

	r.GET("/pkce", limited, oauth2.CodesHandler(s.provider.Generator))

	handlerConfig := &oauth2.HandlerConfig{
		SecureCookies:  s.provider.Config.AppEnv == "production",
		CookiePath:     "/",
		RequestTimeout: 30 * time.Second,
	}

	auth := r.Group("/auth", limited)
	{
		auth.GET("/:provider", oauth2.AuthHandler(s.provider.OAuth2Manager))
		auth.GET("/:provider/callback", oauth2.CallbackHandler(s.provider.OAuth2Manager, handlerConfig))
	}

	s.router = r
}

func (s *Server) setupHTTPServer() {
	httpCfg := s.provider.Config.HTTPServer
	s.httpServer = &http.Server{
		Addr:         ":" + httpCfg.Port,
		Handler:      s.router,
		ReadTimeout:  httpCfg.ReadTimeout,
		WriteTimeout: httpCfg.WriteTimeout,
	}
}

// Run starts the HTTP server and blocks until it shuts down
func (s *Server) Run() error {
	s.logger.Info(context.Background(), "HTTP server listening",
		logger.Field{Key: "addr", Value: s.httpServer.Addr})

	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "Shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}

	s.logger.Info(ctx, "HTTP server shutdown complete")
	return nil
}
