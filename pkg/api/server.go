// Package api provides the orchestrator's HTTP surface: select/explore/guess
// plus read-only session views, built on echo v5.
package api

import (
	"context"
	"net"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/icfp25/aedificium/pkg/database"
	"github.com/icfp25/aedificium/pkg/orchestrator"
	"github.com/icfp25/aedificium/pkg/version"
)

// Server is the orchestrator's HTTP API server.
type Server struct {
	echo       *echo.Echo
	httpServer *http.Server
	dbClient   *database.Client
	svc        *orchestrator.Service
}

// NewServer creates a new API server with echo v5, wiring every route
// defined in setupRoutes.
func NewServer(dbClient *database.Client, svc *orchestrator.Service) *Server {
	e := echo.New()
	e.Use(middleware.BodyLimit(2 * 1024 * 1024))
	e.Use(securityHeaders())

	s := &Server{echo: e, dbClient: dbClient, svc: svc}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthHandler)

	v1 := s.echo.Group("/api")
	v1.POST("/select", s.selectHandler)
	v1.POST("/explore", s.exploreHandler)
	v1.POST("/guess", s.guessHandler)

	v1.GET("/sessions", s.listSessionsHandler)
	v1.GET("/sessions/current", s.currentSessionHandler)
	v1.GET("/sessions/:id", s.getSessionHandler)
	v1.GET("/sessions/:id/export", s.exportSessionHandler)
	v1.PUT("/sessions/:id/abort", s.abortSessionHandler)
}

// Start starts the HTTP server on addr (blocking).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.echo}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener, used
// by test infrastructure to serve on a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.echo}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) healthHandler(c *echo.Context) error {
	reqCtx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	dbHealth, err := database.Health(reqCtx, s.dbClient.DB())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, &HealthResponse{
			Status:   "unhealthy",
			Version:  version.Full(),
			Database: dbHealth,
		})
	}
	return c.JSON(http.StatusOK, &HealthResponse{
		Status:   "healthy",
		Version:  version.Full(),
		Database: dbHealth,
	})
}
