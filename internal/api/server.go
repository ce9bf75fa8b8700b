package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ciefp/subgrab/internal/aggregator"
	"github.com/ciefp/subgrab/internal/config"
	"github.com/ciefp/subgrab/internal/downloader"
)

// Server is the REST facade over the aggregated search and the downloader.
type Server struct {
	router     *gin.Engine
	aggregator *aggregator.Aggregator
	downloader *downloader.Downloader
	cfg        func() *config.Config
}

// NewServer wires the routes and middleware.
func NewServer(agg *aggregator.Aggregator, dl *downloader.Downloader, cfg func() *config.Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:     gin.New(),
		aggregator: agg,
		downloader: dl,
		cfg:        cfg,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())

	s.router.Use(func(c *gin.Context) {
		c.Next()
		logger := config.GetLogger()
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("API request")
	})
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.healthz)

	v1 := s.router.Group("/api/v1")
	v1.GET("/search", s.search)
	v1.POST("/download", s.download)
}

// Handler returns the HTTP handler for mounting in an http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
