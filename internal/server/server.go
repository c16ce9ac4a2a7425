// internal/server/server.go
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"matching-engine/internal/common/logger"
	"matching-engine/internal/matching"
	"matching-engine/internal/models"
)

// MatchRunner is the engine surface the HTTP layer depends on.
type MatchRunner interface {
	Run(ctx context.Context, criteria models.MatchingCriteria) (*matching.Result, error)
}

type matchRequest struct {
	Criteria models.MatchingCriteria `json:"criteria"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Server exposes the matching pipeline over HTTP alongside health and
// metrics endpoints.
type Server struct {
	engine MatchRunner
	logger logger.Logger
}

func New(engine MatchRunner, log logger.Logger) *Server {
	return &Server{
		engine: engine,
		logger: log.WithFields(map[string]interface{}{"component": "http"}),
	}
}

// Router builds the gin router. Mounted separately from New so tests can
// drive it with httptest.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/api/v1/match", s.handleMatch)

	return r
}

func (s *Server) handleMatch(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Success: false, Error: "invalid request body"})
		return
	}

	result, err := s.engine.Run(c.Request.Context(), req.Criteria)
	if err != nil {
		// Only a candidate-load failure reaches here; the caller may treat
		// it as "matching deferred" and retry the whole invocation.
		s.logger.Error("matching run failed", map[string]interface{}{
			"requestId": req.Criteria.RequestID,
			"error":     err,
		})
		c.JSON(http.StatusInternalServerError, errorResponse{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
