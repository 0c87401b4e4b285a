package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tedgershon/SafePlate/config"
	"github.com/tedgershon/SafePlate/internal/router"
	"github.com/tedgershon/SafePlate/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	agent := service.NewAgentClient(service.AgentConfig{
		Endpoint: cfg.AgentEndpoint,
		APIKey:   cfg.AgentAPIKey,
		UserID:   cfg.AgentUserID,
		Simulate: cfg.SimulateAgents,
	})

	engine := router.SetupRouter(db, agent, redisClient)

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:    ":" + cfg.ServerPort,
			Handler: engine,
		},
	}
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
