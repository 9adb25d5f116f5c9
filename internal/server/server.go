// Package server provides the StoragePulse Gin HTTP surface: the mock
// devices endpoint, the dashboard JSON API and the HTML dashboard.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vesaa/storagepulse/internal/dashboard"
	"github.com/vesaa/storagepulse/internal/models"
	"github.com/vesaa/storagepulse/internal/poller"
)

// TemplateStore supplies the device templates for the mock endpoint.
// Get returns catalog.ErrNotFound for an unknown id.
type TemplateStore interface {
	List(ctx context.Context) ([]models.DeviceTemplate, error)
	Get(ctx context.Context, id uint) (*models.DeviceTemplate, error)
}

// MetricsGenerator merges templates with fresh metrics.
type MetricsGenerator interface {
	Generate(templates []models.DeviceTemplate) []models.Device
}

// SnapshotSource is the dashboard's view of the poller.
type SnapshotSource interface {
	Snapshot() (poller.Snapshot, bool)
}

// Server wires handlers to their dependencies.
type Server struct {
	catalog     TemplateStore
	generator   MetricsGenerator
	snapshots   SnapshotSource
	defaultSort models.SortConfig
}

// New creates a Server. A zero defaultSort falls back to deviceScore desc.
func New(catalog TemplateStore, gen MetricsGenerator, snapshots SnapshotSource, defaultSort models.SortConfig) *Server {
	if defaultSort.Key == "" {
		defaultSort = dashboard.DefaultSort
	}
	return &Server{
		catalog:     catalog,
		generator:   gen,
		snapshots:   snapshots,
		defaultSort: defaultSort,
	}
}

// Engine builds the Gin engine with every route mounted.
func (s *Server) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), metricsMiddleware(), corsMiddleware)

	s.RegisterAPIRoutes(r)
	s.RegisterPages(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// corsMiddleware opens the API to any origin so other frontends can poll it.
func corsMiddleware(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}
