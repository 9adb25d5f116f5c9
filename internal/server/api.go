package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/vesaa/storagepulse/internal/catalog"
	"github.com/vesaa/storagepulse/internal/dashboard"
	"github.com/vesaa/storagepulse/internal/metrics"
	"github.com/vesaa/storagepulse/internal/models"
)

// RegisterAPIRoutes wires up the JSON API.
//
//	GET /api/devices                       mock devices, fresh metrics per call
//	GET /api/devices/:id                   one mock device
//	GET /api/health
//	GET /api/dashboard?sort=<key>&dir=<asc|desc>
//	GET /api/dashboard/devices/:id
//	GET /api/dashboard/insights/:table
func (s *Server) RegisterAPIRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})
	api.GET("/devices", s.handleDevices)
	api.GET("/devices/:id", s.handleDevice)

	dash := api.Group("/dashboard")
	{
		dash.GET("", s.handleDashboard)
		dash.GET("/devices/:id", s.handleDeviceDetail)
		dash.GET("/insights/:table", s.handleInsights)
	}
}

// handleDevices returns every catalog template merged with random metrics.
func (s *Server) handleDevices(c *gin.Context) {
	templates, err := s.catalog.List(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("listing templates")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	devices := s.generator.Generate(templates)
	metrics.DevicesGenerated.Add(float64(len(devices)))
	c.JSON(http.StatusOK, devices)
}

// handleDevice returns a single template merged with random metrics.
func (s *Server) handleDevice(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	t, err := s.catalog.Get(c.Request.Context(), uint(id))
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Error().Err(err).Uint64("id", id).Msg("loading template")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	devices := s.generator.Generate([]models.DeviceTemplate{*t})
	metrics.DevicesGenerated.Add(float64(len(devices)))
	c.JSON(http.StatusOK, devices[0])
}

// handleDashboard returns the sorted device list with averages.
func (s *Server) handleDashboard(c *gin.Context) {
	snap, ok := s.snapshots.Snapshot()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"loading": true})
		return
	}
	cfg, err := s.sortFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := dashboard.BuildView(snap.Devices, cfg, snap.FetchedAt)
	if errors.Is(err, dashboard.ErrNoDevices) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"loading": true})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// handleDeviceDetail returns one device compared against the fleet.
func (s *Server) handleDeviceDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	snap, ok := s.snapshots.Snapshot()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"loading": true})
		return
	}
	d, found := dashboard.Find(snap.Devices, uint(id))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}
	avg, err := dashboard.ComputeAverages(snap.Devices)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dashboard.Detail(d, avg))
}

// handleInsights returns per-metric averages for one table.
func (s *Server) handleInsights(c *gin.Context) {
	table, err := dashboard.ParseTable(c.Param("table"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	snap, ok := s.snapshots.Snapshot()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"loading": true})
		return
	}
	insights, err := dashboard.Insights(table, snap.Devices)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"table": table, "data": insights})
}

// sortFromQuery reads ?sort= and ?dir=, falling back to the default sort.
func (s *Server) sortFromQuery(c *gin.Context) (models.SortConfig, error) {
	cfg := s.defaultSort
	if key := c.Query("sort"); key != "" {
		if !dashboard.KnownKey(key) {
			return cfg, errors.New("unknown sort key " + strconv.Quote(key))
		}
		cfg.Key = key
	}
	switch dir := c.Query("dir"); dir {
	case "":
	case string(models.SortAsc), string(models.SortDesc):
		cfg.Direction = models.SortDirection(dir)
	default:
		return cfg, errors.New("dir must be asc or desc")
	}
	return cfg, nil
}
