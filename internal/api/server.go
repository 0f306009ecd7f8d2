// Package api serves the read-only snapshot API.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonesrussell/newsbrief/internal/logger"
	"github.com/jonesrussell/newsbrief/internal/metrics"
	"github.com/jonesrussell/newsbrief/internal/snapshot"
	"github.com/jonesrussell/newsbrief/internal/store"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server exposes persisted snapshots over HTTP.
type Server struct {
	engine *gin.Engine
	store  *store.FileStore
	log    logger.Interface
}

// NewServer wires the routes. The metrics handle may be nil, in which case
// /metrics is not registered.
func NewServer(st *store.FileStore, m *metrics.Metrics, log logger.Interface) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine: engine,
		store:  st,
		log:    log,
	}

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/api/v1/dates", s.handleDates)
	engine.GET("/api/v1/snapshots/:date", s.handleSnapshot)

	if m != nil {
		engine.GET("/metrics", gin.WrapH(
			promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}),
		))
	}

	return s
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		s.log.Info("read api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleDates(c *gin.Context) {
	dates, err := s.store.Dates()
	if err != nil {
		s.log.Error("list dates failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list dates"})
		return
	}

	if dates == nil {
		dates = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"dates": dates})
}

func (s *Server) handleSnapshot(c *gin.Context) {
	date := c.Param("date")
	if !snapshot.ValidDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	articles, err := s.store.LoadExisting(c.Request.Context(), date)
	if err != nil {
		s.log.Error("load snapshot failed", "date", date, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load snapshot"})
		return
	}

	if articles == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot for date"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": date, "articles": articles})
}
