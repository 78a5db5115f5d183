// Package status serves a small operator endpoint reporting liveness and the
// jobs of the worker pool.
package status

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ytget/soundpack/internal/worker"
)

// ShutdownTimeout bounds the graceful shutdown of the server
const ShutdownTimeout = 5 * time.Second

// JobLister lists job snapshots
type JobLister interface {
	Jobs() []worker.Info
}

// SessionCounter counts running sessions
type SessionCounter interface {
	Active() int
}

// Server is the status HTTP server
type Server struct {
	addr   string
	engine *gin.Engine
	log    logrus.FieldLogger
}

type jobsResponse struct {
	Sessions int           `json:"sessions"`
	Jobs     []worker.Info `json:"jobs"`
}

// NewServer creates the server listening on addr
func NewServer(addr string, jobs JobLister, sessions SessionCounter, log logrus.FieldLogger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/jobs", func(c *gin.Context) {
		list := jobs.Jobs()
		if list == nil {
			list = []worker.Info{}
		}
		c.JSON(http.StatusOK, jobsResponse{Sessions: sessions.Active(), Jobs: list})
	})

	return &Server{addr: addr, engine: engine, log: log}
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Status server listening on %s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start),
		}).Debug("Status request")
	}
}
