// Package httpapi exposes route queries and the dataset library over
// HTTP.
package httpapi

import (
	"net/http"
	"os"
	"time"

	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/signalsfoundry/coverage-planner/internal/datastore"
	"github.com/signalsfoundry/coverage-planner/internal/logging"
	"github.com/signalsfoundry/coverage-planner/internal/observability"
)

// Server wires the gin engine, dataset store, metrics and logging
// together. It implements http.Handler and is mounted by
// cmd/coverage-server.
type Server struct {
	store        *datastore.Store
	metrics      *observability.PlannerCollector
	log          logging.Logger
	queryTimeout time.Duration

	engine *gin.Engine
}

// Options for New. Store may be nil, in which case the dataset library
// endpoints respond 503 and only ad-hoc queries work.
type Options struct {
	Store        *datastore.Store
	Metrics      *observability.PlannerCollector
	Log          logging.Logger
	QueryTimeout time.Duration
}

// New builds the HTTP API server.
func New(opts Options) *Server {
	if opts.Log == nil {
		opts.Log = logging.Noop()
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 30 * time.Second
	}

	s := &Server{
		store:        opts.Store,
		metrics:      opts.Metrics,
		log:          opts.Log,
		queryTimeout: opts.QueryTimeout,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestIDMiddleware())
	engine.Use(accessLogMiddleware())

	engine.GET("/healthz", s.handleHealth)
	if s.metrics != nil {
		engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := engine.Group("/api/v1")
	{
		api.POST("/route", s.handleAdHocRoute)
		api.POST("/route/render", s.handleAdHocRender)

		api.POST("/datasets", s.handleCreateDataset)
		api.GET("/datasets", s.handleListDatasets)
		api.GET("/datasets/:id", s.handleGetDataset)
		api.DELETE("/datasets/:id", s.handleDeleteDataset)
		api.POST("/datasets/:id/route", s.handleStoredRoute)
	}

	s.engine = engine
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// requestIDMiddleware assigns each request a UUID, propagates it on the
// request context for logs and spans, and echoes it back to the client.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		ctx := logging.ContextWithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// accessLogMiddleware logs one zerolog line per request.
func accessLogMiddleware() gin.HandlerFunc {
	zlog := zerolog.New(os.Stdout).With().Timestamp().Str("component", "httpapi").Logger()
	return ginlogger.SetLogger(
		ginlogger.WithLogger(func(_ *gin.Context, _ zerolog.Logger) zerolog.Logger {
			return zlog
		}),
	)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
