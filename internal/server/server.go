package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aiwis-cl/portal-core/internal/portal/sync"
	"github.com/aiwis-cl/portal-core/pkg/metrics"
	"github.com/aiwis-cl/portal-core/pkg/version"
)

// Server exposes the sync engine to the portal UI as a JSON API.
type Server struct {
	logger    *zap.Logger
	engine    *sync.Engine
	metrics   *metrics.Metrics
	jwtSecret []byte
	router    *gin.Engine
}

// New creates the API server and wires all routes.
func New(logger *zap.Logger, engine *sync.Engine, m *metrics.Metrics, jwtSecret string) *Server {
	s := &Server{
		logger:    logger.Named("portal.server"),
		engine:    engine,
		metrics:   m,
		jwtSecret: []byte(jwtSecret),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	if m != nil {
		r.Use(m.GinMiddleware())
		r.GET("/metrics", m.Handler())
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Get()})
	})

	api := r.Group("/api")
	api.POST("/auth/login", s.handleLogin)

	// Collection CRUD consumed by the portal views
	s.registerCollections(api)

	// Administrative and diagnostic routes require an admin token
	admin := api.Group("", s.authRequired(), s.adminOnly())
	{
		admin.PUT("/company-config", s.handleSaveCompanyConfig)
		admin.GET("/cloud-config", s.handleGetCloudConfig)
		admin.PUT("/cloud-config", s.handleSaveCloudConfig)
		admin.POST("/cloud/test-connection", s.handleTestConnection)
		admin.POST("/cloud/init-schema", s.handleInitSchema)
		admin.POST("/cloud/migrate", s.handleMigrate)
		admin.POST("/cloud/execute", s.handleExecuteSQL)
		admin.GET("/database/tables/:table", s.handleTableData)
		admin.POST("/database/tables/:table/columns", s.handleAddColumn)
		admin.DELETE("/database/tables/:table/columns/:field", s.handleDropColumn)
		admin.POST("/admin/reset", s.handleReset)
	}

	api.GET("/company-config", s.handleGetCompanyConfig)

	s.router = r
	return s
}

// Router returns the underlying gin engine, used by tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP listener.
func (s *Server) Run(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.logger.Info("API server listening", zap.String("addr", addr))
	return s.router.Run(addr)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}
