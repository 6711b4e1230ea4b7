package proxy

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/aiwis-cl/portal-core/internal/common/config"
	"github.com/aiwis-cl/portal-core/internal/portal/model"
)

// Executor terminates the portal's proxy wire protocol: it receives
// {query, params, config} envelopes and runs them against the database
// the envelope's config selects. Connections are pooled per target so
// repeated calls for the same database reuse one gorm handle.
type Executor struct {
	logger    *zap.Logger
	providers map[string]config.ProviderConfig

	mu    sync.Mutex
	conns map[string]*gorm.DB // keyed by provider + dsn
}

func NewExecutor(logger *zap.Logger, providers map[string]config.ProviderConfig) *Executor {
	return &Executor{
		logger:    logger.Named("proxy.executor"),
		providers: providers,
		conns:     make(map[string]*gorm.DB),
	}
}

type executeRequest struct {
	Query  string                `json:"query" binding:"required"`
	Params []any                 `json:"params"`
	Config model.CloudSyncConfig `json:"config"`
}

// Handler returns the gin handler implementing the proxy endpoint.
// Failures are reported as a JSON error body so the portal side can
// relay the database's own message to the administrator.
func (e *Executor) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req executeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		rows, err := e.Execute(req.Query, req.Params, req.Config)
		if err != nil {
			e.logger.Warn("query failed",
				zap.String("provider", req.Config.Provider),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": rows})
	}
}

// Execute runs one statement. Statements that produce rows are scanned
// into generic maps; everything else is executed for effect and yields
// an empty data array.
func (e *Executor) Execute(query string, params []any, cfg model.CloudSyncConfig) ([]map[string]any, error) {
	db, err := e.connect(cfg)
	if err != nil {
		return nil, err
	}

	query, params = rewritePlaceholders(query, params, cfg.Provider)

	if returnsRows(query) {
		rows := make([]map[string]any, 0)
		if err := db.Raw(query, params...).Scan(&rows).Error; err != nil {
			return nil, err
		}
		return rows, nil
	}

	if err := db.Exec(query, params...).Error; err != nil {
		return nil, err
	}
	return []map[string]any{}, nil
}

func (e *Executor) connect(cfg model.CloudSyncConfig) (*gorm.DB, error) {
	provider, ok := e.providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %q", cfg.Provider)
	}

	var dialector gorm.Dialector
	var dsn string
	switch cfg.Provider {
	case "postgres":
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
			provider.Host, cfg.DBUser, provider.Password, cfg.DBName, provider.Port)
		dialector = postgres.Open(dsn)
	case "mysql":
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, provider.Password, provider.Host, provider.Port, cfg.DBName)
		dialector = mysql.Open(dsn)
	case "sqlite":
		dsn = provider.Path
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported provider: %q", cfg.Provider)
	}

	key := cfg.Provider + "|" + dsn
	e.mu.Lock()
	defer e.mu.Unlock()
	if db, ok := e.conns[key]; ok {
		return db, nil
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Provider, err)
	}
	e.logger.Info("opened database connection",
		zap.String("provider", cfg.Provider),
		zap.String("db", cfg.DBName))
	e.conns[key] = db
	return db, nil
}

// rewritePlaceholders converts the wire protocol's $n placeholders to the
// ? style mysql and sqlite expect, remapping the parameter list so repeated
// or out-of-order references still bind correctly. Postgres takes $n
// natively and is left alone.
func rewritePlaceholders(query string, params []any, provider string) (string, []any) {
	if provider == "postgres" {
		return query, params
	}
	var b strings.Builder
	b.Grow(len(query))
	out := make([]any, 0, len(params))
	for i := 0; i < len(query); i++ {
		if query[i] == '$' && i+1 < len(query) && isDigit(query[i+1]) {
			j := i + 1
			for j < len(query) && isDigit(query[j]) {
				j++
			}
			if n, err := strconv.Atoi(query[i+1 : j]); err == nil && n >= 1 && n <= len(params) {
				b.WriteByte('?')
				out = append(out, params[n-1])
				i = j - 1
				continue
			}
		}
		b.WriteByte(query[i])
	}
	return b.String(), out
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func returnsRows(query string) bool {
	head := strings.ToUpper(strings.TrimSpace(query))
	for _, prefix := range []string{"SELECT", "WITH", "SHOW", "EXPLAIN", "PRAGMA"} {
		if strings.HasPrefix(head, prefix) {
			return true
		}
	}
	return false
}
