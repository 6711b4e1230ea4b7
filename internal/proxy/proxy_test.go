package proxy

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/aiwis-cl/portal-core/internal/common/config"
	"github.com/aiwis-cl/portal-core/internal/portal/model"
)

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	return NewExecutor(zap.NewNop(), map[string]config.ProviderConfig{
		"sqlite": {Path: filepath.Join(t.TempDir(), "portal.db")},
	})
}

func sqliteConfig() model.CloudSyncConfig {
	return model.CloudSyncConfig{Provider: "sqlite", DBName: "portal"}
}

func TestExecuteCreateInsertSelect(t *testing.T) {
	e := newTestExecutor(t)
	cfg := sqliteConfig()

	_, err := e.Execute(`CREATE TABLE IF NOT EXISTS app_gems (id VARCHAR(255) PRIMARY KEY, content JSON)`, nil, cfg)
	require.NoError(t, err)

	_, err = e.Execute(
		`INSERT INTO app_gems (id, content) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET content = $2`,
		[]any{"g1", `{"id":"g1","name":"COTIZACIONES"}`}, cfg)
	require.NoError(t, err)

	rows, err := e.Execute(`SELECT content FROM app_gems`, nil, cfg)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0]["content"], "COTIZACIONES")
}

func TestExecuteUpsertOverwrites(t *testing.T) {
	e := newTestExecutor(t)
	cfg := sqliteConfig()

	_, err := e.Execute(`CREATE TABLE app_tools (id VARCHAR(255) PRIMARY KEY, content JSON)`, nil, cfg)
	require.NoError(t, err)

	upsert := `INSERT INTO app_tools (id, content) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET content = $2`
	_, err = e.Execute(upsert, []any{"t1", `{"name":"old"}`}, cfg)
	require.NoError(t, err)
	_, err = e.Execute(upsert, []any{"t1", `{"name":"new"}`}, cfg)
	require.NoError(t, err)

	rows, err := e.Execute(`SELECT content FROM app_tools WHERE id = $1`, []any{"t1"}, cfg)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0]["content"], "new")
}

func TestExecuteErrors(t *testing.T) {
	e := newTestExecutor(t)

	_, err := e.Execute(`SELECT 1`, nil, model.CloudSyncConfig{Provider: "oracle"})
	assert.ErrorContains(t, err, "unknown provider")

	_, err = e.Execute(`SELECT * FROM missing_table`, nil, sqliteConfig())
	assert.Error(t, err)
}

func TestHandlerWireFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := newTestExecutor(t)
	r := gin.New()
	r.POST("/", e.Handler())

	post := func(body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
		req := httptest.NewRequest(http.MethodPost, "/", &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post(map[string]any{
		"query":  `CREATE TABLE app_users (id VARCHAR(255) PRIMARY KEY, content JSON)`,
		"config": sqliteConfig(),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = post(map[string]any{
		"query":  `INSERT INTO app_users (id, content) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET content = $2`,
		"params": []any{"u1", `{"id":"u1"}`},
		"config": sqliteConfig(),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = post(map[string]any{
		"query":  `SELECT content FROM app_users`,
		"config": sqliteConfig(),
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), gjson.Get(w.Body.String(), "data.#").Int())

	// errors travel in the body, as the portal expects
	w = post(map[string]any{
		"query":  `SELECT * FROM nope`,
		"config": sqliteConfig(),
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, gjson.Get(w.Body.String(), "error").String())

	w = post(map[string]any{"config": sqliteConfig()})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRewritePlaceholders(t *testing.T) {
	q, p := rewritePlaceholders("SELECT * FROM t WHERE id = $1 AND n = $2", []any{"a", 2}, "sqlite")
	assert.Equal(t, "SELECT * FROM t WHERE id = ? AND n = ?", q)
	assert.Equal(t, []any{"a", 2}, p)

	// repeated placeholder duplicates its parameter
	q, p = rewritePlaceholders("UPDATE t SET a = $2 WHERE id = $1 OR alt = $2", []any{"id", "v"}, "sqlite")
	assert.Equal(t, "UPDATE t SET a = ? WHERE id = ? OR alt = ?", q)
	assert.Equal(t, []any{"v", "id", "v"}, p)

	q, p = rewritePlaceholders("SELECT * FROM t WHERE id = $1", []any{"a"}, "postgres")
	assert.Equal(t, "SELECT * FROM t WHERE id = $1", q)
	assert.Equal(t, []any{"a"}, p)

	q, _ = rewritePlaceholders("SELECT '$' FROM t", nil, "sqlite")
	assert.Equal(t, "SELECT '$' FROM t", q)
}
