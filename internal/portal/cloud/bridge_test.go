package cloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aiwis-cl/portal-core/internal/portal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func activeConfig(url string) *model.CloudSyncConfig {
	return &model.CloudSyncConfig{
		ConnectionName: "aiwis:us-central1:portal",
		DBName:         "portal",
		DBUser:         "portal_app",
		ProxyURL:       url,
		Provider:       "postgres",
		IsActive:       true,
	}
}

func TestExecuteNoProxyURL(t *testing.T) {
	b := NewBridge(zap.NewNop())
	cfg := activeConfig("")

	_, err := b.Execute(context.Background(), cfg, "SELECT 1", nil)
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestExecuteSendsQueryParamsAndConfig(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer ts.Close()

	b := NewBridge(zap.NewNop())
	cfg := activeConfig(ts.URL)
	_, err := b.Execute(context.Background(), cfg, "SELECT 1", []any{"a", 2})
	assert.NoError(t, err)

	assert.Equal(t, "SELECT 1", got["query"])
	assert.Equal(t, []any{"a", float64(2)}, got["params"])
	config := got["config"].(map[string]any)
	assert.Equal(t, "portal", config["dbName"])
	assert.Equal(t, true, config["isActive"])
}

func TestExecuteRemoteErrorMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"relation app_users does not exist"}`))
	}))
	defer ts.Close()

	b := NewBridge(zap.NewNop())
	_, err := b.Execute(context.Background(), activeConfig(ts.URL), "SELECT content FROM app_users", nil)

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "relation app_users does not exist", remoteErr.Message)
}

func TestExecuteTransportFailure(t *testing.T) {
	b := NewBridge(zap.NewNop())
	// Nothing listens here
	_, err := b.Execute(context.Background(), activeConfig("http://127.0.0.1:1"), "SELECT 1", nil)

	var remoteErr *RemoteError
	assert.ErrorAs(t, err, &remoteErr)
}

func TestRowContentObjectAndString(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"content":{"id":"u1"}},{"content":"{\"id\":\"u2\"}"}]}`))
	}))
	defer ts.Close()

	b := NewBridge(zap.NewNop())
	rows, err := b.Execute(context.Background(), activeConfig(ts.URL), "SELECT content FROM app_users", nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	var u1, u2 struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rows[0].Content(), &u1))
	require.NoError(t, json.Unmarshal(rows[1].Content(), &u2))
	assert.Equal(t, "u1", u1.ID)
	assert.Equal(t, "u2", u2.ID)
}

func TestInitializeSchemaIssuesOneCommandPerTable(t *testing.T) {
	var queries []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		queries = append(queries, body["query"].(string))
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer ts.Close()

	b := NewBridge(zap.NewNop())
	cfg := activeConfig(ts.URL)
	require.NoError(t, b.InitializeSchema(context.Background(), cfg))

	assert.Len(t, queries, 7)
	assert.Contains(t, queries[0], "CREATE TABLE IF NOT EXISTS app_users")
	assert.Contains(t, queries[0], "JSONB")

	// mysql providers get the plain JSON column type
	queries = nil
	cfg.Provider = "mysql"
	require.NoError(t, b.InitializeSchema(context.Background(), cfg))
	assert.Contains(t, queries[0], "content JSON)")
}
