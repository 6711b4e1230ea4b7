package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/aiwis-cl/portal-core/internal/common/cnst"
	"github.com/aiwis-cl/portal-core/internal/portal/model"
)

// Bridge sends parameterized commands to the configured proxy endpoint and
// returns rows. The endpoint is an opaque HTTP proxy fronting the backing
// database; the bridge never holds a driver-level connection.
type Bridge struct {
	logger *zap.Logger
	client *http.Client
}

// NewBridge creates a new remote bridge
func NewBridge(logger *zap.Logger) *Bridge {
	return &Bridge{
		logger: logger.Named("portal.cloud"),
		// No timeout: a hang on the remote endpoint hangs that one
		// operation only, matching the caller-suspension model.
		client: &http.Client{},
	}
}

// Row is one result row as returned by the proxy.
type Row struct {
	raw gjson.Result
}

// Content returns the content column as raw JSON, tolerating both
// object-typed columns (postgres jsonb) and string-typed ones (mysql JSON
// returned as text).
func (r Row) Content() json.RawMessage {
	content := r.raw.Get("content")
	if !content.Exists() {
		return json.RawMessage(r.raw.Raw)
	}
	if content.Type == gjson.String {
		return json.RawMessage(content.String())
	}
	return json.RawMessage(content.Raw)
}

// Get reads an arbitrary column off the row.
func (r Row) Get(column string) gjson.Result {
	return r.raw.Get(column)
}

// MarshalJSON renders the row exactly as the proxy returned it.
func (r Row) MarshalJSON() ([]byte, error) {
	if r.raw.Raw == "" {
		return []byte("null"), nil
	}
	return []byte(r.raw.Raw), nil
}

type executeRequest struct {
	Query  string                `json:"query"`
	Params []any                 `json:"params"`
	Config model.CloudSyncConfig `json:"config"`
}

// Execute posts {query, params, config} to the proxy and returns the rows
// from the response data array. Returns ErrRemoteUnavailable when no proxy
// url is configured and *RemoteError on any other failure.
func (b *Bridge) Execute(ctx context.Context, cfg *model.CloudSyncConfig, query string, params []any) ([]Row, error) {
	if cfg.ProxyURL == "" {
		return nil, ErrRemoteUnavailable
	}
	if params == nil {
		params = []any{}
	}

	body, err := json.Marshal(executeRequest{Query: query, Params: params, Config: *cfg})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.ProxyURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, &RemoteError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteError{Message: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(respBody, "error").String()
		if msg == "" {
			msg = string(respBody)
		}
		return nil, &RemoteError{Message: msg}
	}

	data := gjson.GetBytes(respBody, "data")
	var rows []Row
	for _, r := range data.Array() {
		rows = append(rows, Row{raw: r})
	}
	b.logger.Debug("executed remote command",
		zap.String("query", query),
		zap.Int("rows", len(rows)))
	return rows, nil
}

// InitializeSchema issues one idempotent create-table command per remote
// table, each shaped (id PRIMARY KEY, content json-blob). Safe to call
// repeatedly.
func (b *Bridge) InitializeSchema(ctx context.Context, cfg *model.CloudSyncConfig) error {
	contentType := "JSON"
	if cfg.Provider == "postgres" {
		contentType = "JSONB"
	}

	for _, table := range cnst.RemoteTables {
		query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (id VARCHAR(255) PRIMARY KEY, content %s);", table, contentType)
		if _, err := b.Execute(ctx, cfg, query, nil); err != nil {
			return err
		}
	}
	return nil
}

// Upsert inserts or replaces one row keyed by id, the whole item serialized
// into the content column.
func (b *Bridge) Upsert(ctx context.Context, cfg *model.CloudSyncConfig, table, id string, content []byte) error {
	query := fmt.Sprintf("INSERT INTO %s (id, content) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET content = $2", table)
	_, err := b.Execute(ctx, cfg, query, []any{id, string(content)})
	return err
}

// Delete removes one row by id.
func (b *Bridge) Delete(ctx context.Context, cfg *model.CloudSyncConfig, table, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", table)
	_, err := b.Execute(ctx, cfg, query, []any{id})
	return err
}
