package sync

import (
	"context"
	"encoding/json"

	"github.com/aiwis-cl/portal-core/internal/common/cnst"
	"github.com/aiwis-cl/portal-core/internal/portal/model"
)

// AlterAction selects the schema mutation to apply.
type AlterAction string

const (
	AlterAddColumn  AlterAction = "ADD_COLUMN"
	AlterDropColumn AlterAction = "DROP_COLUMN"
)

// AlterTable applies a uniform field add or drop across every record of a
// browsable collection. There is no declared schema: a collection's shape
// is the union of whatever fields its records carry, so adding a column
// just sets an empty value on records that lack the field and dropping
// removes it where present. An unknown table name is a silent no-op.
//
// Remote consistency is restored by a full migration rather than an
// incremental patch: the remote side has no ALTER concept over the blob
// tables. Expensive, but schema changes are rare administrative actions.
func (e *Engine) AlterTable(ctx context.Context, table string, act AlterAction, field string) error {
	e.mu.Lock()
	switch table {
	case cnst.BrowseUsers:
		e.users = alterRecords(e.users, act, field)
	case cnst.BrowseProjects:
		e.projects = alterRecords(e.projects, act, field)
	case cnst.BrowseGems:
		e.gems = alterRecords(e.gems, act, field)
	case cnst.BrowseTools:
		e.tools = alterRecords(e.tools, act, field)
	default:
		e.mu.Unlock()
		return nil
	}
	cfg := e.cloudConfig
	err := e.persistLocalLocked(ctx)
	e.mu.Unlock()
	if err != nil {
		return err
	}

	if cfg.IsActive {
		return e.MigrateLocalToCloud(ctx)
	}
	return nil
}

// alterRecords rewrites each record through its map form so the change
// lands uniformly on declared fields and runtime extras alike. Adding never
// overwrites a field a record already has.
func alterRecords[T model.Keyed](list []T, act AlterAction, field string) []T {
	out := make([]T, len(list))
	for i, item := range list {
		m, err := recordToMap(item)
		if err != nil {
			out[i] = item
			continue
		}
		switch act {
		case AlterAddColumn:
			if _, ok := m[field]; !ok {
				m[field] = ""
			}
		case AlterDropColumn:
			delete(m, field)
		}
		rec, err := recordFromMap[T](m)
		if err != nil {
			out[i] = item
			continue
		}
		out[i] = rec
	}
	return out
}

func recordToMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func recordFromMap[T any](m map[string]any) (T, error) {
	var out T
	data, err := json.Marshal(m)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(data, &out)
	return out, err
}

// TableData exposes a browsable collection as raw records for the admin
// data browser, which derives its displayed columns from the first
// record's keys. Unknown tables return nil.
func (e *Engine) TableData(table string) []map[string]any {
	e.mu.RLock()
	defer e.mu.RUnlock()

	switch table {
	case cnst.BrowseUsers:
		return recordsToMaps(e.users)
	case cnst.BrowseProjects:
		return recordsToMaps(e.projects)
	case cnst.BrowseGems:
		return recordsToMaps(e.gems)
	case cnst.BrowseTools:
		return recordsToMaps(e.tools)
	default:
		return nil
	}
}

func recordsToMaps[T any](list []T) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		m, err := recordToMap(item)
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	return out
}
