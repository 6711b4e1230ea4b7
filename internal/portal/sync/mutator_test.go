package sync

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/aiwis-cl/portal-core/internal/common/cnst"
	"github.com/aiwis-cl/portal-core/internal/portal/cloud"
	"github.com/aiwis-cl/portal-core/internal/portal/model"
	"github.com/aiwis-cl/portal-core/internal/portal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAddColumnSetsEmptyValueOnEveryRecord(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.AlterTable(ctx, cnst.BrowseProjects, AlterAddColumn, "priority"))

	for _, row := range e.TableData(cnst.BrowseProjects) {
		val, ok := row["priority"]
		require.True(t, ok)
		assert.Equal(t, "", val)
	}
}

func TestAddColumnDoesNotOverwriteExistingValue(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	p := e.Projects(ctx)[0]
	p.Extra = map[string]any{"priority": "alta"}
	require.NoError(t, e.UpdateProject(ctx, p))
	require.NoError(t, e.AddProject(ctx, model.Project{ID: "p2", Name: "Sin prioridad"}))

	require.NoError(t, e.AlterTable(ctx, cnst.BrowseProjects, AlterAddColumn, "priority"))

	rows := e.TableData(cnst.BrowseProjects)
	require.Len(t, rows, 2)
	assert.Equal(t, "alta", rows[0]["priority"])
	assert.Equal(t, "", rows[1]["priority"])
}

func TestDropColumnRemovesField(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.AlterTable(ctx, cnst.BrowseUsers, AlterAddColumn, "badge"))
	require.NoError(t, e.AlterTable(ctx, cnst.BrowseUsers, AlterDropColumn, "badge"))

	for _, row := range e.TableData(cnst.BrowseUsers) {
		_, ok := row["badge"]
		assert.False(t, ok)
	}
}

func TestDropColumnRemovesDeclaredField(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.AlterTable(ctx, cnst.BrowseUsers, AlterDropColumn, "email"))

	for _, row := range e.TableData(cnst.BrowseUsers) {
		_, ok := row["email"]
		assert.False(t, ok, "declared column must not resurface as a zero value")
	}
}

func TestDroppedDeclaredColumnStaysDroppedAfterRestart(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	e1, err := NewEngine(ctx, zap.NewNop(), store, cloud.NewBridge(zap.NewNop()), nil)
	require.NoError(t, err)
	require.NoError(t, e1.AlterTable(ctx, cnst.BrowseUsers, AlterDropColumn, "email"))

	e2, err := NewEngine(ctx, zap.NewNop(), store, cloud.NewBridge(zap.NewNop()), nil)
	require.NoError(t, err)
	for _, row := range e2.TableData(cnst.BrowseUsers) {
		_, ok := row["email"]
		assert.False(t, ok)
	}

	// Adding the column back re-declares it, empty
	require.NoError(t, e2.AlterTable(ctx, cnst.BrowseUsers, AlterAddColumn, "email"))
	for _, row := range e2.TableData(cnst.BrowseUsers) {
		assert.Equal(t, "", row["email"])
	}
}

func TestDropThenAddEndsWithEmptyField(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	// Drop of a field that never existed, then add: final state has the
	// field present and empty regardless of the intermediate order
	require.NoError(t, e.AlterTable(ctx, cnst.BrowseGems, AlterDropColumn, "rating"))
	require.NoError(t, e.AlterTable(ctx, cnst.BrowseGems, AlterAddColumn, "rating"))

	for _, row := range e.TableData(cnst.BrowseGems) {
		assert.Equal(t, "", row["rating"])
	}
}

func TestAddedColumnSurvivesRestart(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	e1, err := NewEngine(ctx, zap.NewNop(), store, cloud.NewBridge(zap.NewNop()), nil)
	require.NoError(t, err)
	require.NoError(t, e1.AlterTable(ctx, cnst.BrowseTools, AlterAddColumn, "owner"))

	e2, err := NewEngine(ctx, zap.NewNop(), store, cloud.NewBridge(zap.NewNop()), nil)
	require.NoError(t, err)
	for _, row := range e2.TableData(cnst.BrowseTools) {
		val, ok := row["owner"]
		require.True(t, ok)
		assert.Equal(t, "", val)
	}
}

func TestAlterTableUnknownTableIsSilentNoOp(t *testing.T) {
	proxy := newFakeProxy()
	ts := httptest.NewServer(proxy.handler())
	defer ts.Close()

	e := newCloudEngine(t, ts.URL)
	before := len(proxy.queries)

	require.NoError(t, e.AlterTable(context.Background(), "INVOICES", AlterAddColumn, "total"))

	// No local change, no persist, and no remote migration
	assert.Nil(t, e.TableData("INVOICES"))
	assert.Equal(t, before, len(proxy.queries))
}

func TestAlterTableTriggersFullMigrationWhenActive(t *testing.T) {
	proxy := newFakeProxy()
	ts := httptest.NewServer(proxy.handler())
	defer ts.Close()

	e := newCloudEngine(t, ts.URL)
	require.NoError(t, e.AlterTable(context.Background(), cnst.BrowseProjects, AlterAddColumn, "priority"))

	// The remote side is restored by full overwrite, not incremental patch
	content := proxy.tables[cnst.TableProjects]["PROYECTO_001"]
	assert.Contains(t, content, `"priority"`)
	assert.Len(t, proxy.tables[cnst.TableUsers], 3)
}

func TestTableDataUnknownTable(t *testing.T) {
	e, _ := newTestEngine(t)
	assert.Nil(t, e.TableData("GHOSTS"))
}
