package sync

import (
	"context"
	"encoding/json"
	"slices"

	"go.uber.org/zap"

	"github.com/aiwis-cl/portal-core/internal/common/cnst"
	"github.com/aiwis-cl/portal-core/internal/portal/model"
)

type action string

const (
	actionAdd    action = "add"
	actionUpdate action = "update"
	actionDelete action = "delete"
)

// applyChange returns a new list with the change applied. Add appends
// unconditionally; update replaces by id and leaves the list unchanged when
// the id is absent; delete filters by id and is a no-op for unknown ids.
func applyChange[T model.Keyed](list []T, item T, act action) []T {
	switch act {
	case actionDelete:
		out := make([]T, 0, len(list))
		for _, it := range list {
			if it.Key() != item.Key() {
				out = append(out, it)
			}
		}
		return out
	case actionUpdate:
		out := slices.Clone(list)
		for i, it := range out {
			if it.Key() == item.Key() {
				out[i] = item
			}
		}
		return out
	default:
		return append(slices.Clone(list), item)
	}
}

// saveItem applies a change to the in-memory collection, persists locally,
// then mirrors the change to the remote best-effort. The caller only ever
// sees the local persist error; remote failures are logged and swallowed.
func saveItem[T model.Keyed](ctx context.Context, e *Engine, table string, list *[]T, item T, act action) error {
	e.mu.Lock()
	*list = applyChange(*list, item, act)
	cfg := e.cloudConfig
	err := e.persistLocalLocked(ctx)
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.metrics.ObserveSyncOp(table, string(act))

	if remoteActive(&cfg) {
		e.mirror(ctx, &cfg, table, item, act)
	}
	return nil
}

// mirror performs the remote leg of a write. It never fails the caller.
func (e *Engine) mirror(ctx context.Context, cfg *model.CloudSyncConfig, table string, item model.Keyed, act action) {
	var err error
	if act == actionDelete {
		err = e.bridge.Delete(ctx, cfg, table, item.Key())
	} else {
		var content []byte
		if content, err = json.Marshal(item); err == nil {
			err = e.bridge.Upsert(ctx, cfg, table, item.Key(), content)
		}
	}
	if err != nil {
		e.metrics.ObserveCloudFailure(table, string(act))
		e.logger.Error("cloud sync failed",
			zap.String("table", table),
			zap.String("action", string(act)),
			zap.Error(err))
	}
}

// fetchCollection implements read-through: with the remote active the
// remote rows are authoritative; any failure falls back to the local
// collection with a warning. Callers never see a remote failure.
func fetchCollection[T any](ctx context.Context, e *Engine, table string, cfg *model.CloudSyncConfig, local []T) []T {
	if !remoteActive(cfg) {
		return local
	}

	rows, err := e.bridge.Execute(ctx, cfg, "SELECT content FROM "+table, nil)
	if err == nil {
		items := make([]T, 0, len(rows))
		for _, row := range rows {
			var item T
			if err = json.Unmarshal(row.Content(), &item); err != nil {
				break
			}
			items = append(items, item)
		}
		if err == nil {
			return items
		}
	}

	e.logger.Warn("cloud fetch failed, falling back to local",
		zap.String("table", table),
		zap.Error(err))
	return local
}

// USERS

func (e *Engine) Users(ctx context.Context) []model.User {
	e.mu.RLock()
	local := slices.Clone(e.users)
	cfg := e.cloudConfig
	e.mu.RUnlock()
	return fetchCollection(ctx, e, cnst.TableUsers, &cfg, local)
}

func (e *Engine) AddUser(ctx context.Context, u model.User) error {
	return saveItem(ctx, e, cnst.TableUsers, &e.users, u, actionAdd)
}

func (e *Engine) UpdateUser(ctx context.Context, u model.User) error {
	return saveItem(ctx, e, cnst.TableUsers, &e.users, u, actionUpdate)
}

func (e *Engine) DeleteUser(ctx context.Context, id string) error {
	return saveItem(ctx, e, cnst.TableUsers, &e.users, model.User{ID: id}, actionDelete)
}

// PROJECTS

func (e *Engine) Projects(ctx context.Context) []model.Project {
	e.mu.RLock()
	local := slices.Clone(e.projects)
	cfg := e.cloudConfig
	e.mu.RUnlock()
	return fetchCollection(ctx, e, cnst.TableProjects, &cfg, local)
}

func (e *Engine) AddProject(ctx context.Context, p model.Project) error {
	return saveItem(ctx, e, cnst.TableProjects, &e.projects, p, actionAdd)
}

func (e *Engine) UpdateProject(ctx context.Context, p model.Project) error {
	return saveItem(ctx, e, cnst.TableProjects, &e.projects, p, actionUpdate)
}

func (e *Engine) DeleteProject(ctx context.Context, id string) error {
	return saveItem(ctx, e, cnst.TableProjects, &e.projects, model.Project{ID: id}, actionDelete)
}

// GEMS

func (e *Engine) Gems(ctx context.Context) []model.Gem {
	e.mu.RLock()
	local := slices.Clone(e.gems)
	cfg := e.cloudConfig
	e.mu.RUnlock()
	return fetchCollection(ctx, e, cnst.TableGems, &cfg, local)
}

func (e *Engine) AddGem(ctx context.Context, g model.Gem) error {
	return saveItem(ctx, e, cnst.TableGems, &e.gems, g, actionAdd)
}

func (e *Engine) UpdateGem(ctx context.Context, g model.Gem) error {
	return saveItem(ctx, e, cnst.TableGems, &e.gems, g, actionUpdate)
}

func (e *Engine) DeleteGem(ctx context.Context, id string) error {
	return saveItem(ctx, e, cnst.TableGems, &e.gems, model.Gem{ID: id}, actionDelete)
}

// TOOLS

func (e *Engine) Tools(ctx context.Context) []model.Tool {
	e.mu.RLock()
	local := slices.Clone(e.tools)
	cfg := e.cloudConfig
	e.mu.RUnlock()
	return fetchCollection(ctx, e, cnst.TableTools, &cfg, local)
}

func (e *Engine) AddTool(ctx context.Context, t model.Tool) error {
	return saveItem(ctx, e, cnst.TableTools, &e.tools, t, actionAdd)
}

func (e *Engine) UpdateTool(ctx context.Context, t model.Tool) error {
	return saveItem(ctx, e, cnst.TableTools, &e.tools, t, actionUpdate)
}

func (e *Engine) DeleteTool(ctx context.Context, id string) error {
	return saveItem(ctx, e, cnst.TableTools, &e.tools, model.Tool{ID: id}, actionDelete)
}

// USED IDS

func (e *Engine) UsedIDs(ctx context.Context) []model.UsedID {
	e.mu.RLock()
	local := slices.Clone(e.usedIDs)
	cfg := e.cloudConfig
	e.mu.RUnlock()
	return fetchCollection(ctx, e, cnst.TableUsedIDs, &cfg, local)
}

// RegisterUsedID records an identifier as consumed. Insertion is idempotent
// by id: a duplicate registration is silently skipped. This is the one
// idempotency guard in the system; the generic adds stay unchecked.
func (e *Engine) RegisterUsedID(ctx context.Context, record model.UsedID) error {
	e.mu.RLock()
	exists := slices.ContainsFunc(e.usedIDs, func(u model.UsedID) bool {
		return u.ID == record.ID
	})
	e.mu.RUnlock()
	if exists {
		return nil
	}
	return saveItem(ctx, e, cnst.TableUsedIDs, &e.usedIDs, record, actionAdd)
}

// TRAINING MODULES

func (e *Engine) TrainingModules(ctx context.Context) []model.TrainingModule {
	e.mu.RLock()
	local := slices.Clone(e.modules)
	cfg := e.cloudConfig
	e.mu.RUnlock()
	return fetchCollection(ctx, e, cnst.TableTrainingModules, &cfg, local)
}

func (e *Engine) AddTrainingModule(ctx context.Context, m model.TrainingModule) error {
	return saveItem(ctx, e, cnst.TableTrainingModules, &e.modules, m, actionAdd)
}

func (e *Engine) UpdateTrainingModule(ctx context.Context, m model.TrainingModule) error {
	return saveItem(ctx, e, cnst.TableTrainingModules, &e.modules, m, actionUpdate)
}

func (e *Engine) DeleteTrainingModule(ctx context.Context, id string) error {
	return saveItem(ctx, e, cnst.TableTrainingModules, &e.modules, model.TrainingModule{ID: id}, actionDelete)
}
