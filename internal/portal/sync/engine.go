package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/aiwis-cl/portal-core/internal/common/cnst"
	"github.com/aiwis-cl/portal-core/internal/portal/cloud"
	"github.com/aiwis-cl/portal-core/internal/portal/model"
	"github.com/aiwis-cl/portal-core/internal/portal/storage"
	"github.com/aiwis-cl/portal-core/pkg/metrics"
)

// Engine is the single source of truth for all collection CRUD. Every write
// commits to the local store first and mirrors to the remote bridge
// best-effort; reads go through the remote when active and fall back to
// local on any failure. The local side is the durability guarantee, the
// remote is a mirror that may lag, surfaced only through logs.
type Engine struct {
	logger  *zap.Logger
	store   storage.Store
	bridge  *cloud.Bridge
	metrics *metrics.Metrics

	// The mutex guards memory safety only. There is no version check and no
	// conflict detection: interleaved writers resolve last-write-wins.
	mu       sync.RWMutex
	users    []model.User
	projects []model.Project
	gems     []model.Gem
	tools    []model.Tool
	usedIDs  []model.UsedID
	modules  []model.TrainingModule

	companyConfig model.CompanyConfig
	cloudConfig   model.CloudSyncConfig
}

// NewEngine loads every collection from the store, seeding absent keys. A
// blob that exists but cannot be decoded fails startup; the data is assumed
// corrupt and must be inspected manually.
func NewEngine(ctx context.Context, logger *zap.Logger, store storage.Store, bridge *cloud.Bridge, m *metrics.Metrics) (*Engine, error) {
	e := &Engine{
		logger:        logger.Named("portal.sync"),
		store:         store,
		bridge:        bridge,
		metrics:       m,
		companyConfig: model.DefaultCompanyConfig(),
		cloudConfig:   model.DefaultCloudSyncConfig(),
	}

	var err error
	if e.users, err = loadCollection(ctx, store, cnst.KeyUsers, model.SeedUsers()); err != nil {
		return nil, err
	}
	if e.projects, err = loadCollection(ctx, store, cnst.KeyProjects, model.SeedProjects()); err != nil {
		return nil, err
	}
	if e.gems, err = loadCollection(ctx, store, cnst.KeyGems, model.SeedGems()); err != nil {
		return nil, err
	}
	if e.tools, err = loadCollection(ctx, store, cnst.KeyTools, model.SeedTools()); err != nil {
		return nil, err
	}
	if e.usedIDs, err = loadCollection(ctx, store, cnst.KeyUsedIDs, []model.UsedID{}); err != nil {
		return nil, err
	}
	if e.modules, err = loadCollection(ctx, store, cnst.KeyTrainingModules, model.SeedTrainingModules()); err != nil {
		return nil, err
	}
	if err = loadSingleton(ctx, store, cnst.KeyCompanyConfig, &e.companyConfig); err != nil {
		return nil, err
	}
	if err = loadSingleton(ctx, store, cnst.KeyCloudSyncConfig, &e.cloudConfig); err != nil {
		return nil, err
	}

	e.logger.Info("engine loaded",
		zap.Int("users", len(e.users)),
		zap.Int("projects", len(e.projects)),
		zap.Bool("cloud_active", e.cloudConfig.IsActive))
	return e, nil
}

func loadCollection[T any](ctx context.Context, store storage.Store, key string, seed []T) ([]T, error) {
	data, err := store.Read(ctx, key)
	if errors.Is(err, cnst.ErrNotFound) {
		return seed, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %s", key, cnst.ErrCorruptData, err)
	}
	return items, nil
}

func loadSingleton(ctx context.Context, store storage.Store, key string, v any) error {
	data, err := store.Read(ctx, key)
	if errors.Is(err, cnst.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w: %s", key, cnst.ErrCorruptData, err)
	}
	return nil
}

// persistLocalLocked serializes every collection and both singletons and
// writes each under its own key. Callers must hold the write lock. Whole
// collections are written on every mutation; the cost of an operation
// scales with collection size, not update size.
func (e *Engine) persistLocalLocked(ctx context.Context) error {
	entries := []struct {
		key string
		v   any
	}{
		{cnst.KeyUsers, e.users},
		{cnst.KeyProjects, e.projects},
		{cnst.KeyGems, e.gems},
		{cnst.KeyTools, e.tools},
		{cnst.KeyUsedIDs, e.usedIDs},
		{cnst.KeyTrainingModules, e.modules},
		{cnst.KeyCompanyConfig, e.companyConfig},
		{cnst.KeyCloudSyncConfig, e.cloudConfig},
	}
	for _, entry := range entries {
		data, err := json.Marshal(entry.v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", entry.key, err)
		}
		if err := e.store.Write(ctx, entry.key, data); err != nil {
			return fmt.Errorf("write %s: %w", entry.key, err)
		}
	}
	return nil
}

// cloudConfigSnapshot returns a copy of the current cloud config.
func (e *Engine) cloudConfigSnapshot() model.CloudSyncConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cloudConfig
}

func remoteActive(cfg *model.CloudSyncConfig) bool {
	return cfg.IsActive && cfg.ProxyURL != ""
}

// CompanyConfig returns the branding singleton.
func (e *Engine) CompanyConfig() model.CompanyConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.companyConfig
}

// SaveCompanyConfig persists the branding singleton locally and, when the
// cloud is active, upserts it into the remote config table. The remote
// error, unlike the collection mirror path, is returned to the caller; the
// local save has already landed either way.
func (e *Engine) SaveCompanyConfig(ctx context.Context, c model.CompanyConfig) error {
	e.mu.Lock()
	e.companyConfig = c
	cfg := e.cloudConfig
	err := e.persistLocalLocked(ctx)
	e.mu.Unlock()
	if err != nil {
		return err
	}

	if !cfg.IsActive {
		return nil
	}
	content, err := json.Marshal(struct {
		ID string `json:"id"`
		model.CompanyConfig
	}{ID: cnst.ConfigRowID, CompanyConfig: c})
	if err != nil {
		return err
	}
	return e.bridge.Upsert(ctx, &cfg, cnst.TableConfig, cnst.ConfigRowID, content)
}

// CloudSyncConfig returns the cloud connection singleton.
func (e *Engine) CloudSyncConfig() model.CloudSyncConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cloudConfig
}

// SaveCloudSyncConfig persists the cloud connection singleton.
func (e *Engine) SaveCloudSyncConfig(ctx context.Context, c model.CloudSyncConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cloudConfig = c
	return e.persistLocalLocked(ctx)
}

// TestConnection executes a trivial query against the proxy. On success the
// cloud config is marked active and persisted; on failure it stays inactive
// and the error is surfaced.
func (e *Engine) TestConnection(ctx context.Context) error {
	cfg := e.cloudConfigSnapshot()
	if _, err := e.bridge.Execute(ctx, &cfg, "SELECT 1", nil); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.cloudConfig.IsActive = true
	return e.persistLocalLocked(ctx)
}

// InitializeCloudSchema creates the remote tables. A no-op while the cloud
// is inactive; with an active config but no proxy url the bridge reports
// remote-unavailable.
func (e *Engine) InitializeCloudSchema(ctx context.Context) error {
	cfg := e.cloudConfigSnapshot()
	if !cfg.IsActive {
		return nil
	}
	return e.bridge.InitializeSchema(ctx, &cfg)
}

// ExecuteSQL runs a raw command through the bridge for the admin database
// view. Errors surface verbatim.
func (e *Engine) ExecuteSQL(ctx context.Context, query string, params []any) ([]cloud.Row, error) {
	cfg := e.cloudConfigSnapshot()
	return e.bridge.Execute(ctx, &cfg, query, params)
}

// MigrateLocalToCloud pushes every collection's full contents to the remote
// store. This is a deliberate destructive overwrite of the remote side; the
// caller must have confirmed it. First error aborts the run.
func (e *Engine) MigrateLocalToCloud(ctx context.Context) error {
	e.mu.RLock()
	cfg := e.cloudConfig
	users := e.users
	projects := e.projects
	gems := e.gems
	tools := e.tools
	usedIDs := e.usedIDs
	modules := e.modules
	company := e.companyConfig
	e.mu.RUnlock()

	if !cfg.IsActive {
		return cnst.ErrCloudInactive
	}

	if err := upsertAll(ctx, e, &cfg, cnst.TableUsers, users); err != nil {
		return err
	}
	if err := upsertAll(ctx, e, &cfg, cnst.TableProjects, projects); err != nil {
		return err
	}
	if err := upsertAll(ctx, e, &cfg, cnst.TableGems, gems); err != nil {
		return err
	}
	if err := upsertAll(ctx, e, &cfg, cnst.TableTools, tools); err != nil {
		return err
	}
	if err := upsertAll(ctx, e, &cfg, cnst.TableUsedIDs, usedIDs); err != nil {
		return err
	}
	if err := upsertAll(ctx, e, &cfg, cnst.TableTrainingModules, modules); err != nil {
		return err
	}

	content, err := json.Marshal(struct {
		ID string `json:"id"`
		model.CompanyConfig
	}{ID: cnst.ConfigRowID, CompanyConfig: company})
	if err != nil {
		return err
	}
	return e.bridge.Upsert(ctx, &cfg, cnst.TableConfig, cnst.ConfigRowID, content)
}

func upsertAll[T model.Keyed](ctx context.Context, e *Engine, cfg *model.CloudSyncConfig, table string, items []T) error {
	for _, item := range items {
		content, err := json.Marshal(item)
		if err != nil {
			return err
		}
		if err := e.bridge.Upsert(ctx, cfg, table, item.Key(), content); err != nil {
			return err
		}
	}
	return nil
}

// ResetToDefaults restores the seed datasets. Used IDs and both singleton
// configs are left untouched.
func (e *Engine) ResetToDefaults(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.users = model.SeedUsers()
	e.projects = model.SeedProjects()
	e.gems = model.SeedGems()
	e.tools = model.SeedTools()
	e.modules = model.SeedTrainingModules()
	return e.persistLocalLocked(ctx)
}
