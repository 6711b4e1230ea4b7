package storage

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aiwis-cl/portal-core/internal/common/config"
)

// NewStore creates a new store based on configuration
func NewStore(logger *zap.Logger, cfg *config.StorageConfig) (Store, error) {
	logger.Info("Initializing local store", zap.String("type", cfg.Type))
	switch cfg.Type {
	case "disk", "":
		return NewDiskStore(logger, cfg.BaseDir)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
