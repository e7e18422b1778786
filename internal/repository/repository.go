package repository

import (
	"fmt"

	"github.com/yourusername/podium-picks/internal/config"
	"github.com/yourusername/podium-picks/internal/database"
)

// Repositories holds the configured store
type Repositories struct {
	Results Store
}

// NewRepositories creates the store selected by the storage configuration.
// db may be nil for the memory driver.
func NewRepositories(cfg config.StorageConfig, db *database.DB) (*Repositories, error) {
	switch cfg.Driver {
	case config.StoragePostgres:
		if db == nil {
			return nil, fmt.Errorf("database connection is required")
		}
		return &Repositories{Results: NewPostgresResultRepository(db)}, nil
	case config.StorageMemory, "":
		snapshot := &Snapshot{}
		if cfg.SnapshotPath != "" {
			loaded, err := LoadSnapshot(cfg.SnapshotPath)
			if err != nil {
				return nil, err
			}
			snapshot = loaded
		}
		return &Repositories{Results: NewMemoryRepository(snapshot)}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
