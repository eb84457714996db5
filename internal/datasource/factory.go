package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/hellraiser/internal/config"
)

// SourceType represents the type of data source
type SourceType string

const (
	// SyntheticSourceType generates deterministic slates in memory
	SyntheticSourceType SourceType = "synthetic"
	// FileSourceType reads slates from a local JSON file
	FileSourceType SourceType = "file"
)

// New creates a PlayerSource for the configured provider
func New(cfg config.DataSourceConfig, log *logrus.Logger) (PlayerSource, error) {
	switch SourceType(cfg.Provider) {
	case SyntheticSourceType:
		return NewSyntheticSource(cfg.Seed, log), nil

	case FileSourceType:
		if cfg.SlatePath == "" {
			return nil, fmt.Errorf("slate path is required for the file data source")
		}
		return NewFileSource(cfg.SlatePath, log), nil

	default:
		return nil, fmt.Errorf("unknown data source provider: %s", cfg.Provider)
	}
}
