package lookup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zapponejosh/maya-kin/internal/config"
	"github.com/zapponejosh/maya-kin/internal/database"
	"github.com/zapponejosh/maya-kin/internal/dataload"
	"github.com/zapponejosh/maya-kin/internal/table"
)

// LoadTables gathers the reference tables named by cfg.
//
// Tables from DatabasePath are read first, then DataDir is scanned; a file
// in DataDir replaces a stored table of the same name. Either source may be
// empty but not both.
func LoadTables(ctx context.Context, cfg *config.Config, logger *slog.Logger) (table.Set, error) {
	if logger == nil {
		logger = slog.Default()
	}

	set := table.Set{}

	if cfg.DatabasePath != "" {
		db, err := database.Open(database.ReadOnlyConfig(cfg.DatabasePath), logger)
		if err != nil {
			return nil, fmt.Errorf("open reference store: %w", err)
		}
		if err := db.Health(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("reference store: %w", err)
		}
		stored, err := db.LoadAll(ctx)
		db.Close()
		if err != nil {
			return nil, fmt.Errorf("load reference store: %w", err)
		}
		for _, name := range stored.Names() {
			set.Add(stored[name])
		}
	}

	if cfg.DataDir != "" {
		files, err := dataload.LoadAll(ctx, cfg.DataDir, dataload.Options{Logger: logger})
		if err != nil {
			return nil, err
		}
		for _, name := range files.Names() {
			if _, ok := set[name]; ok {
				logger.Warn("data file overrides stored table", slog.String("table", name))
			}
			set.Add(files[name])
		}
	}

	for _, name := range []string{cfg.MatrixTable, cfg.BirthdayTable} {
		if _, ok := set[name]; !ok {
			logger.Warn("configured table not loaded", slog.String("table", name))
		}
	}

	return set, nil
}

// Open loads the tables named by cfg and binds a service to them.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Service, error) {
	set, err := LoadTables(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return New(set, OptionsFromConfig(cfg)), nil
}
