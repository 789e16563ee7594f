package store

import (
	"context"

	"github.com/fyrsmithlabs/linkscout/internal/config"
	"go.uber.org/zap"
)

// New selects a store backend from configuration. Misconfigured or
// unreachable backends downgrade to the in-memory store rather than
// aborting the run; a degraded run still produces a report.
func New(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) Store {
	switch cfg.Provider {
	case "memory":
		log.Info("using in-memory store, records will not persist")
		return NewMemoryStore()

	case "sheets":
		if cfg.SheetID == "" || cfg.CredentialsFile == "" {
			log.Warn("sheets store misconfigured, falling back to in-memory",
				zap.Error(errSheetMisconfigured))
			return NewMemoryStore()
		}
		s, err := NewSheetsStore(ctx, cfg)
		if err != nil {
			log.Warn("sheets store unavailable, falling back to in-memory", zap.Error(err))
			return NewMemoryStore()
		}
		log.Info("using google sheets store",
			zap.String("sheet_id", cfg.SheetID),
			zap.String("sheet_name", cfg.SheetName))
		return s

	case "sqlite", "":
		s, err := NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			log.Warn("sqlite store unavailable, falling back to in-memory", zap.Error(err))
			return NewMemoryStore()
		}
		log.Info("using sqlite store", zap.String("path", cfg.SQLitePath))
		return s

	default:
		log.Warn("unknown store provider, falling back to in-memory",
			zap.String("provider", cfg.Provider))
		return NewMemoryStore()
	}
}
