// Command seed loads reference data, the default accounts and the demo data set.
package main

import (
	"context"

	"siar/internal/config"
	"siar/internal/database"
	"siar/internal/logger"
	"siar/internal/portal"
	"siar/internal/seed"
	"siar/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info").Fatalw("config load failed", "error", err)
	}
	lg := logger.New(cfg.Log.Level)
	defer lg.Sync()

	db, err := database.Connect(cfg.Database, lg)
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		lg.Fatalw("automigrate failed", "error", err)
	}

	ctx := context.Background()
	if err := seed.ReferenceData(ctx, db); err != nil {
		lg.Fatalw("reference data seed failed", "error", err)
	}
	acc, err := seed.DefaultAccounts(ctx, db, lg)
	if err != nil {
		lg.Fatalw("default account seed failed", "error", err)
	}
	files := storage.NewLocal(cfg.Upload.Dir, cfg.Upload.PublicPrefix, cfg.Upload.MaxBytes)
	if err := seed.Demo(ctx, db, portal.New(db, lg, files), acc); err != nil {
		lg.Fatalw("demo seed failed", "error", err)
	}
	lg.Infow("seed completed",
		"it_admin", seed.AdminEmail,
		"staff", seed.StaffEmail,
		"password", seed.DefaultPassword,
	)
}
