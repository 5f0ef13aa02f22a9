package main

import (
	"os"

	"github.com/store/backoffice/internal/domain/catalog"
	"github.com/store/backoffice/internal/domain/ledger"
	"github.com/store/backoffice/internal/infrastructure/config"
	"github.com/store/backoffice/internal/infrastructure/logger"
	"github.com/store/backoffice/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	log, err := logger.New(&logger.Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	log.Info("Running schema migration", zap.String("database", cfg.Database.DBName))

	if err := db.DB.AutoMigrate(
		&catalog.Location{},
		&catalog.Brand{},
		&catalog.Category{},
		&catalog.Item{},
		&catalog.ItemVariant{},
		&ledger.InventoryLevel{},
		&ledger.InventoryTransaction{},
	); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}

	log.Info("Migration completed")
}
