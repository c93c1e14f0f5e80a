package main

import (
	"database/sql"
	"fmt"
	"os"

	"contacts-manager/config"
	"contacts-manager/internal/metrics"
	"contacts-manager/internal/models"
	"contacts-manager/internal/repositories"
	"contacts-manager/internal/services"
	"contacts-manager/internal/store"
	"contacts-manager/internal/utils"
	"contacts-manager/internal/wsnotify"
)

// app holds the wired components shared by the commands.
type app struct {
	cfg        *config.Config
	collector  *metrics.Collector
	contacts   *repositories.JSONContactRepository
	categories *repositories.JSONCategoryRepository
	activity   *repositories.SQLiteActivityRepository
	service    *services.ContactService
	db         *sql.DB
}

func newApp(cfg *config.Config) (*app, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating data dir %s: %v", cfg.DataDir, err)
	}

	a := &app{cfg: cfg, collector: metrics.NewCollector("contacts")}
	opts := store.Options{LockTimeout: cfg.LockTimeout, Observer: a.collector}

	a.contacts = repositories.NewJSONContactRepository(store.New[models.Contact](cfg.ContactsPath(), opts))
	a.categories = repositories.NewJSONCategoryRepository(store.New[string](cfg.CategoriesPath(), opts), cfg.DefaultCategories)
	a.service = services.NewContactService(a.contacts, a.categories).
		WithMetrics(a.collector).
		WithNotifier(wsnotify.Manager)

	// The journal is optional; contact operations work without it.
	db, err := config.ConnectDatabase(cfg.ActivityPath())
	if err != nil {
		utils.LogWarning("Activity journal disabled: %v", err)
	} else {
		activity := repositories.NewSQLiteActivityRepository(db)
		if err := activity.EnsureSchema(); err != nil {
			utils.LogWarning("Activity journal disabled: %v", err)
			db.Close()
		} else {
			a.db = db
			a.activity = activity
			a.service.WithActivity(activity)
		}
	}

	if cfg.S3Config.Enabled() {
		s3, err := services.NewS3Service(cfg.S3Config)
		if err != nil {
			utils.LogWarning("Export archive disabled: %v", err)
		} else {
			a.service.WithUploader(s3)
		}
	}
	return a, nil
}

// bootstrap imports the VCF file when no contacts file exists yet.
func (a *app) bootstrap() error {
	b := services.NewBootstrapper(a.contacts, a.cfg.VCFPath())
	if a.activity != nil {
		b.WithActivity(a.activity)
	}
	n, err := b.EnsureInitialized()
	if err != nil {
		return err
	}
	if n > 0 {
		utils.LogInfo("Imported %d contacts from %s", n, a.cfg.VCFPath())
	}
	return nil
}

func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			utils.LogError("Error closing activity journal: %v", err)
		}
	}
}
