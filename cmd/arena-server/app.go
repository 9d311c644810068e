package main

import (
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/config"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/logging"
	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/storage"
)

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid arena configuration", err, logging.Fields{"config_path": path})
	}
	return cfg
}

func createRepositoryOrExit(dbPath string) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteRepository(db)
}
