package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lyonms2/Portal-Hunter-Awakening-sub001/internal/game"
)

// OpenAndMigrate opens the sqlite database at the given path and keeps the
// schema updated via AutoMigrate. Development never drops tables on startup;
// remove the DB file to start clean.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&game.BattleRoom{},
		&game.Challenge{},
		&game.RankingEntry{},
		&game.SeasonArchive{},
		&game.AvailablePlayer{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
