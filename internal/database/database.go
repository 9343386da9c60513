package database

import (
	"idea-collab-api/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB initializes the database connection and runs migrations
func InitDB(path string) {
	var err error

	// Open SQLite database file (created on first run).
	// Using glebarez/sqlite which is a pure Go implementation (no CGO required)
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to connect to database")
	}

	// Auto-migrate the schema (creates tables if they don't exist)
	err = DB.AutoMigrate(
		&models.User{},
		&models.Idea{},
		&models.IdeaCollaborator{},
		&models.Enhancement{},
		&models.PublicShare{},
	)

	if err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	log.Info().Str("path", path).Msg("database connected and migrated")
}

// GetDB returns the database connection
func GetDB() *gorm.DB {
	return DB
}
