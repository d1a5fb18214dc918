package database

import (
	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RunMigrations performs all database migrations and seeds the base roles.
func RunMigrations(db *gorm.DB) error {
	// Run migrations in correct order
	if err := db.AutoMigrate(&models.Role{}); err != nil {
		return err
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return err
	}
	if err := db.AutoMigrate(&models.RevokedToken{}); err != nil {
		return err
	}

	// Base roles have to exist before the first user is registered
	for _, name := range []string{models.RoleAdmin, models.RoleAgent} {
		role := models.Role{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}

	log.Info().Msg("Database migrations completed successfully")
	return nil
}
