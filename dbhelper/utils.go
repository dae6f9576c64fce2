package dbhelper

import (
	"dresssenseapi/models"
	"fmt"
	"log"

	"gorm.io/gorm"
)

func SetupCleaner(db *gorm.DB) func() {

	return func() {
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Outfit{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Clothing{})
	}
}

func MigrateAll(db *gorm.DB) error {
	for _, model := range []interface{}{&models.Clothing{}, &models.Outfit{}} {
		if err := Migrate(db, model); err != nil {
			return err
		}
	}
	return nil
}

func Migrate(db *gorm.DB, model interface{}) error {
	err := db.AutoMigrate(model)
	if err != nil {
		log.Printf("Error while migrating %T", model)
		return fmt.Errorf("failed to migrate %T: %w", model, err)
	}
	return nil
}
