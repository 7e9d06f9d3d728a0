package db

import (
	"fmt"

	"github.com/diewo77/go-facto/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists the persisted entities in dependency order.
func Models() []any {
	return []any{
		&models.VatRate{},
		&models.Service{},
		&models.ServiceRevision{},
		&models.Client{},
		&models.Basket{},
		&models.Invoice{},
		&models.StatusLog{},
		&models.Item{},
	}
}

// Migrate runs AutoMigrate for all models.
// Call this at application startup or as part of a migration step.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			log.Error("automigrate failed", zap.String("model", fmt.Sprintf("%T", m)), zap.Error(err))
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	log.Info("migrations applied", zap.Int("models", len(Models())))
	return nil
}

// Seed installs the preset VAT rates. Existing rows are matched by name, so
// running it twice does not duplicate them. The default flag is only set when
// no rate is flagged yet.
func Seed(db *gorm.DB, log *zap.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var defaults int64
		if err := tx.Model(&models.VatRate{}).Where("is_default = ?", true).Count(&defaults).Error; err != nil {
			return err
		}
		created := 0
		for _, preset := range models.PresetVatRates() {
			var count int64
			if err := tx.Model(&models.VatRate{}).Where("name = ?", preset.Name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			preset.IsDefault = preset.IsDefault && defaults == 0
			if err := tx.Create(&preset).Error; err != nil {
				return fmt.Errorf("seed vat rate %q: %w", preset.Name, err)
			}
			created++
		}
		log.Info("preset vat rates seeded", zap.Int("created", created))
		return nil
	})
}
