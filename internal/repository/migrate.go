package repository

import (
	"fmt"

	"go-wholesale-inventory/internal/model"

	"gorm.io/gorm"
)

// Models in dependency order.
var Models = []any{
	&model.Privilege{},
	&model.Role{},
	&model.Store{},
	&model.User{},
	&model.Unit{},
	&model.Attribute{},
	&model.AttributeValue{},
	&model.Product{},
	&model.ProductUnit{},
	&model.ProductVariation{},
	&model.VariationAttributeValue{},
	&model.Stock{},
	&model.StockMovement{},
}

// Partial indexes cannot be expressed through struct tags on two fields at
// once, so they are created here. The syntax is shared by Postgres and SQLite.
var stockIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_stock_store_item ON stock (store_id, item_id) WHERE item_variation_id IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_stock_store_variation ON stock (store_id, item_variation_id) WHERE item_variation_id IS NOT NULL`,
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range stockIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create stock index: %w", err)
		}
	}
	return nil
}
