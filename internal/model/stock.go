package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock is the quantity of a product, or of one of its variations, held by a
// store. Quantity is denominated in the product's base unit.
//
// Uniqueness is enforced by two partial indexes created in the migration:
// (store_id, item_id) WHERE item_variation_id IS NULL and
// (store_id, item_variation_id) WHERE item_variation_id IS NOT NULL.
type Stock struct {
	BaseModel
	StoreID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"store_id"`
	Store       *Store            `gorm:"foreignKey:StoreID;constraint:OnDelete:RESTRICT" json:"store,omitempty"`
	ProductID   uuid.UUID         `gorm:"column:item_id;type:uuid;not null;index" json:"product_id"`
	Product     *Product          `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	VariationID *uuid.UUID        `gorm:"column:item_variation_id;type:uuid;index" json:"variation_id"`
	Variation   *ProductVariation `gorm:"foreignKey:VariationID;constraint:OnDelete:CASCADE" json:"variation,omitempty"`
	Quantity    decimal.Decimal   `gorm:"type:decimal(12,4);not null;default:0" json:"quantity"`
}

func (Stock) TableName() string {
	return "stock"
}

type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

// StockMovement is the append-only log written with every stock adjustment.
type StockMovement struct {
	BaseModel
	StoreID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"store_id"`
	ProductID      uuid.UUID       `gorm:"column:item_id;type:uuid;not null;index" json:"product_id"`
	VariationID    *uuid.UUID      `gorm:"column:item_variation_id;type:uuid;index" json:"variation_id"`
	Type           MovementType    `gorm:"type:varchar(10);not null" json:"type"`
	UnitID         *uuid.UUID      `gorm:"type:uuid" json:"unit_id,omitempty"`
	UnitQuantity   decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"unit_quantity"`
	QuantityChange decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"quantity_change"`
	QuantityBefore decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"quantity_before"`
	QuantityAfter  decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"quantity_after"`
	ReferenceType  string          `gorm:"type:varchar(50)" json:"reference_type,omitempty"`
	ReferenceID    string          `gorm:"type:varchar(100)" json:"reference_id,omitempty"`
	Note           string          `gorm:"type:text" json:"note,omitempty"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}
