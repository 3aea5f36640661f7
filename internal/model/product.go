package model

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ItemType string

const (
	ItemStandard ItemType = "Standard"
	ItemVariable ItemType = "Variable"
)

// Product is stored in the items table. Stock for a product is always counted
// in its base unit.
type Product struct {
	BaseModel
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	SKU            *string         `gorm:"type:varchar(50);uniqueIndex" json:"sku"`
	Barcode        string          `gorm:"type:varchar(100)" json:"barcode"`
	BaseUnitID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"base_unit_id"`
	BaseUnit       *Unit           `gorm:"foreignKey:BaseUnitID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"base_unit,omitempty"`
	ItemType       ItemType        `gorm:"type:varchar(20);not null" json:"item_type"`
	CostPrice      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"cost_price"`
	RetailPrice    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"retail_price"`
	WholesalePrice decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"wholesale_price"`
	IsActive       bool            `gorm:"not null" json:"is_active"`

	Units      []ProductUnit      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"units,omitempty"`
	Variations []ProductVariation `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variations,omitempty"`
}

func (Product) TableName() string {
	return "items"
}

func (p *Product) IsVariable() bool {
	return p.ItemType == ItemVariable
}

// SKUOrName is the seed used when deriving variation SKUs.
func (p *Product) SKUOrName() string {
	if p.SKU != nil && strings.TrimSpace(*p.SKU) != "" {
		return *p.SKU
	}
	return p.Name
}
