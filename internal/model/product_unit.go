package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductUnit says 1 Unit = ConversionFactor x BaseUnit for one product.
type ProductUnit struct {
	BaseModel
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_units_product_unit,priority:1" json:"product_id"`
	UnitID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_units_product_unit,priority:2" json:"unit_id"`
	Unit             *Unit           `gorm:"foreignKey:UnitID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"unit,omitempty"`
	BaseUnitID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"base_unit_id"`
	BaseUnit         *Unit           `gorm:"foreignKey:BaseUnitID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	ConversionFactor decimal.Decimal `gorm:"type:decimal(12,4);not null;check:chk_product_units_factor,conversion_factor > 0" json:"conversion_factor"`
	IsPurchaseUnit   bool            `gorm:"not null" json:"is_purchase_unit"`
	IsSalesUnit      bool            `gorm:"not null" json:"is_sales_unit"`

	IsBaseUnit bool `gorm:"-" json:"is_base_unit"`
}

func (ProductUnit) TableName() string {
	return "product_units"
}

// MarksBase reports whether this row is the product's base-unit row.
func (pu *ProductUnit) MarksBase() bool {
	return pu.UnitID == pu.BaseUnitID && pu.ConversionFactor.Equal(decimal.NewFromInt(1))
}

func (pu *ProductUnit) AfterFind(tx *gorm.DB) error {
	pu.IsBaseUnit = pu.MarksBase()
	return nil
}

func (pu *ProductUnit) BeforeSave(tx *gorm.DB) error {
	pu.IsBaseUnit = pu.MarksBase()
	return nil
}
