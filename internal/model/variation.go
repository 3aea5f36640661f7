package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductVariation is one SKU-bearing combination of attribute values of a
// Variable product.
type ProductVariation struct {
	BaseModel
	ProductID      uuid.UUID       `gorm:"column:item_id;type:uuid;not null;index" json:"product_id"`
	SKU            string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku"`
	VariantName    string          `gorm:"type:varchar(255)" json:"variant_name"`
	CostPrice      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"cost_price"`
	RetailPrice    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"retail_price"`
	WholesalePrice decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"wholesale_price"`
	Barcode        string          `gorm:"type:varchar(100)" json:"barcode"`
	IsActive       bool            `gorm:"not null" json:"is_active"`

	AttributeValues []VariationAttributeValue `gorm:"foreignKey:ItemVariationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ProductVariation) TableName() string {
	return "item_variations"
}

// VariationAttributeValue links a variation to one attribute value.
type VariationAttributeValue struct {
	ItemVariationID  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"item_variation_id"`
	AttributeValueID uuid.UUID       `gorm:"type:uuid;primaryKey" json:"attribute_value_id"`
	AttributeValue   *AttributeValue `gorm:"foreignKey:AttributeValueID;constraint:OnDelete:RESTRICT" json:"attribute_value,omitempty"`
}

func (VariationAttributeValue) TableName() string {
	return "item_variation_attribute_values"
}

// Combination projects the linked values to an attribute name keyed map.
// Links without a preloaded attribute are skipped.
func (v *ProductVariation) Combination() map[string]string {
	combo := make(map[string]string, len(v.AttributeValues))
	for _, link := range v.AttributeValues {
		if link.AttributeValue == nil || link.AttributeValue.Attribute == nil {
			continue
		}
		combo[link.AttributeValue.Attribute.Name] = link.AttributeValue.Value
	}
	return combo
}

// VariationResponse is the API shape of a variation.
type VariationResponse struct {
	ID                   uuid.UUID         `json:"id"`
	ProductID            uuid.UUID         `json:"product_id"`
	SKU                  string            `json:"sku"`
	VariantName          string            `json:"variant_name"`
	AttributeCombination map[string]string `json:"attribute_combination"`
	CostPrice            decimal.Decimal   `json:"cost_price"`
	RetailPrice          decimal.Decimal   `json:"retail_price"`
	WholesalePrice       decimal.Decimal   `json:"wholesale_price"`
	Barcode              string            `json:"barcode"`
	IsActive             bool              `json:"is_active"`
}

func (v *ProductVariation) ToResponse() VariationResponse {
	return VariationResponse{
		ID:                   v.ID,
		ProductID:            v.ProductID,
		SKU:                  v.SKU,
		VariantName:          v.VariantName,
		AttributeCombination: v.Combination(),
		CostPrice:            v.CostPrice,
		RetailPrice:          v.RetailPrice,
		WholesalePrice:       v.WholesalePrice,
		Barcode:              v.Barcode,
		IsActive:             v.IsActive,
	}
}
