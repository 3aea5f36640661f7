package model

import "github.com/google/uuid"

// Attribute is a variation dimension such as Color.
type Attribute struct {
	BaseModel
	Name   string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Values []AttributeValue `gorm:"foreignKey:AttributeID;constraint:OnDelete:CASCADE" json:"values"`
}

func (Attribute) TableName() string {
	return "attributes"
}

type AttributeValue struct {
	BaseModel
	AttributeID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_attribute_values_attr_value,priority:1" json:"attribute_id"`
	Value       string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_attribute_values_attr_value,priority:2" json:"value"`
	Attribute   *Attribute `gorm:"foreignKey:AttributeID;constraint:-" json:"attribute,omitempty"`
}

func (AttributeValue) TableName() string {
	return "attribute_values"
}

// FindValue returns the value row with the given text.
func (a *Attribute) FindValue(value string) (*AttributeValue, bool) {
	for i := range a.Values {
		if a.Values[i].Value == value {
			return &a.Values[i], true
		}
	}
	return nil, false
}
