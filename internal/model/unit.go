package model

// Unit is a named measurement unit. Conversion factors live on ProductUnit,
// never on the unit itself.
type Unit struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required,max=100"`
}

func (Unit) TableName() string {
	return "units"
}
