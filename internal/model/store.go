package model

type Store struct {
	BaseModel
	Code     string `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Name     string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Address  string `gorm:"type:text" json:"address"`
	IsActive bool   `gorm:"not null" json:"is_active"`
}

func (Store) TableName() string {
	return "stores"
}
