package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is an operator of the back office. Users are soft-deleted so audit
// columns on catalog rows keep pointing at a known account.
type User struct {
	BaseModel
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string         `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string         `gorm:"type:varchar(255)" json:"full_name"`
	PhoneNumber  string         `gorm:"type:varchar(20)" json:"phone_number"`
	RoleID       *uint          `gorm:"index" json:"role_id"`
	Role         *Role          `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	StoreID      *uuid.UUID     `gorm:"type:uuid;index" json:"store_id,omitempty"` // home store, optional
	IsActive     bool           `gorm:"not null" json:"is_active"`
	Privileges   []Privilege    `gorm:"many2many:user_privileges;" json:"privileges,omitempty"`
	TokenVersion string         `gorm:"type:varchar(255);default:''" json:"-"` // single session enforcement
	LastSeenAt   *time.Time     `json:"last_seen_at,omitempty"`
}

func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

func (u *User) PrivilegeCodes() []string {
	codes := make([]string, len(u.Privileges))
	for i, p := range u.Privileges {
		codes[i] = p.Code
	}
	return codes
}

func (u *User) HasPrivilege(code string) bool {
	return slices.Contains(u.PrivilegeCodes(), code)
}

func (u *User) RoleCode() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Code
}

// IdleFor reports whether the user has not been seen within d. A user never
// seen counts as idle.
func (u *User) IdleFor(d time.Duration, now time.Time) bool {
	if u.LastSeenAt == nil {
		return true
	}
	return now.Sub(*u.LastSeenAt) > d
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	PhoneNumber string     `json:"phone_number"`
	RoleID      *uint      `json:"role_id,omitempty"`
	Role        *Role      `json:"role,omitempty"`
	StoreID     *uuid.UUID `json:"store_id,omitempty"`
	IsActive    bool       `json:"is_active"`
	LastSeenAt  *time.Time `json:"last_seen_at,omitempty"`
	Privileges  []string   `json:"privileges"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		RoleID:      u.RoleID,
		Role:        u.Role,
		StoreID:     u.StoreID,
		IsActive:    u.IsActive,
		LastSeenAt:  u.LastSeenAt,
		Privileges:  u.PrivilegeCodes(),
	}
}
