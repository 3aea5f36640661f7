package model

import "slices"

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // MASTER_ADMIN, ADMIN, STORE_STAFF
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleMasterAdmin = "MASTER_ADMIN"
	RoleAdmin       = "ADMIN"
	RoleStoreStaff  = "STORE_STAFF"
)

var DefaultRoles = []Role{
	{Code: RoleMasterAdmin, Name: "Master Administrator", Description: "Full system access with all privileges"},
	{Code: RoleAdmin, Name: "Administrator", Description: "Catalog and stock management without user administration"},
	{Code: RoleStoreStaff, Name: "Store Staff", Description: "Read catalog, view and adjust stock"},
}

var storeStaffPrivileges = []string{PrivUnitView, PrivAttributeView, PrivProductView, PrivStoreView, PrivStockView, PrivStockAdjust, PrivDashboardView}

// DefaultGrants picks the subset of all privileges a default role receives.
func DefaultGrants(roleCode string, all []Privilege) []Privilege {
	var granted []Privilege
	for _, p := range all {
		switch roleCode {
		case RoleMasterAdmin:
			granted = append(granted, p)
		case RoleAdmin:
			if !slices.Contains(UserManagementPrivileges, p.Code) {
				granted = append(granted, p)
			}
		case RoleStoreStaff:
			if slices.Contains(storeStaffPrivileges, p.Code) {
				granted = append(granted, p)
			}
		}
	}
	return granted
}
