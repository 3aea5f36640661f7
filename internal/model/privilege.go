package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "product:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Product"
}

// Privilege codes checked by route middleware.
const (
	PrivUserView       = "user:view"
	PrivUserCreate     = "user:create"
	PrivUserUpdate     = "user:update"
	PrivUserDelete     = "user:delete"
	PrivUserPrivileges = "user:update_privilege"

	PrivUnitView   = "unit:view"
	PrivUnitCreate = "unit:create"
	PrivUnitUpdate = "unit:update"
	PrivUnitDelete = "unit:delete"

	PrivAttributeView   = "attribute:view"
	PrivAttributeCreate = "attribute:create"
	PrivAttributeUpdate = "attribute:update"
	PrivAttributeDelete = "attribute:delete"

	PrivProductView   = "product:view"
	PrivProductCreate = "product:create"
	PrivProductUpdate = "product:update"
	PrivProductDelete = "product:delete"

	PrivStoreView   = "store:view"
	PrivStoreCreate = "store:create"
	PrivStoreUpdate = "store:update"

	PrivStockView   = "stock:view"
	PrivStockAdjust = "stock:adjust"

	PrivDashboardView = "dashboard:view"
)

// UserManagementPrivileges are withheld from the ADMIN role.
var UserManagementPrivileges = []string{PrivUserCreate, PrivUserUpdate, PrivUserDelete, PrivUserPrivileges}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	{Code: PrivUserView, Name: "View User"},
	{Code: PrivUserCreate, Name: "Create User"},
	{Code: PrivUserUpdate, Name: "Update User"},
	{Code: PrivUserDelete, Name: "Delete User"},
	{Code: PrivUserPrivileges, Name: "Update User Privileges"},
	{Code: PrivUnitView, Name: "View Unit"},
	{Code: PrivUnitCreate, Name: "Create Unit"},
	{Code: PrivUnitUpdate, Name: "Update Unit"},
	{Code: PrivUnitDelete, Name: "Delete Unit"},
	{Code: PrivAttributeView, Name: "View Attribute"},
	{Code: PrivAttributeCreate, Name: "Create Attribute"},
	{Code: PrivAttributeUpdate, Name: "Update Attribute"},
	{Code: PrivAttributeDelete, Name: "Delete Attribute"},
	{Code: PrivProductView, Name: "View Product"},
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivProductUpdate, Name: "Update Product"},
	{Code: PrivProductDelete, Name: "Delete Product"},
	{Code: PrivStoreView, Name: "View Store"},
	{Code: PrivStoreCreate, Name: "Create Store"},
	{Code: PrivStoreUpdate, Name: "Update Store"},
	{Code: PrivStockView, Name: "View Stock"},
	{Code: PrivStockAdjust, Name: "Adjust Stock"},
	{Code: PrivDashboardView, Name: "View Dashboard"},
}
