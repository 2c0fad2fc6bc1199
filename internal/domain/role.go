package domain

import "time"

// Role names
const (
	RoleAdmin    = "admin"
	RoleUser     = "user"
	RoleCosmetic = "cosmetics"
	RoleHair     = "hair"
	RoleMassage  = "massage"

	// RoleStaff обобщенная роль: любой сотрудник любой категории
	RoleStaff = "staff"
)

// Role maps a role key to a display name.
// Category roles double as service categories.
type Role struct {
	ID          int64
	Name        string
	DisplayName string
	IsCategory  bool
	CreatedAt   time.Time
}

// DefaultRoles roles seeded on first startup
var DefaultRoles = []Role{
	{Name: RoleAdmin, DisplayName: "Administrátor", IsCategory: false},
	{Name: RoleUser, DisplayName: "Zákazník", IsCategory: false},
	{Name: RoleCosmetic, DisplayName: "Kosmetika", IsCategory: true},
	{Name: RoleHair, DisplayName: "Kadeřnictví", IsCategory: true},
	{Name: RoleMassage, DisplayName: "Masáže", IsCategory: true},
}

// IsReservedRole returns true for roles that cannot be deleted or recreated
func IsReservedRole(name string) bool {
	return name == RoleAdmin || name == RoleUser || name == RoleStaff
}
