package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

func TestOracle_HasRole(t *testing.T) {
	o := NewOracle()

	admin := &domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	hair := &domain.Actor{UserID: 2, Role: domain.RoleHair}
	customer := &domain.Actor{UserID: 3, Role: domain.RoleUser}
	noRole := &domain.Actor{UserID: 4}

	tests := []struct {
		name     string
		required string
		actor    *domain.Actor
		want     bool
	}{
		{"anonymous", domain.RoleHair, nil, false},
		{"admin bypasses category", domain.RoleMassage, admin, true},
		{"admin is staff", domain.RoleStaff, admin, true},
		{"matching category", domain.RoleHair, hair, true},
		{"other category", domain.RoleMassage, hair, false},
		{"category staff is staff", domain.RoleStaff, hair, true},
		{"customer is not staff", domain.RoleStaff, customer, false},
		{"customer has user role", domain.RoleUser, customer, true},
		{"empty role is not staff", domain.RoleStaff, noRole, false},
		{"empty required", "", hair, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, o.HasRole(tt.required, tt.actor))
		})
	}
}

func TestOracle_IsAuthor(t *testing.T) {
	o := NewOracle()
	actor := &domain.Actor{UserID: 7, Role: domain.RoleUser}

	assert.True(t, o.IsAuthor(actor, ptr.Ptr(int64(7))))
	assert.False(t, o.IsAuthor(actor, ptr.Ptr(int64(8))))
	assert.False(t, o.IsAuthor(actor, nil))
	assert.False(t, o.IsAuthor(nil, ptr.Ptr(int64(7))))
}

func TestOracle_CanAccessAppointment(t *testing.T) {
	o := NewOracle()
	a := &domain.Appointment{ServiceCategory: domain.RoleHair, CustomerID: ptr.Ptr(int64(7))}

	assert.True(t, o.CanAccessAppointment(&domain.Actor{UserID: 7, Role: domain.RoleUser}, a))
	assert.True(t, o.CanAccessAppointment(&domain.Actor{UserID: 9, Role: domain.RoleHair}, a))
	assert.False(t, o.CanAccessAppointment(&domain.Actor{UserID: 9, Role: domain.RoleMassage}, a))
	assert.False(t, o.CanAccessAppointment(nil, a))
	assert.False(t, o.CanSeeStaffNotes(&domain.Actor{UserID: 7, Role: domain.RoleUser}, domain.RoleHair))
}
