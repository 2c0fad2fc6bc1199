package roles

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	roleRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/role"
	"github.com/m04kA/SMC-SalonBooking/internal/service/authz"
	"github.com/m04kA/SMC-SalonBooking/internal/service/roles/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeRoles struct {
	mu     sync.Mutex
	items  []*domain.Role
	nextID int64
}

func (f *fakeRoles) byName(name string) *domain.Role {
	for _, r := range f.items {
		if r.Name == name {
			return r
		}
	}
	return nil
}

func (f *fakeRoles) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byName(role.Name) != nil {
		return nil, roleRepo.ErrDuplicateRole
	}
	f.nextID++
	role.ID = f.nextID
	stored := *role
	f.items = append(f.items, &stored)
	return role, nil
}

func (f *fakeRoles) InsertIfAbsent(_ context.Context, role domain.Role) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byName(role.Name) != nil {
		return false, nil
	}
	f.nextID++
	role.ID = f.nextID
	f.items = append(f.items, &role)
	return true, nil
}

func (f *fakeRoles) GetByID(_ context.Context, id int64) (*domain.Role, error) {
	for _, r := range f.items {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, roleRepo.ErrRoleNotFound
}

func (f *fakeRoles) List(_ context.Context, onlyCategories bool) ([]*domain.Role, error) {
	var out []*domain.Role
	for _, r := range f.items {
		if onlyCategories && !r.IsCategory {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRoles) Delete(_ context.Context, id int64) error {
	for i, r := range f.items {
		if r.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return roleRepo.ErrRoleNotFound
}

type fakeProcedures map[string]int

func (f fakeProcedures) List(_ context.Context, filter domain.ProceduresFilter) ([]*domain.Procedure, error) {
	out := make([]*domain.Procedure, f[*filter.ServiceCategory])
	return out, nil
}

var admin = &domain.Actor{UserID: 1, Role: domain.RoleAdmin}

func newTestService(procs fakeProcedures) (*Service, *fakeRoles) {
	repo := &fakeRoles{}
	return NewService(repo, procs, authz.NewOracle(), nopLogger{}), repo
}

func TestService_EnsureDefaults_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(nil)

	require.NoError(t, svc.EnsureDefaults(ctx))
	require.NoError(t, svc.EnsureDefaults(ctx))

	assert.Len(t, repo.items, len(domain.DefaultRoles))
	assert.NotNil(t, repo.byName(domain.RoleHair))
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(nil)
	require.NoError(t, svc.EnsureDefaults(ctx))

	public, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, public.Roles, 3)

	all, err := svc.List(ctx, &domain.Actor{UserID: 2, Role: domain.RoleHair})
	require.NoError(t, err)
	assert.Len(t, all.Roles, 5)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("admin creates category", func(t *testing.T) {
		svc, _ := newTestService(nil)

		resp, err := svc.Create(ctx, admin, &models.CreateRoleRequest{Name: " Nails ", DisplayName: "Nehty", IsCategory: true})
		require.NoError(t, err)
		assert.Equal(t, "nails", resp.Name)
		assert.True(t, resp.IsCategory)

		_, err = svc.Create(ctx, admin, &models.CreateRoleRequest{Name: "nails", DisplayName: "Nehty"})
		assert.ErrorIs(t, err, ErrRoleAlreadyExists)
	})

	t.Run("non admin", func(t *testing.T) {
		svc, _ := newTestService(nil)

		_, err := svc.Create(ctx, &domain.Actor{UserID: 2, Role: domain.RoleHair}, &models.CreateRoleRequest{Name: "nails", DisplayName: "Nehty"})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("reserved name", func(t *testing.T) {
		svc, _ := newTestService(nil)

		_, err := svc.Create(ctx, admin, &models.CreateRoleRequest{Name: "staff", DisplayName: "Personál"})
		assert.ErrorIs(t, err, ErrReservedRole)
	})

	t.Run("invalid name", func(t *testing.T) {
		svc, _ := newTestService(nil)

		_, err := svc.Create(ctx, admin, &models.CreateRoleRequest{Name: "1 bad name", DisplayName: "x"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(fakeProcedures{domain.RoleHair: 2})
	require.NoError(t, svc.EnsureDefaults(ctx))

	assert.ErrorIs(t, svc.Delete(ctx, admin, repo.byName(domain.RoleAdmin).ID), ErrReservedRole)
	assert.ErrorIs(t, svc.Delete(ctx, admin, repo.byName(domain.RoleHair).ID), ErrRoleInUse)
	assert.ErrorIs(t, svc.Delete(ctx, admin, 999), ErrRoleNotFound)

	massageID := repo.byName(domain.RoleMassage).ID
	assert.ErrorIs(t, svc.Delete(ctx, &domain.Actor{UserID: 5, Role: domain.RoleMassage}, massageID), ErrAccessDenied)
	require.NoError(t, svc.Delete(ctx, admin, massageID))
	assert.Nil(t, repo.byName(domain.RoleMassage))
}
