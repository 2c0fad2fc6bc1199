package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	roleRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/role"
	scheduleRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SalonBooking/internal/service/authz"
	"github.com/m04kA/SMC-SalonBooking/internal/service/schedule/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeSchedules struct {
	items map[string]*domain.CategorySchedule
	err   error
}

func (f *fakeSchedules) GetByCategory(_ context.Context, category string) (*domain.CategorySchedule, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.items[category]
	if !ok {
		return nil, scheduleRepo.ErrScheduleNotFound
	}
	return s, nil
}

func (f *fakeSchedules) Upsert(_ context.Context, s *domain.CategorySchedule) (*domain.CategorySchedule, error) {
	saved := *s
	saved.UpdatedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f.items[s.ServiceCategory] = &saved
	return &saved, nil
}

func (f *fakeSchedules) Delete(_ context.Context, category string) error {
	if _, ok := f.items[category]; !ok {
		return scheduleRepo.ErrScheduleNotFound
	}
	delete(f.items, category)
	return nil
}

type fakeRoles map[string]domain.Role

func (f fakeRoles) GetByName(_ context.Context, name string) (*domain.Role, error) {
	r, ok := f[name]
	if !ok {
		return nil, roleRepo.ErrRoleNotFound
	}
	return &r, nil
}

func newTestService() (*Service, *fakeSchedules) {
	repo := &fakeSchedules{items: map[string]*domain.CategorySchedule{}}
	roles := fakeRoles{
		domain.RoleHair:  {Name: domain.RoleHair, IsCategory: true},
		domain.RoleAdmin: {Name: domain.RoleAdmin},
	}
	defaults := domain.WorkingHours{StartHour: 7, EndHour: 17, GranularityMinutes: 15, Location: time.UTC}
	return NewService(repo, roles, authz.NewOracle(), defaults, nopLogger{}), repo
}

var admin = &domain.Actor{UserID: 1, Role: domain.RoleAdmin}

func TestService_WorkingHours_FallsBackToDefaults(t *testing.T) {
	svc, _ := newTestService()

	hours, err := svc.WorkingHours(context.Background(), domain.RoleHair)
	require.NoError(t, err)
	assert.Equal(t, 7, hours.StartHour)
	assert.Equal(t, 17, hours.EndHour)
	assert.Equal(t, 15, hours.GranularityMinutes)
}

func TestService_WorkingHours_UsesOverride(t *testing.T) {
	svc, repo := newTestService()
	repo.items[domain.RoleHair] = &domain.CategorySchedule{ServiceCategory: domain.RoleHair, WorkStartHour: 9, WorkEndHour: 19}

	hours, err := svc.WorkingHours(context.Background(), domain.RoleHair)
	require.NoError(t, err)
	assert.Equal(t, 9, hours.StartHour)
	assert.Equal(t, 19, hours.EndHour)
	assert.Equal(t, time.UTC, hours.Location)
}

func TestService_WorkingHours_RepositoryError(t *testing.T) {
	svc, repo := newTestService()
	repo.err = errors.New("connection refused")

	_, err := svc.WorkingHours(context.Background(), domain.RoleHair)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("admin sets hours", func(t *testing.T) {
		svc, _ := newTestService()

		resp, err := svc.Update(ctx, admin, domain.RoleHair, &models.UpdateScheduleRequest{WorkStartHour: 8, WorkEndHour: 20})
		require.NoError(t, err)
		assert.False(t, resp.IsDefault)
		assert.Equal(t, 8, resp.WorkStartHour)

		got, err := svc.Get(ctx, domain.RoleHair)
		require.NoError(t, err)
		assert.Equal(t, 20, got.WorkEndHour)
		assert.NotNil(t, got.UpdatedAt)
	})

	t.Run("staff is rejected", func(t *testing.T) {
		svc, _ := newTestService()
		staff := &domain.Actor{UserID: 2, Role: domain.RoleHair}

		_, err := svc.Update(ctx, staff, domain.RoleHair, &models.UpdateScheduleRequest{WorkStartHour: 8, WorkEndHour: 20})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("inverted hours", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Update(ctx, admin, domain.RoleHair, &models.UpdateScheduleRequest{WorkStartHour: 18, WorkEndHour: 9})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("non-category role", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Update(ctx, admin, domain.RoleAdmin, &models.UpdateScheduleRequest{WorkStartHour: 8, WorkEndHour: 16})
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}

func TestService_Reset(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	repo.items[domain.RoleHair] = &domain.CategorySchedule{ServiceCategory: domain.RoleHair, WorkStartHour: 9, WorkEndHour: 19}

	require.NoError(t, svc.Reset(ctx, admin, domain.RoleHair))

	got, err := svc.Get(ctx, domain.RoleHair)
	require.NoError(t, err)
	assert.True(t, got.IsDefault)
	assert.Equal(t, 7, got.WorkStartHour)

	assert.ErrorIs(t, svc.Reset(ctx, admin, domain.RoleHair), ErrScheduleNotFound)
}

type fakeRefresher struct {
	categories []string
	err        error
}

func (f *fakeRefresher) RefreshCategory(_ context.Context, category string) (int, error) {
	f.categories = append(f.categories, category)
	return 1, f.err
}

func TestService_HoursChangeRefreshesMarkers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	markers := &fakeRefresher{}
	svc.SetMarkerRefresher(markers)

	_, err := svc.Update(ctx, admin, domain.RoleHair, &models.UpdateScheduleRequest{WorkStartHour: 8, WorkEndHour: 20})
	require.NoError(t, err)
	require.NoError(t, svc.Reset(ctx, admin, domain.RoleHair))
	assert.Equal(t, []string{domain.RoleHair, domain.RoleHair}, markers.categories)

	// отклоненное изменение маркеры не трогает
	_, err = svc.Update(ctx, admin, domain.RoleHair, &models.UpdateScheduleRequest{WorkStartHour: 18, WorkEndHour: 9})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, svc.Reset(ctx, admin, domain.RoleHair), ErrScheduleNotFound)
	assert.Len(t, markers.categories, 2)

	// часы сохранены, даже если пересчет не удался
	markers.err = errors.New("redis down")
	resp, err := svc.Update(ctx, admin, domain.RoleHair, &models.UpdateScheduleRequest{WorkStartHour: 9, WorkEndHour: 18})
	require.NoError(t, err)
	assert.Equal(t, 9, resp.WorkStartHour)
}

func TestService_Get_UnknownCategory(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Get(context.Background(), "nails")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
