package appointments

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonBooking/internal/service/authz"
	"github.com/m04kA/SMC-SalonBooking/internal/service/guard"
	"github.com/m04kA/SMC-SalonBooking/internal/service/notifier"
	"github.com/m04kA/SMC-SalonBooking/pkg/daylock"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeRepo struct {
	mu    sync.Mutex
	items map[int64]*domain.Appointment
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	c := *a
	return &c, nil
}

func (f *fakeRepo) List(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Appointment
	for _, a := range f.items {
		if filter.CustomerID != nil && !a.IsOwnedBy(*filter.CustomerID) {
			continue
		}
		if filter.ServiceCategory != nil && a.ServiceCategory != *filter.ServiceCategory {
			continue
		}
		if a.Canceled && !filter.IncludeCanceled {
			continue
		}
		c := *a
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeRepo) SetCanceled(_ context.Context, id int64, canceled bool, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Canceled = canceled
	a.CanceledAt = &at
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	delete(f.items, id)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeReconciler struct {
	days []time.Time
	err  error
}

func (f *fakeReconciler) AfterRemoval(_ context.Context, day time.Time, _ string) error {
	f.days = append(f.days, day)
	return f.err
}

type fixedHours struct{}

func (fixedHours) WorkingHours(context.Context, string) (domain.WorkingHours, error) {
	return domain.WorkingHours{StartHour: 7, EndHour: 17, GranularityMinutes: 15, Location: time.UTC}, nil
}

type fakeNotifier struct {
	kinds []notifier.Kind
}

func (f *fakeNotifier) Notify(kind notifier.Kind, _ *domain.Appointment) {
	f.kinds = append(f.kinds, kind)
}

type countingMetrics map[string]int

func (m countingMetrics) ObserveAppointment(_ string, action string) { m[action]++ }

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

var (
	now      = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	admin    = &domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	hair     = &domain.Actor{UserID: 2, Role: domain.RoleHair}
	massage  = &domain.Actor{UserID: 3, Role: domain.RoleMassage}
	author   = &domain.Actor{UserID: 10, Role: domain.RoleUser}
	stranger = &domain.Actor{UserID: 11, Role: domain.RoleUser}
)

type testEnv struct {
	svc        *Service
	repo       *fakeRepo
	reconciler *fakeReconciler
	notifier   *fakeNotifier
	metrics    countingMetrics
}

func newTestEnv(items ...*domain.Appointment) *testEnv {
	repo := &fakeRepo{items: map[int64]*domain.Appointment{}}
	for _, a := range items {
		repo.items[a.ID] = a
	}
	env := &testEnv{
		repo:       repo,
		reconciler: &fakeReconciler{},
		notifier:   &fakeNotifier{},
		metrics:    countingMetrics{},
	}
	g := guard.NewGuard(daylock.NewLocalLocker(), passthroughTx{}, nopLogger{})
	env.svc = NewService(repo, g, env.reconciler, fixedHours{}, authz.NewOracle(), env.notifier, env.metrics, 24*time.Hour, nopLogger{})
	env.svc.timeProvider = fixedTime{t: now}
	return env
}

func appointmentAt(id int64, start time.Time) *domain.Appointment {
	a := &domain.Appointment{
		ID:              id,
		ServiceCategory: domain.RoleHair,
		CustomerID:      ptr.Ptr(author.UserID),
		Lastname:        "Nováková",
		ProcedureID:     3,
		ProcedureName:   "Střih",
		DurationMinutes: 60,
		Notes:           ptr.Ptr("prosím krátce"),
		StaffNotes:      ptr.Ptr("alergie na barvy"),
		Start:           start,
	}
	a.Recalculate()
	return a
}

func TestService_GetByID_StaffNotesVisibility(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(appointmentAt(1, now.Add(48*time.Hour)))

	own, err := env.svc.GetByID(ctx, author, 1)
	require.NoError(t, err)
	assert.Nil(t, own.StaffNotes)
	assert.NotNil(t, own.Notes)

	staff, err := env.svc.GetByID(ctx, hair, 1)
	require.NoError(t, err)
	require.NotNil(t, staff.StaffNotes)
	assert.Equal(t, "alergie na barvy", *staff.StaffNotes)

	_, err = env.svc.GetByID(ctx, stranger, 1)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = env.svc.GetByID(ctx, massage, 1)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = env.svc.GetByID(ctx, nil, 1)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = env.svc.GetByID(ctx, admin, 99)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestService_ListCalendar(t *testing.T) {
	ctx := context.Background()
	canceled := appointmentAt(2, now.Add(26*time.Hour))
	canceled.Canceled = true
	env := newTestEnv(appointmentAt(1, now.Add(25*time.Hour)), canceled)
	from, to := now, now.AddDate(0, 0, 7)

	resp, err := env.svc.ListCalendar(ctx, hair, domain.RoleHair, from, to, false)
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)
	assert.NotNil(t, resp.Appointments[0].StaffNotes)

	resp, err = env.svc.ListCalendar(ctx, hair, domain.RoleHair, from, to, true)
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 2)

	_, err = env.svc.ListCalendar(ctx, author, domain.RoleHair, from, to, false)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = env.svc.ListCalendar(ctx, hair, domain.RoleHair, to, from, false)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.svc.ListCalendar(ctx, hair, domain.RoleHair, from, from.AddDate(0, 0, domain.MaxRangeDays+1), false)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ListMy(t *testing.T) {
	ctx := context.Background()
	other := appointmentAt(2, now.Add(30*time.Hour))
	other.CustomerID = ptr.Ptr(stranger.UserID)
	env := newTestEnv(appointmentAt(1, now.Add(25*time.Hour)), other)

	resp, err := env.svc.ListMy(ctx, author)
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, int64(1), resp.Appointments[0].ID)
	assert.Nil(t, resp.Appointments[0].StaffNotes)

	_, err = env.svc.ListMy(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("author before cutoff", func(t *testing.T) {
		env := newTestEnv(appointmentAt(1, now.Add(48*time.Hour)))

		resp, err := env.svc.Cancel(ctx, author, 1)
		require.NoError(t, err)
		assert.True(t, resp.Canceled)
		assert.True(t, env.repo.items[1].Canceled)
		assert.Equal(t, []time.Time{time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)}, env.reconciler.days)
		assert.Equal(t, []notifier.Kind{notifier.KindCanceled}, env.notifier.kinds)
		assert.Equal(t, 1, env.metrics[actionCanceled])
	})

	t.Run("author within cutoff", func(t *testing.T) {
		env := newTestEnv(appointmentAt(1, now.Add(23*time.Hour)))

		_, err := env.svc.Cancel(ctx, author, 1)
		assert.ErrorIs(t, err, ErrCancellationTooLate)
		assert.False(t, env.repo.items[1].Canceled)
		assert.Empty(t, env.notifier.kinds)
	})

	t.Run("staff within cutoff", func(t *testing.T) {
		env := newTestEnv(appointmentAt(1, now.Add(time.Hour)))

		_, err := env.svc.Cancel(ctx, hair, 1)
		require.NoError(t, err)
		assert.True(t, env.repo.items[1].Canceled)
	})

	t.Run("stranger", func(t *testing.T) {
		env := newTestEnv(appointmentAt(1, now.Add(48*time.Hour)))

		_, err := env.svc.Cancel(ctx, stranger, 1)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("already canceled", func(t *testing.T) {
		a := appointmentAt(1, now.Add(48*time.Hour))
		a.Canceled = true
		env := newTestEnv(a)

		_, err := env.svc.Cancel(ctx, hair, 1)
		assert.ErrorIs(t, err, ErrAlreadyCanceled)
	})

	t.Run("reconciliation failure keeps cancellation", func(t *testing.T) {
		env := newTestEnv(appointmentAt(1, now.Add(48*time.Hour)))
		env.reconciler.err = errors.New("db down")

		resp, err := env.svc.Cancel(ctx, hair, 1)
		require.NoError(t, err)
		assert.True(t, resp.Canceled)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(appointmentAt(1, now.Add(48*time.Hour)))

	assert.ErrorIs(t, env.svc.Delete(ctx, hair, 1), ErrAccessDenied)
	require.NoError(t, env.svc.Delete(ctx, admin, 1))
	assert.NotContains(t, env.repo.items, int64(1))
	assert.Len(t, env.reconciler.days, 1)
	assert.Equal(t, 1, env.metrics[actionDeleted])

	assert.ErrorIs(t, env.svc.Delete(ctx, admin, 1), ErrAppointmentNotFound)
}
