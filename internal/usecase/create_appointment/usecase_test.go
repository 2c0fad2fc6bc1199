package create_appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	procedureRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/procedure"
	"github.com/m04kA/SMC-SalonBooking/internal/service/authz"
	"github.com/m04kA/SMC-SalonBooking/internal/service/guard"
	"github.com/m04kA/SMC-SalonBooking/internal/service/notifier"
	"github.com/m04kA/SMC-SalonBooking/pkg/daylock"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// memoryStore записи в памяти: репозиторий и календарь одновременно.
// Create отклоняет второй активный слот с тем же началом, как уникальный индекс в БД.
type memoryStore struct {
	mu     sync.Mutex
	nextID int64
	items  []*domain.Appointment
	events []*domain.StaffEvent
}

func (m *memoryStore) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.IsActive() && existing.ServiceCategory == a.ServiceCategory && existing.Start.Equal(a.Start) {
			return nil, appointmentRepo.ErrSlotTaken
		}
	}
	m.nextID++
	c := *a
	c.ID = m.nextID
	m.items = append(m.items, &c)
	out := c
	return &out, nil
}

func (m *memoryStore) FindIntervals(_ context.Context, category string, from, to time.Time) ([]domain.Interval, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Interval
	for _, a := range m.items {
		if a.ServiceCategory == category && a.IsActive() && a.Start.Before(to) && a.End.After(from) {
			c := *a
			out = append(out, c.Interval())
		}
	}
	for _, e := range m.events {
		if e.ServiceCategory == category && e.Start.Before(to) && e.End.After(from) {
			c := *e
			out = append(out, c.Interval())
		}
	}
	return out, nil
}

func (m *memoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

type fakeProcedures struct {
	items map[int64]*domain.Procedure
}

func (f *fakeProcedures) GetByID(_ context.Context, id int64) (*domain.Procedure, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, procedureRepo.ErrProcedureNotFound
	}
	return p, nil
}

func (f *fakeProcedures) GetByIDs(_ context.Context, ids []int64) ([]*domain.Procedure, error) {
	var out []*domain.Procedure
	for _, id := range ids {
		if p, ok := f.items[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeReconciler struct {
	mu   sync.Mutex
	days []time.Time
	err  error
}

func (f *fakeReconciler) OnCreated(_ context.Context, day time.Time, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.days = append(f.days, day)
	return f.err
}

type fakeNotifier struct {
	mu    sync.Mutex
	kinds []notifier.Kind
}

func (f *fakeNotifier) Notify(kind notifier.Kind, _ *domain.Appointment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kinds = append(f.kinds, kind)
}

type fakeMetrics struct {
	mu        sync.Mutex
	created   int
	conflicts int
}

func (f *fakeMetrics) ObserveAppointment(_ string, action string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if action == actionCreated {
		f.created++
	}
}

func (f *fakeMetrics) ObserveConflict(string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conflicts++
}

type fixedHours struct{}

func (fixedHours) WorkingHours(context.Context, string) (domain.WorkingHours, error) {
	return domain.WorkingHours{StartHour: 9, EndHour: 17, GranularityMinutes: 15, Location: time.UTC}, nil
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// noLocker пропускает всех без блокировки: проверяет только защиту на уровне хранилища
type noLocker struct{}

func (noLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }

var (
	admin = &domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	hair  = &domain.Actor{UserID: 2, Role: domain.RoleHair}
	user  = &domain.Actor{UserID: 10, Role: domain.RoleUser}
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

type testEnv struct {
	uc         *UseCase
	store      *memoryStore
	reconciler *fakeReconciler
	notifier   *fakeNotifier
	metrics    *fakeMetrics
}

func newTestEnv(locker daylock.Locker) *testEnv {
	env := &testEnv{
		store:      &memoryStore{},
		reconciler: &fakeReconciler{},
		notifier:   &fakeNotifier{},
		metrics:    &fakeMetrics{},
	}
	procs := &fakeProcedures{items: map[int64]*domain.Procedure{
		1: {ID: 1, Name: "Střih", Price: 450, DurationMinutes: 60, ServiceCategory: domain.RoleHair},
		2: {ID: 2, Name: "Mytí", Price: 100, DurationMinutes: 15, ServiceCategory: domain.RoleHair},
		3: {ID: 3, Name: "Masáž", Price: 800, DurationMinutes: 60, ServiceCategory: domain.RoleMassage},
		4: {ID: 4, Name: "Staré", Price: 100, DurationMinutes: 30, ServiceCategory: domain.RoleHair, Disabled: true},
	}}
	g := guard.NewGuard(locker, passthroughTx{}, nopLogger{})
	env.uc = NewUseCase(env.store, procs, env.store, g, env.reconciler, fixedHours{},
		authz.NewOracle(), env.notifier, env.metrics, nopLogger{})
	env.uc.timeProvider = fixedTime{t: at(8, 0).AddDate(0, 0, -1)}
	return env
}

func validRequest(start time.Time) *Request {
	return &Request{
		ServiceCategory: domain.RoleHair,
		ProcedureID:     1,
		Lastname:        "Novák",
		Email:           ptr.Ptr("novak@example.com"),
		Start:           start,
	}
}

func TestExecute_AnonymousBooking(t *testing.T) {
	env := newTestEnv(daylock.NewLocalLocker())

	req := validRequest(at(10, 0))
	req.ExtraProcedureIDs = []int64{2}
	req.StaffNotes = ptr.Ptr("ignored")
	req.AllDay = true

	resp, err := env.uc.Execute(context.Background(), nil, req)
	require.NoError(t, err)

	assert.Nil(t, resp.CustomerID)
	assert.Equal(t, "Novák 75min", resp.Title)
	assert.Equal(t, at(11, 15), resp.End)
	assert.Equal(t, 550.0, resp.TotalPrice)
	assert.False(t, resp.AllDay)
	assert.Nil(t, resp.StaffNotes)
	require.Len(t, resp.ExtraProcedures, 1)
	assert.Equal(t, "Mytí", resp.ExtraProcedures[0].Name)

	assert.Equal(t, []time.Time{at(0, 0)}, env.reconciler.days)
	assert.Equal(t, []notifier.Kind{notifier.KindCreated}, env.notifier.kinds)
	assert.Equal(t, 1, env.metrics.created)
}

func TestExecute_CustomerAndStaffFields(t *testing.T) {
	t.Run("customer", func(t *testing.T) {
		env := newTestEnv(daylock.NewLocalLocker())
		resp, err := env.uc.Execute(context.Background(), user, validRequest(at(10, 0)))
		require.NoError(t, err)
		require.NotNil(t, resp.CustomerID)
		assert.Equal(t, user.UserID, *resp.CustomerID)
	})

	t.Run("staff keeps staff notes", func(t *testing.T) {
		env := newTestEnv(daylock.NewLocalLocker())
		req := validRequest(at(10, 0))
		req.StaffNotes = ptr.Ptr("alergie")
		req.AllDay = true

		resp, err := env.uc.Execute(context.Background(), hair, req)
		require.NoError(t, err)
		require.NotNil(t, resp.StaffNotes)
		assert.Equal(t, "alergie", *resp.StaffNotes)
		assert.False(t, resp.AllDay)
	})

	t.Run("admin may set all day", func(t *testing.T) {
		env := newTestEnv(daylock.NewLocalLocker())
		req := validRequest(at(10, 0))
		req.AllDay = true

		resp, err := env.uc.Execute(context.Background(), admin, req)
		require.NoError(t, err)
		assert.True(t, resp.AllDay)
		assert.Equal(t, at(9, 0), resp.Start)
		assert.Equal(t, at(17, 0), resp.End)
		assert.Equal(t, "Novák 60min", resp.Title)

		// день занят целиком
		_, err = env.uc.Execute(context.Background(), user, validRequest(at(15, 0)))
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("all day needs a free working day", func(t *testing.T) {
		env := newTestEnv(daylock.NewLocalLocker())
		_, err := env.uc.Execute(context.Background(), user, validRequest(at(16, 0)))
		require.NoError(t, err)

		req := validRequest(at(10, 0))
		req.AllDay = true
		_, err = env.uc.Execute(context.Background(), admin, req)
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})
}

func TestExecute_PhoneNormalized(t *testing.T) {
	env := newTestEnv(daylock.NewLocalLocker())
	req := validRequest(at(10, 0))
	req.Email = nil
	req.Phone = ptr.Ptr("+420 777 123 456")

	resp, err := env.uc.Execute(context.Background(), nil, req)
	require.NoError(t, err)
	require.NotNil(t, resp.Phone)
	assert.Equal(t, "420777123456", *resp.Phone)
}

func TestExecute_SlotNotAvailable(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		now   time.Time
	}{
		{"overlaps existing", at(10, 30), at(8, 0).AddDate(0, 0, -1)},
		{"ends inside existing", at(9, 15), at(8, 0).AddDate(0, 0, -1)},
		{"off grid", at(12, 7), at(8, 0).AddDate(0, 0, -1)},
		{"before opening", at(8, 0), at(8, 0).AddDate(0, 0, -1)},
		{"runs past closing", at(16, 15), at(8, 0).AddDate(0, 0, -1)},
		{"in the past", at(12, 0), at(13, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(daylock.NewLocalLocker())
			env.store.items = []*domain.Appointment{{
				ID: 100, ServiceCategory: domain.RoleHair, Start: at(10, 0), End: at(11, 0),
			}}
			env.uc.timeProvider = fixedTime{t: tt.now}

			_, err := env.uc.Execute(context.Background(), nil, validRequest(tt.start))
			assert.ErrorIs(t, err, ErrSlotNotAvailable)
			assert.Equal(t, 1, env.store.count())
			assert.Equal(t, 1, env.metrics.conflicts)
			assert.Empty(t, env.notifier.kinds)
			assert.Empty(t, env.reconciler.days)
		})
	}
}

func TestExecute_BlockedByStaffEvent(t *testing.T) {
	env := newTestEnv(daylock.NewLocalLocker())
	env.store.events = []*domain.StaffEvent{{
		ID: 5, ServiceCategory: domain.RoleHair, EventType: domain.StaffEventVacation, Start: at(0, 0), End: at(0, 0).AddDate(0, 0, 1),
	}}

	_, err := env.uc.Execute(context.Background(), nil, validRequest(at(10, 0)))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_AdjacentToExisting(t *testing.T) {
	env := newTestEnv(daylock.NewLocalLocker())
	env.store.items = []*domain.Appointment{{
		ID: 100, ServiceCategory: domain.RoleHair, Start: at(10, 0), End: at(11, 0),
	}}

	_, err := env.uc.Execute(context.Background(), nil, validRequest(at(11, 0)))
	require.NoError(t, err)

	_, err = env.uc.Execute(context.Background(), nil, validRequest(at(9, 0)))
	require.NoError(t, err)
}

func TestExecute_ReconcileFailureStillSucceeds(t *testing.T) {
	env := newTestEnv(daylock.NewLocalLocker())
	env.reconciler.err = errors.New("marker insert failed")

	resp, err := env.uc.Execute(context.Background(), nil, validRequest(at(10, 0)))
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, []notifier.Kind{notifier.KindCreated}, env.notifier.kinds)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{"missing category", func(r *Request) { r.ServiceCategory = "" }, ErrInvalidInput},
		{"missing procedure", func(r *Request) { r.ProcedureID = 0 }, ErrInvalidInput},
		{"missing lastname", func(r *Request) { r.Lastname = "  " }, ErrInvalidInput},
		{"no contact", func(r *Request) { r.Email = nil }, ErrInvalidInput},
		{"bad email", func(r *Request) { r.Email = ptr.Ptr("not-an-email") }, ErrInvalidInput},
		{"bad phone", func(r *Request) { r.Email = nil; r.Phone = ptr.Ptr("12ab") }, ErrInvalidInput},
		{"long notes", func(r *Request) { r.Notes = ptr.Ptr(string(make([]rune, domain.MaxNotesLength+1))) }, ErrInvalidInput},
		{"too many extras", func(r *Request) { r.ExtraProcedureIDs = []int64{2, 2, 2, 2, 2, 2} }, ErrInvalidInput},
		{"repeated extra", func(r *Request) { r.ExtraProcedureIDs = []int64{2, 2} }, ErrInvalidInput},
		{"extra equals base", func(r *Request) { r.ExtraProcedureIDs = []int64{r.ProcedureID} }, ErrInvalidInput},
		{"missing start", func(r *Request) { r.Start = time.Time{} }, ErrInvalidInput},
		{"unknown procedure", func(r *Request) { r.ProcedureID = 99 }, ErrProcedureNotFound},
		{"disabled procedure", func(r *Request) { r.ProcedureID = 4 }, ErrProcedureNotFound},
		{"category mismatch", func(r *Request) { r.ProcedureID = 3 }, ErrInvalidInput},
		{"unknown extra", func(r *Request) { r.ExtraProcedureIDs = []int64{77} }, ErrProcedureNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(daylock.NewLocalLocker())
			req := validRequest(at(10, 0))
			tt.mutate(req)

			_, err := env.uc.Execute(context.Background(), nil, req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, env.store.count())
		})
	}
}

func TestExecute_ConcurrentSameSlot(t *testing.T) {
	lockers := map[string]daylock.Locker{
		"day lock":       daylock.NewLocalLocker(),
		"storage unique": noLocker{},
	}

	for name, locker := range lockers {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(locker)

			const workers = 8
			var (
				wg      sync.WaitGroup
				mu      sync.Mutex
				success int
				errs    []error
			)

			start := make(chan struct{})
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					_, err := env.uc.Execute(context.Background(), nil, validRequest(at(10, 0)))
					mu.Lock()
					defer mu.Unlock()
					if err == nil {
						success++
						return
					}
					errs = append(errs, err)
				}()
			}
			close(start)
			wg.Wait()

			assert.Equal(t, 1, success)
			require.Len(t, errs, workers-1)
			for _, err := range errs {
				assert.ErrorIs(t, err, ErrSlotNotAvailable)
			}
			assert.Equal(t, 1, env.store.count())
			assert.Equal(t, workers-1, env.metrics.conflicts)
		})
	}
}

// serializationCalendar отдает ошибку сериализации PostgreSQL на первых failures вызовах
type serializationCalendar struct {
	*memoryStore
	failures int
	calls    int
}

func (c *serializationCalendar) FindIntervals(ctx context.Context, category string, from, to time.Time) ([]domain.Interval, error) {
	c.calls++
	if c.calls <= c.failures {
		return nil, &pq.Error{Code: "40001", Message: "could not serialize access"}
	}
	return c.memoryStore.FindIntervals(ctx, category, from, to)
}

// retryingTx повторяет функцию так же, как txmanager.DoSerializable
type retryingTx struct {
	attempts int
}

func (r *retryingTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for i := 0; i < txmanager.DefaultMaxRetries; i++ {
		r.attempts++
		if err = fn(ctx); err == nil || !txmanager.IsRetryable(err) {
			return err
		}
	}
	return err
}

func TestExecute_RetriesSerializationFailure(t *testing.T) {
	env := newTestEnv(daylock.NewLocalLocker())
	cal := &serializationCalendar{memoryStore: env.store, failures: 1}
	tx := &retryingTx{}
	env.uc.calendar = cal
	env.uc.guard = guard.NewGuard(daylock.NewLocalLocker(), tx, nopLogger{})

	resp, err := env.uc.Execute(context.Background(), nil, validRequest(at(10, 0)))
	require.NoError(t, err)

	assert.Equal(t, 2, tx.attempts)
	assert.Equal(t, at(10, 0), resp.Start)
	assert.Equal(t, 1, env.store.count())
}

func TestExecute_SerializationFailureKeepsDriverError(t *testing.T) {
	env := newTestEnv(daylock.NewLocalLocker())
	env.uc.calendar = &serializationCalendar{memoryStore: env.store, failures: 10}
	env.uc.guard = guard.NewGuard(daylock.NewLocalLocker(), &retryingTx{}, nopLogger{})

	_, err := env.uc.Execute(context.Background(), nil, validRequest(at(10, 0)))
	require.ErrorIs(t, err, ErrInternal)
	assert.True(t, txmanager.IsRetryable(err))
	assert.Zero(t, env.store.count())
}
