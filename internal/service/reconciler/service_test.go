package reconciler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fakeCalendar хранит записи и служебные события в памяти
type fakeCalendar struct {
	mu           sync.Mutex
	appointments []*domain.Appointment
	events       []*domain.StaffEvent
	nextID       int64
	findErr      error
}

func (f *fakeCalendar) FindIntervals(_ context.Context, category string, from, to time.Time) ([]domain.Interval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findErr != nil {
		return nil, f.findErr
	}

	var result []domain.Interval
	for _, a := range f.appointments {
		if a.ServiceCategory == category && !a.Canceled && a.Start.Before(to) && a.End.After(from) {
			result = append(result, a.Interval())
		}
	}
	for _, e := range f.events {
		if e.ServiceCategory == category && e.Start.Before(to) && e.End.After(from) {
			result = append(result, e.Interval())
		}
	}
	return result, nil
}

func (f *fakeCalendar) FindOccupiedMarker(_ context.Context, category string, dayStart time.Time) (*domain.StaffEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, e := range f.events {
		if e.IsOccupiedMarker() && e.ServiceCategory == category && e.Start.Equal(dayStart) {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeCalendar) InsertOccupiedMarker(_ context.Context, marker *domain.StaffEvent) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, e := range f.events {
		if e.IsOccupiedMarker() && e.ServiceCategory == marker.ServiceCategory && e.Start.Equal(marker.Start) {
			return false, nil
		}
	}
	f.nextID++
	marker.ID = f.nextID
	f.events = append(f.events, marker)
	return true, nil
}

func (f *fakeCalendar) DeleteOccupiedMarkers(_ context.Context, category string, dayStart time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.events[:0]
	var deleted int64
	for _, e := range f.events {
		if e.IsOccupiedMarker() && e.ServiceCategory == category && e.Start.Equal(dayStart) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	f.events = kept
	return deleted, nil
}

func (f *fakeCalendar) WorkingHours(context.Context, string) (domain.WorkingHours, error) {
	return domain.WorkingHours{StartHour: 7, EndHour: 17, GranularityMinutes: 15, Location: time.UTC}, nil
}

func (f *fakeCalendar) book(category string, start, end time.Time) *domain.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	a := &domain.Appointment{ID: f.nextID, ServiceCategory: category, Start: start, End: end}
	f.appointments = append(f.appointments, a)
	return a
}

func (f *fakeCalendar) markers(category string) []*domain.StaffEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*domain.StaffEvent
	for _, e := range f.events {
		if e.IsOccupiedMarker() && e.ServiceCategory == category {
			result = append(result, e)
		}
	}
	return result
}

type countingMetrics struct {
	created, deleted int
}

func (m *countingMetrics) ObserveMarker(_ string, action string) {
	if action == actionCreated {
		m.created++
	} else {
		m.deleted++
	}
}

func day(d, hour, minute int) time.Time {
	return time.Date(2025, 3, d, hour, minute, 0, 0, time.UTC)
}

func newTestService(cal *fakeCalendar, m Metrics) *Service {
	return NewService(cal, cal, cal, m, nopLogger{})
}

// fillDayExcept занимает весь рабочий день категории, оставляя свободным [gapStart, gapEnd)
func fillDayExcept(cal *fakeCalendar, category string, d int, gapStart, gapEnd time.Time) {
	if gapStart.After(day(d, 7, 0)) {
		cal.book(category, day(d, 7, 0), gapStart)
	}
	if gapEnd.Before(day(d, 17, 0)) {
		cal.book(category, gapEnd, day(d, 17, 0))
	}
}

func TestOnCreated_LastSlotCreatesSingleMarker(t *testing.T) {
	cal := &fakeCalendar{}
	m := &countingMetrics{}
	svc := newTestService(cal, m)
	ctx := context.Background()

	fillDayExcept(cal, "hair", 10, day(10, 12, 0), day(10, 12, 30))

	require.NoError(t, svc.OnCreated(ctx, day(10, 9, 0), "hair"))
	assert.Empty(t, cal.markers("hair"), "day still has a free slot")

	last := cal.book("hair", day(10, 12, 0), day(10, 12, 30))
	require.NoError(t, svc.OnCreated(ctx, last.Start, "hair"))

	markers := cal.markers("hair")
	require.Len(t, markers, 1)
	assert.True(t, markers[0].AllDay)
	assert.Nil(t, markers[0].StaffID)
	assert.Equal(t, day(10, 0, 0), markers[0].Start)
	assert.Equal(t, day(11, 0, 0), markers[0].End)
	assert.Equal(t, 1, m.created)

	// другая категория не затрагивается
	assert.Empty(t, cal.markers("massage"))
}

func TestCancelRemovesMarker(t *testing.T) {
	cal := &fakeCalendar{}
	svc := newTestService(cal, nil)
	ctx := context.Background()

	fillDayExcept(cal, "hair", 10, day(10, 16, 45), day(10, 17, 0))
	last := cal.book("hair", day(10, 16, 45), day(10, 17, 0))
	require.NoError(t, svc.AfterMutation(ctx, last.Start, "hair"))
	require.Len(t, cal.markers("hair"), 1)

	last.Canceled = true
	require.NoError(t, svc.AfterMutation(ctx, last.Start, "hair"))
	assert.Empty(t, cal.markers("hair"))
}

func TestAfterRemoval_RechecksDay(t *testing.T) {
	cal := &fakeCalendar{}
	svc := newTestService(cal, nil)
	ctx := context.Background()

	fillDayExcept(cal, "hair", 10, day(10, 12, 0), day(10, 12, 30))
	booked := cal.book("hair", day(10, 12, 0), day(10, 12, 30))
	require.NoError(t, svc.OnCreated(ctx, booked.Start, "hair"))
	require.Len(t, cal.markers("hair"), 1)

	// блок сотрудника поверх той же половины часа: после отмены день остается занятым
	block := &domain.StaffEvent{
		ID: 100, ServiceCategory: "hair", EventType: domain.StaffEventManualBlock,
		Start: day(10, 12, 0), End: day(10, 12, 30),
	}
	cal.events = append(cal.events, block)
	booked.Canceled = true
	require.NoError(t, svc.AfterRemoval(ctx, booked.Start, "hair"))
	assert.Len(t, cal.markers("hair"), 1)

	block.End = block.Start
	require.NoError(t, svc.AfterRemoval(ctx, booked.Start, "hair"))
	assert.Empty(t, cal.markers("hair"))
}

func TestIsDayFullyBooked(t *testing.T) {
	cal := &fakeCalendar{}
	svc := newTestService(cal, nil)
	ctx := context.Background()

	full, err := svc.IsDayFullyBooked(ctx, day(10, 9, 0), "hair")
	require.NoError(t, err)
	assert.False(t, full)

	cal.book("hair", day(10, 7, 0), day(10, 17, 0))
	full, err = svc.IsDayFullyBooked(ctx, day(10, 9, 0), "hair")
	require.NoError(t, err)
	assert.True(t, full)
}

func TestAfterMutation_Idempotent(t *testing.T) {
	cal := &fakeCalendar{}
	m := &countingMetrics{}
	svc := newTestService(cal, m)
	ctx := context.Background()

	cal.book("hair", day(10, 7, 0), day(10, 17, 0))

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.AfterMutation(ctx, day(10, 0, 0), "hair"))
		assert.Len(t, cal.markers("hair"), 1)
	}
	assert.Equal(t, 1, m.created)
	assert.Equal(t, 0, m.deleted)
}

func TestAfterMutation_ConcurrentCallsKeepOneMarker(t *testing.T) {
	cal := &fakeCalendar{}
	svc := newTestService(cal, nil)

	cal.book("hair", day(10, 7, 0), day(10, 17, 0))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.AfterMutation(context.Background(), day(10, 8, 0), "hair"))
		}()
	}
	wg.Wait()

	assert.Len(t, cal.markers("hair"), 1)
}

func TestOnFreed_UnconditionalDelete(t *testing.T) {
	cal := &fakeCalendar{}
	svc := newTestService(cal, nil)
	ctx := context.Background()

	cal.book("hair", day(10, 7, 0), day(10, 17, 0))
	require.NoError(t, svc.OnCreated(ctx, day(10, 0, 0), "hair"))
	require.Len(t, cal.markers("hair"), 1)

	// день все еще занят, но OnFreed удаляет маркер без проверки
	require.NoError(t, svc.OnFreed(ctx, day(10, 0, 0), "hair"))
	assert.Empty(t, cal.markers("hair"))

	require.NoError(t, svc.OnFreed(ctx, day(10, 0, 0), "hair"))
}

func TestAfterReschedule_MovesMarker(t *testing.T) {
	cal := &fakeCalendar{}
	svc := newTestService(cal, nil)
	ctx := context.Background()

	fillDayExcept(cal, "hair", 10, day(10, 12, 0), day(10, 13, 0))
	moving := cal.book("hair", day(10, 12, 0), day(10, 13, 0))
	require.NoError(t, svc.OnCreated(ctx, moving.Start, "hair"))
	require.Len(t, cal.markers("hair"), 1)

	fillDayExcept(cal, "hair", 11, day(11, 12, 0), day(11, 13, 0))

	oldStart := moving.Start
	moving.Start, moving.End = day(11, 12, 0), day(11, 13, 0)
	require.NoError(t, svc.AfterReschedule(ctx, oldStart, moving.Start, "hair"))

	markers := cal.markers("hair")
	require.Len(t, markers, 1)
	assert.Equal(t, day(11, 0, 0), markers[0].Start)
}

func TestAfterReschedule_OldDayStaysFull(t *testing.T) {
	cal := &fakeCalendar{}
	svc := newTestService(cal, nil)
	ctx := context.Background()

	cal.book("hair", day(10, 7, 0), day(10, 17, 0))
	require.NoError(t, svc.OnCreated(ctx, day(10, 0, 0), "hair"))

	require.NoError(t, svc.AfterReschedule(ctx, day(10, 9, 0), day(12, 9, 0), "hair"))

	markers := cal.markers("hair")
	require.Len(t, markers, 1)
	assert.Equal(t, day(10, 0, 0), markers[0].Start)
}

func TestAfterSpan_EachDay(t *testing.T) {
	cal := &fakeCalendar{}
	svc := newTestService(cal, nil)

	vacation := &domain.StaffEvent{
		ServiceCategory: "hair",
		EventType:       domain.StaffEventVacation,
		Start:           day(10, 0, 0),
		End:             day(13, 0, 0),
		AllDay:          true,
	}
	cal.events = append(cal.events, vacation)

	require.NoError(t, svc.AfterSpan(context.Background(), vacation.Start, vacation.End, "hair"))
	assert.Len(t, cal.markers("hair"), 3)
}

func TestSpanDays(t *testing.T) {
	hours := domain.WorkingHours{Location: time.UTC}

	assert.Len(t, SpanDays(hours, day(10, 9, 0), day(10, 10, 0)), 1)
	assert.Len(t, SpanDays(hours, day(10, 0, 0), day(11, 0, 0)), 1)
	assert.Len(t, SpanDays(hours, day(10, 22, 0), day(11, 1, 0)), 2)
}

func TestErrors(t *testing.T) {
	cal := &fakeCalendar{findErr: errors.New("db down")}
	svc := newTestService(cal, nil)

	err := svc.AfterMutation(context.Background(), day(10, 0, 0), "hair")
	assert.ErrorIs(t, err, ErrInternal)

	err = svc.OnCreated(context.Background(), day(10, 0, 0), "")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}
