package reconciler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type mutableHours struct {
	hours domain.WorkingHours
}

func (m *mutableHours) WorkingHours(context.Context, string) (domain.WorkingHours, error) {
	return m.hours, nil
}

type recordingGuard struct {
	days []time.Time
}

func (g *recordingGuard) Do(
	ctx context.Context,
	_ string,
	days []time.Time,
	write func(txCtx context.Context) error,
	after func(ctx context.Context) error,
) error {
	g.days = append(g.days, days...)
	if write != nil {
		if err := write(ctx); err != nil {
			return err
		}
	}
	return after(ctx)
}

func newTestRefresher(cal *fakeCalendar, hp *mutableHours, g DayGuard) *Refresher {
	svc := NewService(cal, cal, hp, nil, nopLogger{})
	r := NewRefresher(cal, g, svc, hp, 30, nopLogger{})
	r.now = func() time.Time { return day(9, 8, 0) }
	return r
}

func TestRefresher_LongerHoursRemoveMarker(t *testing.T) {
	ctx := context.Background()
	cal := &fakeCalendar{}
	hp := &mutableHours{hours: domain.WorkingHours{StartHour: 7, EndHour: 17, GranularityMinutes: 15, Location: time.UTC}}
	g := &recordingGuard{}
	r := newTestRefresher(cal, hp, g)

	cal.book("hair", day(10, 7, 0), day(10, 17, 0))
	cal.book("hair", day(12, 9, 0), day(12, 10, 0))
	cal.book("hair", day(5, 7, 0), day(5, 17, 0))
	require.NoError(t, r.reconciler.AfterMutation(ctx, day(10, 0, 0), "hair"))
	require.Len(t, cal.markers("hair"), 1)

	hp.hours.EndHour = 19

	n, err := r.RefreshCategory(ctx, "hair")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []time.Time{day(10, 0, 0), day(12, 0, 0)}, g.days)
	assert.Empty(t, cal.markers("hair"))
}

func TestRefresher_ShorterHoursCreateMarker(t *testing.T) {
	ctx := context.Background()
	cal := &fakeCalendar{}
	hp := &mutableHours{hours: domain.WorkingHours{StartHour: 7, EndHour: 17, GranularityMinutes: 15, Location: time.UTC}}
	r := newTestRefresher(cal, hp, &recordingGuard{})

	cal.book("hair", day(12, 9, 0), day(12, 17, 0))
	require.NoError(t, r.reconciler.AfterMutation(ctx, day(12, 0, 0), "hair"))
	require.Empty(t, cal.markers("hair"))

	hp.hours.StartHour = 9

	_, err := r.RefreshCategory(ctx, "hair")
	require.NoError(t, err)

	markers := cal.markers("hair")
	require.Len(t, markers, 1)
	assert.Equal(t, day(12, 0, 0), markers[0].Start)
}

func TestRefresher_CalendarError(t *testing.T) {
	cal := &fakeCalendar{findErr: errors.New("db down")}
	hp := &mutableHours{hours: domain.WorkingHours{StartHour: 7, EndHour: 17, GranularityMinutes: 15, Location: time.UTC}}
	g := &recordingGuard{}
	r := newTestRefresher(cal, hp, g)

	_, err := r.RefreshCategory(context.Background(), "hair")
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, g.days)
}

func TestTouchedDays_ClipsToRange(t *testing.T) {
	hours := domain.WorkingHours{StartHour: 7, EndHour: 17, GranularityMinutes: 15, Location: time.UTC}
	intervals := []domain.Interval{
		{Start: day(8, 10, 0), End: day(11, 12, 0)},
		{Start: day(10, 9, 0), End: day(10, 10, 0)},
		{Start: day(20, 9, 0), End: day(20, 10, 0)},
	}

	got := touchedDays(hours, intervals, day(9, 0, 0), day(12, 0, 0))
	assert.Equal(t, []time.Time{day(9, 0, 0), day(10, 0, 0), day(11, 0, 0)}, got)
}
