package staffevents

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/staffevents/models"
)

var defaultTitles = map[domain.StaffEventType]string{
	domain.StaffEventVacation:    "Dovolená",
	domain.StaffEventManualBlock: "Blokováno",
}

// buildEvent проверяет запрос и собирает событие.
// Событие на весь день растягивается от полуночи до полуночи в часовом поясе категории.
func buildEvent(req *models.CreateStaffEventRequest, hours domain.WorkingHours) (*domain.StaffEvent, error) {
	if strings.TrimSpace(req.ServiceCategory) == "" {
		return nil, fmt.Errorf("%w: serviceCategory is required", ErrInvalidInput)
	}

	eventType := domain.StaffEventType(req.EventType)
	if eventType == domain.StaffEventOccupied {
		return nil, ErrMarkerReadOnly
	}
	if !eventType.IsUserCreatable() {
		return nil, fmt.Errorf("%w: unknown eventType %q", ErrInvalidInput, req.EventType)
	}

	if req.Start.IsZero() {
		return nil, fmt.Errorf("%w: start is required", ErrInvalidInput)
	}

	start, end := req.Start, req.End
	if req.AllDay {
		start = hours.DayStart(req.Start)
		if end.IsZero() {
			end = start.AddDate(0, 0, 1)
		} else {
			lastDay := hours.DayStart(end)
			if lastDay.Equal(end) {
				end = lastDay
			} else {
				end = lastDay.AddDate(0, 0, 1)
			}
		}
	}

	if !end.After(start) {
		return nil, fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	}
	if end.Sub(start) > domain.MaxRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: event is longer than %d days", ErrInvalidInput, domain.MaxRangeDays)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = defaultTitles[eventType]
	}
	if utf8.RuneCountInString(title) > domain.MaxStaffEventTitleLen {
		return nil, fmt.Errorf("%w: title is longer than %d characters", ErrInvalidInput, domain.MaxStaffEventTitleLen)
	}
	if req.StaffNotes != nil && utf8.RuneCountInString(*req.StaffNotes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: staffNotes is longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return &domain.StaffEvent{
		ServiceCategory: req.ServiceCategory,
		EventType:       eventType,
		AllDay:          req.AllDay,
		Title:           title,
		StaffNotes:      req.StaffNotes,
		Start:           start,
		End:             end,
	}, nil
}
