package get_free_slots

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.ServiceCategory) == "" {
		return fmt.Errorf("%w: serviceCategory is required", ErrInvalidInput)
	}

	if req.ProcedureID <= 0 {
		return fmt.Errorf("%w: procedureId must be positive", ErrInvalidInput)
	}

	if len(req.ExtraProcedureIDs) > domain.MaxExtraProcedures {
		return fmt.Errorf("%w: at most %d extra procedures allowed", ErrInvalidInput, domain.MaxExtraProcedures)
	}
	if !domain.DistinctExtras(req.ProcedureID, req.ExtraProcedureIDs) {
		return fmt.Errorf("%w: extra procedures must be distinct", ErrInvalidInput)
	}

	if req.ExcludeEventID != nil && *req.ExcludeEventID <= 0 {
		return fmt.Errorf("%w: excludeEventId must be positive", ErrInvalidInput)
	}

	return nil
}

// parseDay разбирает дату YYYY-MM-DD как полночь в часовом поясе салона
func parseDay(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation(domain.DateFormat, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: expected YYYY-MM-DD, got %q", ErrInvalidDate, date)
	}
	return day, nil
}

// totalDuration длительность основной процедуры вместе с дополнительными
func totalDuration(base *domain.Procedure, extras []*domain.Procedure) int {
	total := base.DurationMinutes
	for _, e := range extras {
		total += e.DurationMinutes
	}
	return total
}
