package procedures

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

func validateProcedure(p *domain.Procedure) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > domain.MaxProcedureNameLength {
		return fmt.Errorf("%w: name is longer than %d characters", ErrInvalidInput, domain.MaxProcedureNameLength)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if !domain.IsValidProcedureDuration(p.DurationMinutes) {
		return fmt.Errorf("%w: durationMinutes must be a positive multiple of %d up to %d",
			ErrInvalidInput, domain.ProcedureDurationStep, domain.MaxProcedureDuration)
	}
	if strings.TrimSpace(p.ServiceCategory) == "" {
		return fmt.Errorf("%w: serviceCategory is required", ErrInvalidInput)
	}
	return nil
}
