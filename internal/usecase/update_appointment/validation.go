package update_appointment

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

var phonePattern = regexp.MustCompile(`^[0-9]{9,15}$`)

// validateRequest проверяет заданные поля запроса
func validateRequest(req *Request) error {
	if req.ID <= 0 {
		return fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	if req.ProcedureID != nil && *req.ProcedureID <= 0 {
		return fmt.Errorf("%w: procedureId must be positive", ErrInvalidInput)
	}

	if req.ExtraProcedureIDs != nil && len(*req.ExtraProcedureIDs) > domain.MaxExtraProcedures {
		return fmt.Errorf("%w: at most %d extra procedures allowed", ErrInvalidInput, domain.MaxExtraProcedures)
	}

	if req.Start != nil && req.Start.IsZero() {
		return fmt.Errorf("%w: start must not be empty", ErrInvalidInput)
	}

	if req.Lastname != nil {
		v := strings.TrimSpace(*req.Lastname)
		if v == "" || utf8.RuneCountInString(v) > domain.MaxLastnameLength {
			return fmt.Errorf("%w: lastname must be 1..%d characters", ErrInvalidInput, domain.MaxLastnameLength)
		}
		req.Lastname = &v
	}

	if req.Email != nil {
		v := strings.TrimSpace(*req.Email)
		if v != "" {
			if _, err := mail.ParseAddress(v); err != nil {
				return fmt.Errorf("%w: invalid email", ErrInvalidInput)
			}
		}
		req.Email = &v
	}

	if req.Phone != nil {
		v := strings.NewReplacer(" ", "", "+", "", "-", "").Replace(strings.TrimSpace(*req.Phone))
		if v != "" && !phonePattern.MatchString(v) {
			return fmt.Errorf("%w: invalid phone", ErrInvalidInput)
		}
		req.Phone = &v
	}

	for field, notes := range map[string]*string{"notes": req.Notes, "staffNotes": req.StaffNotes} {
		if notes != nil && utf8.RuneCountInString(*notes) > domain.MaxNotesLength {
			return fmt.Errorf("%w: %s is longer than %d characters", ErrInvalidInput, field, domain.MaxNotesLength)
		}
	}

	return nil
}

// emptyToNil пустая строка в запросе означает "очистить поле"
func emptyToNil(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}

// freezeExtras копирует данные дополнительных процедур в запись
func freezeExtras(extras []*domain.Procedure) []domain.ExtraProcedure {
	frozen := make([]domain.ExtraProcedure, 0, len(extras))
	for _, e := range extras {
		frozen = append(frozen, domain.ExtraProcedure{
			ProcedureID:     e.ID,
			Name:            e.Name,
			Price:           e.Price,
			DurationMinutes: e.DurationMinutes,
		})
	}
	return frozen
}
