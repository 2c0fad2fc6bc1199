package create_appointment

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

var phonePattern = regexp.MustCompile(`^[0-9]{9,15}$`)

// validateRequest валидирует входные данные запроса и нормализует контакты
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

	req.Lastname = strings.TrimSpace(req.Lastname)
	if req.Lastname == "" {
		return fmt.Errorf("%w: lastname is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.Lastname) > domain.MaxLastnameLength {
		return fmt.Errorf("%w: lastname is longer than %d characters", ErrInvalidInput, domain.MaxLastnameLength)
	}

	req.Email = normalizeEmail(req.Email)
	req.Phone = normalizePhone(req.Phone)
	if req.Email == nil && req.Phone == nil {
		return fmt.Errorf("%w: email or phone is required", ErrInvalidInput)
	}
	if req.Email != nil {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			return fmt.Errorf("%w: invalid email", ErrInvalidInput)
		}
	}
	if req.Phone != nil && !phonePattern.MatchString(*req.Phone) {
		return fmt.Errorf("%w: invalid phone", ErrInvalidInput)
	}

	if err := validateNotes("notes", req.Notes); err != nil {
		return err
	}
	if err := validateNotes("staffNotes", req.StaffNotes); err != nil {
		return err
	}

	if req.Start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidInput)
	}

	return nil
}

func validateNotes(field string, notes *string) error {
	if notes != nil && utf8.RuneCountInString(*notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: %s is longer than %d characters", ErrInvalidInput, field, domain.MaxNotesLength)
	}
	return nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	v := strings.TrimSpace(*email)
	if v == "" {
		return nil
	}
	return &v
}

// normalizePhone оставляет только цифры: "+420 777 123 456" -> "420777123456"
func normalizePhone(phone *string) *string {
	if phone == nil {
		return nil
	}
	v := strings.NewReplacer(" ", "", "+", "", "-", "").Replace(strings.TrimSpace(*phone))
	if v == "" {
		return nil
	}
	return &v
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
