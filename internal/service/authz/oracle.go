package authz

import "github.com/m04kA/SMC-SalonBooking/internal/domain"

// Oracle единая точка проверки прав. Администратор проходит любую проверку
// только здесь, обработчики и сервисы обход не дублируют.
type Oracle struct{}

// NewOracle создает новый экземпляр оракула прав
func NewOracle() *Oracle {
	return &Oracle{}
}

// HasRole проверяет, что у актора есть требуемая роль.
// required = domain.RoleStaff означает сотрудника любой категории.
func (o *Oracle) HasRole(required string, actor *domain.Actor) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	if required == domain.RoleStaff {
		return isStaffRole(actor.Role)
	}
	return required != "" && actor.Role == required
}

// IsAuthor проверяет, что актор является владельцем ресурса
func (o *Oracle) IsAuthor(actor *domain.Actor, ownerID *int64) bool {
	if actor == nil || ownerID == nil {
		return false
	}
	return actor.UserID == *ownerID
}

// CanSeeStaffNotes staffNotes видны только сотрудникам категории
func (o *Oracle) CanSeeStaffNotes(actor *domain.Actor, category string) bool {
	return o.HasRole(category, actor)
}

// CanAccessAppointment автор записи или сотрудник ее категории
func (o *Oracle) CanAccessAppointment(actor *domain.Actor, a *domain.Appointment) bool {
	if a == nil {
		return false
	}
	return o.HasRole(a.ServiceCategory, actor) || o.IsAuthor(actor, a.CustomerID)
}

func isStaffRole(role string) bool {
	return role != "" && role != domain.RoleUser
}
