package update_appointment

import "time"

// Request модель запроса на частичное изменение записи.
// nil означает "не менять". Автор записи может менять только Notes.
type Request struct {
	ID                int64
	ProcedureID       *int64
	ExtraProcedureIDs *[]int64
	Start             *time.Time
	Lastname          *string
	Email             *string
	Phone             *string
	Notes             *string
	StaffNotes        *string
	AllDay            *bool
	Canceled          *bool
}

// onlyNotes true, если запрос меняет только заметки клиента
func (r *Request) onlyNotes() bool {
	return r.ProcedureID == nil &&
		r.ExtraProcedureIDs == nil &&
		r.Start == nil &&
		r.Lastname == nil &&
		r.Email == nil &&
		r.Phone == nil &&
		r.StaffNotes == nil &&
		r.AllDay == nil &&
		r.Canceled == nil
}
