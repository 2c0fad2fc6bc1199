package update_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("update_appointment: appointment not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на изменение
	ErrAccessDenied = errors.New("update_appointment: access denied")

	// ErrProcedureNotFound возвращается, когда процедура не найдена или недоступна для записи
	ErrProcedureNotFound = errors.New("update_appointment: procedure not found")

	// ErrSlotNotAvailable возвращается, когда новое время уже занято
	ErrSlotNotAvailable = errors.New("update_appointment: slot is not available")

	// ErrConcurrentChange возвращается, когда запись успели перенести на другой день
	ErrConcurrentChange = errors.New("update_appointment: appointment was changed concurrently")

	// ErrBusy возвращается, когда день категории долго занят другим изменением
	ErrBusy = errors.New("update_appointment: calendar day is busy, try again")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_appointment: internal error")
)
