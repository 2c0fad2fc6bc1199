package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrUnauthorized возвращается, когда операция требует аутентификации
	ErrUnauthorized = errors.New("authentication required")

	// ErrAlreadyCanceled возвращается при повторной отмене
	ErrAlreadyCanceled = errors.New("appointment already canceled")

	// ErrCancellationTooLate возвращается, когда до начала записи осталось меньше допустимого
	ErrCancellationTooLate = errors.New("too late to cancel appointment")

	// ErrBusy возвращается, когда день категории долго занят другим изменением
	ErrBusy = errors.New("calendar day is busy, try again")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
