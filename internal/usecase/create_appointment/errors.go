package create_appointment

import "errors"

var (
	// ErrProcedureNotFound возвращается, когда процедура не найдена или недоступна для записи
	ErrProcedureNotFound = errors.New("create_appointment: procedure not found")

	// ErrSlotNotAvailable возвращается, когда выбранное время уже занято или вне свободных слотов
	ErrSlotNotAvailable = errors.New("create_appointment: slot is not available")

	// ErrBusy возвращается, когда день категории долго занят другим изменением
	ErrBusy = errors.New("create_appointment: calendar day is busy, try again")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
