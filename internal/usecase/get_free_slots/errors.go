package get_free_slots

import "errors"

var (
	// ErrProcedureNotFound возвращается, когда процедура не найдена или недоступна для записи
	ErrProcedureNotFound = errors.New("get_free_slots: procedure not found")

	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("get_free_slots: invalid date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_free_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_free_slots: internal error")
)
