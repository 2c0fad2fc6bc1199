package schedule

import "errors"

var (
	// ErrCategoryNotFound возвращается, когда категория услуг не существует
	ErrCategoryNotFound = errors.New("service category not found")

	// ErrScheduleNotFound возвращается при сбросе несуществующего расписания
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
