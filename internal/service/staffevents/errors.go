package staffevents

import "errors"

var (
	// ErrStaffEventNotFound возвращается, когда событие не найдено
	ErrStaffEventNotFound = errors.New("staff event not found")

	// ErrMarkerReadOnly возвращается при попытке вручную создать или удалить маркер occupied
	ErrMarkerReadOnly = errors.New("occupied markers are managed automatically")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrBusy возвращается, когда день категории долго занят другим изменением
	ErrBusy = errors.New("calendar day is busy, try again")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
