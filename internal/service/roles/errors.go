package roles

import "errors"

var (
	// ErrRoleNotFound возвращается, когда роль не найдена
	ErrRoleNotFound = errors.New("role not found")

	// ErrRoleAlreadyExists возвращается при попытке создать роль с существующим именем
	ErrRoleAlreadyExists = errors.New("role already exists")

	// ErrReservedRole возвращается при попытке создать или удалить системную роль
	ErrReservedRole = errors.New("role is reserved")

	// ErrRoleInUse возвращается при удалении категории, в которой есть процедуры
	ErrRoleInUse = errors.New("role is in use")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
