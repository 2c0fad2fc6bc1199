package staffevent

import "errors"

var (
	// ErrStaffEventNotFound возвращается, когда событие не найдено
	ErrStaffEventNotFound = errors.New("staffevent.repository: staff event not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("staffevent.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("staffevent.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("staffevent.repository: failed to scan row")
)
