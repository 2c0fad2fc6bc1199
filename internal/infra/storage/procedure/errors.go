package procedure

import "errors"

var (
	// ErrProcedureNotFound возвращается, когда процедура не найдена
	ErrProcedureNotFound = errors.New("procedure.repository: procedure not found")

	// ErrReferenced возвращается при попытке физически удалить процедуру, на которую ссылаются записи
	ErrReferenced = errors.New("procedure.repository: procedure is referenced by appointments")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("procedure.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("procedure.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("procedure.repository: failed to scan row")
)
