package guard

import "errors"

var (
	// ErrLockUnavailable возвращается, когда день занят другим изменением дольше времени ожидания
	ErrLockUnavailable = errors.New("guard: day is locked by another booking")

	// ErrReconcile возвращается, когда изменение зафиксировано, но маркер дня пересчитать не удалось
	ErrReconcile = errors.New("guard: reconciliation after commit failed")
)
