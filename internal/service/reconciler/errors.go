package reconciler

import "errors"

var (
	// ErrInvalidCategory возвращается при пустой категории
	ErrInvalidCategory = errors.New("reconciler: empty service category")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("reconciler: internal error")
)
