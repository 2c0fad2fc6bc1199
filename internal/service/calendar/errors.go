package calendar

import "errors"

var (
	// ErrInvalidRange возвращается, когда конец периода не позже начала
	ErrInvalidRange = errors.New("calendar: invalid range")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("calendar: internal error")
)
