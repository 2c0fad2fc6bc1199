package availability

import "errors"

var (
	// ErrInvalidDuration возвращается при неположительной длительности
	ErrInvalidDuration = errors.New("availability: duration must be positive")

	// ErrInvalidWorkingHours возвращается при некорректном рабочем окне
	ErrInvalidWorkingHours = errors.New("availability: invalid working hours")
)
