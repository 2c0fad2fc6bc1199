package mailer

import "errors"

var (
	// ErrNotConfigured возвращается, когда отправитель не настроен
	ErrNotConfigured = errors.New("mailer: sender is not configured")

	// ErrInvalidMessage возвращается для письма без адресата
	ErrInvalidMessage = errors.New("mailer: invalid message")

	// ErrSendFailed возвращается, когда провайдер не принял письмо
	ErrSendFailed = errors.New("mailer: send failed")
)
