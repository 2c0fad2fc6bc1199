package eventbus

import "errors"

var (
	// ErrNotConfigured возвращается, когда не заданы брокеры или топик
	ErrNotConfigured = errors.New("eventbus: publisher is not configured")

	// ErrEncode возвращается при ошибке сериализации события
	ErrEncode = errors.New("eventbus: failed to encode event")

	// ErrPublish возвращается, когда брокер не принял сообщение
	ErrPublish = errors.New("eventbus: publish failed")
)
