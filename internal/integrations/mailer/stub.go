package mailer

import "context"

// StubSender только логирует письма. Используется, когда почта отключена
type StubSender struct {
	log Logger
}

// NewStubSender создает отправителя-заглушку
func NewStubSender(log Logger) *StubSender {
	return &StubSender{log: log}
}

// Send логирует письмо вместо отправки
func (s *StubSender) Send(_ context.Context, msg Message) error {
	s.log.Info("StubSender: would send %q to %s", msg.Subject, msg.To)
	return nil
}
