package notifier

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/integrations/eventbus"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/mailer"
)

// Mailer отправитель писем
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// Publisher издатель событий
type Publisher interface {
	Publish(ctx context.Context, event eventbus.Event) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
