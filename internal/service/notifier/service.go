package notifier

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/eventbus"
)

const defaultTimeout = 10 * time.Second

// Service рассылает уведомления о записях: письмо клиенту и событие в шину.
// Доставка асинхронная, ошибки только логируются и не влияют на запись.
type Service struct {
	mailer    Mailer
	publisher Publisher
	cfg       Config
	logger    Logger
	now       func() time.Time

	wg sync.WaitGroup
}

// NewService создает новый экземпляр сервиса уведомлений
func NewService(mailer Mailer, publisher Publisher, cfg Config, logger Logger) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Service{
		mailer:    mailer,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Notify ставит уведомление в отправку и сразу возвращает управление
func (s *Service) Notify(kind Kind, a *domain.Appointment) {
	if a == nil {
		return
	}

	snapshot := *a
	snapshot.ExtraProcedures = append([]domain.ExtraProcedure(nil), a.ExtraProcedures...)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
		defer cancel()

		s.deliver(ctx, kind, &snapshot)
	}()
}

// Wait дожидается завершения уже поставленных уведомлений
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) deliver(ctx context.Context, kind Kind, a *domain.Appointment) {
	if a.Email != nil && *a.Email != "" {
		msg := buildMessage(kind, a, s.cfg.Location, s.cfg.SalonName)
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.logger.Error("Notify: failed to mail %s notice for appointment id=%d: %v", kind, a.ID, err)
		}
	}

	event := eventbus.Event{
		ID:         uuid.NewString(),
		Type:       kind.eventType(),
		Key:        strconv.FormatInt(a.ID, 10),
		OccurredAt: s.now().UTC(),
		Payload:    newAppointmentEvent(a),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Notify: failed to publish %s for appointment id=%d: %v", event.Type, a.ID, err)
	}
}
