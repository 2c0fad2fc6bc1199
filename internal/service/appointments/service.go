package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonBooking/internal/service/guard"
	"github.com/m04kA/SMC-SalonBooking/internal/service/notifier"
)

const (
	actionCanceled = "canceled"
	actionDeleted  = "deleted"
)

// Service чтение, отмена и удаление записей
type Service struct {
	appointmentRepo AppointmentRepository
	guard           Guard
	reconciler      Reconciler
	hours           HoursProvider
	authz           Authorizer
	notifier        Notifier
	metrics         Metrics
	cutoff          time.Duration
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей.
// cutoff минимальное время до начала записи, когда клиент еще может ее отменить
func NewService(
	appointmentRepo AppointmentRepository,
	guard Guard,
	reconciler Reconciler,
	hours HoursProvider,
	authz Authorizer,
	notifier Notifier,
	metrics Metrics,
	cutoff time.Duration,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		guard:           guard,
		reconciler:      reconciler,
		hours:           hours,
		authz:           authz,
		notifier:        notifier,
		metrics:         metrics,
		cutoff:          cutoff,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись. Доступно автору и сотрудникам категории
func (s *Service) GetByID(ctx context.Context, actor *domain.Actor, id int64) (*models.AppointmentResponse, error) {
	a, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !s.authz.CanAccessAppointment(actor, a) {
		s.logger.Warn("GetByID: actor has no access to appointment id=%d", id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(a, s.authz.CanSeeStaffNotes(actor, a.ServiceCategory)), nil
}

// ListCalendar записи категории за период. Только для сотрудников категории
func (s *Service) ListCalendar(ctx context.Context, actor *domain.Actor, category string, from, to time.Time, includeCanceled bool) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListCalendar: category=%s, from=%s, to=%s", category, from.Format(time.RFC3339), to.Format(time.RFC3339))

	if category == "" {
		return nil, fmt.Errorf("%w: serviceCategory is required", ErrInvalidInput)
	}
	if !to.After(from) {
		return nil, fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	}
	if to.Sub(from) > domain.MaxRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: range is longer than %d days", ErrInvalidInput, domain.MaxRangeDays)
	}

	if !s.authz.HasRole(category, actor) {
		s.logger.Warn("ListCalendar: actor has no role %s", category)
		return nil, ErrAccessDenied
	}

	list, err := s.appointmentRepo.List(ctx, domain.AppointmentsFilter{
		ServiceCategory: &category,
		From:            &from,
		To:              &to,
		IncludeCanceled: includeCanceled,
	})
	if err != nil {
		s.logger.Error("ListCalendar: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListCalendar - repository error: %w", ErrInternal, err)
	}

	return s.toList(actor, list), nil
}

// ListMy записи аутентифицированного клиента, включая отмененные
func (s *Service) ListMy(ctx context.Context, actor *domain.Actor) (*models.AppointmentListResponse, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	list, err := s.appointmentRepo.List(ctx, domain.AppointmentsFilter{
		CustomerID:      actor.ID(),
		IncludeCanceled: true,
	})
	if err != nil {
		s.logger.Error("ListMy: repository error for user=%d: %v", actor.UserID, err)
		return nil, fmt.Errorf("%w: ListMy - repository error: %w", ErrInternal, err)
	}

	return s.toList(actor, list), nil
}

// Cancel отменяет запись. Автор может отменить не позже чем за cutoff до начала;
// сотрудники категории без ограничения.
func (s *Service) Cancel(ctx context.Context, actor *domain.Actor, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: canceling appointment id=%d", id)

	a, err := s.get(ctx, "Cancel", id)
	if err != nil {
		return nil, err
	}

	isStaff := s.authz.HasRole(a.ServiceCategory, actor)
	if !isStaff && !s.authz.IsAuthor(actor, a.CustomerID) {
		s.logger.Warn("Cancel: actor is neither author nor staff of appointment id=%d", id)
		return nil, ErrAccessDenied
	}

	if a.Canceled {
		return nil, ErrAlreadyCanceled
	}

	now := s.timeProvider.Now()
	if !isStaff && a.Start.Sub(now) < s.cutoff {
		s.logger.Warn("Cancel: appointment id=%d starts at %s, cutoff %s", id, a.Start.Format(time.RFC3339), s.cutoff)
		return nil, ErrCancellationTooLate
	}

	day, err := s.dayOf(ctx, a)
	if err != nil {
		return nil, err
	}

	err = s.guard.Do(ctx, a.ServiceCategory, []time.Time{day},
		func(txCtx context.Context) error {
			current, err := s.appointmentRepo.GetByID(txCtx, id)
			if err != nil {
				return err
			}
			if current.Canceled {
				return ErrAlreadyCanceled
			}
			return s.appointmentRepo.SetCanceled(txCtx, id, true, now)
		},
		func(ctx context.Context) error {
			return s.reconciler.AfterRemoval(ctx, day, a.ServiceCategory)
		},
	)
	if err = s.handleWriteError("Cancel", id, err); err != nil {
		return nil, err
	}

	a.Canceled = true
	a.CanceledAt = &now

	s.metrics.ObserveAppointment(a.ServiceCategory, actionCanceled)
	s.notifier.Notify(notifier.KindCanceled, a)

	s.logger.Info("Cancel: appointment id=%d canceled", id)
	return models.FromDomainAppointment(a, s.authz.CanSeeStaffNotes(actor, a.ServiceCategory)), nil
}

// Delete физически удаляет запись. Только для администратора
func (s *Service) Delete(ctx context.Context, actor *domain.Actor, id int64) error {
	s.logger.Info("Delete: deleting appointment id=%d", id)

	if !s.authz.HasRole(domain.RoleAdmin, actor) {
		s.logger.Warn("Delete: actor is not an admin")
		return ErrAccessDenied
	}

	a, err := s.get(ctx, "Delete", id)
	if err != nil {
		return err
	}

	day, err := s.dayOf(ctx, a)
	if err != nil {
		return err
	}

	err = s.guard.Do(ctx, a.ServiceCategory, []time.Time{day},
		func(txCtx context.Context) error {
			return s.appointmentRepo.Delete(txCtx, id)
		},
		func(ctx context.Context) error {
			return s.reconciler.AfterRemoval(ctx, day, a.ServiceCategory)
		},
	)
	if err = s.handleWriteError("Delete", id, err); err != nil {
		return err
	}

	s.metrics.ObserveAppointment(a.ServiceCategory, actionDeleted)
	s.logger.Info("Delete: appointment id=%d deleted", id)
	return nil
}

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	a, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
	return a, nil
}

func (s *Service) dayOf(ctx context.Context, a *domain.Appointment) (time.Time, error) {
	hours, err := s.hours.WorkingHours(ctx, a.ServiceCategory)
	if err != nil {
		s.logger.Error("dayOf: failed to get working hours for category=%s: %v", a.ServiceCategory, err)
		return time.Time{}, fmt.Errorf("%w: working hours: %w", ErrInternal, err)
	}
	return hours.DayStart(a.Start), nil
}

// handleWriteError переводит ошибки записи в ошибки сервиса.
// Сбой пересчета маркера после фиксации не отменяет операцию.
func (s *Service) handleWriteError(op string, id int64, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, guard.ErrReconcile):
		s.logger.Error("%s: appointment id=%d saved, but marker reconciliation failed: %v", op, id, err)
		return nil
	case errors.Is(err, guard.ErrLockUnavailable):
		s.logger.Warn("%s: day of appointment id=%d is locked: %v", op, id, err)
		return ErrBusy
	case errors.Is(err, ErrAlreadyCanceled):
		return ErrAlreadyCanceled
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		return ErrAppointmentNotFound
	default:
		s.logger.Error("%s: failed for appointment id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
	}
}

func (s *Service) toList(actor *domain.Actor, list []*domain.Appointment) *models.AppointmentListResponse {
	resp := &models.AppointmentListResponse{
		Appointments: make([]models.AppointmentResponse, 0, len(list)),
	}
	for _, a := range list {
		item := models.FromDomainAppointment(a, s.authz.CanSeeStaffNotes(actor, a.ServiceCategory))
		resp.Appointments = append(resp.Appointments, *item)
	}
	return resp
}
