package staffevents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	staffEventRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/staffevent"
	"github.com/m04kA/SMC-SalonBooking/internal/service/guard"
	"github.com/m04kA/SMC-SalonBooking/internal/service/reconciler"
	"github.com/m04kA/SMC-SalonBooking/internal/service/staffevents/models"
)

// Service отпуска и ручные блоки сотрудников.
// Маркеры occupied видны в выдаче, но создаются и удаляются только реконсилятором.
type Service struct {
	repo       StaffEventRepository
	guard      Guard
	reconciler Reconciler
	hours      HoursProvider
	authz      Authorizer
	logger     Logger
}

// NewService создает новый экземпляр сервиса служебных событий
func NewService(
	repo StaffEventRepository,
	guard Guard,
	reconciler Reconciler,
	hours HoursProvider,
	authz Authorizer,
	logger Logger,
) *Service {
	return &Service{
		repo:       repo,
		guard:      guard,
		reconciler: reconciler,
		hours:      hours,
		authz:      authz,
		logger:     logger,
	}
}

// Create создает отпуск или ручной блок. Только для сотрудников категории
func (s *Service) Create(ctx context.Context, actor *domain.Actor, req *models.CreateStaffEventRequest) (*models.StaffEventResponse, error) {
	s.logger.Info("Create: %s for category=%s from %s", req.EventType, req.ServiceCategory, req.Start.Format(time.RFC3339))

	if !s.authz.HasRole(req.ServiceCategory, actor) {
		s.logger.Warn("Create: actor has no role %s", req.ServiceCategory)
		return nil, ErrAccessDenied
	}

	hours, err := s.workingHours(ctx, "Create", req.ServiceCategory)
	if err != nil {
		return nil, err
	}

	event, err := buildEvent(req, hours)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}
	event.StaffID = actor.ID()

	var created *domain.StaffEvent
	err = s.guard.Do(ctx, event.ServiceCategory, reconciler.SpanDays(hours, event.Start, event.End),
		func(txCtx context.Context) error {
			created, err = s.repo.Create(txCtx, event)
			return err
		},
		func(ctx context.Context) error {
			return s.reconciler.AfterSpan(ctx, event.Start, event.End, event.ServiceCategory)
		},
	)
	if err = s.handleWriteError("Create", err); err != nil {
		return nil, err
	}

	s.logger.Info("Create: staff event id=%d created", created.ID)
	return models.FromDomainStaffEvent(created), nil
}

// List события категории за период. Сотрудники категории видят все события,
// остальные только маркеры полностью занятых дней.
func (s *Service) List(ctx context.Context, actor *domain.Actor, category string, from, to time.Time) (*models.StaffEventListResponse, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: serviceCategory is required", ErrInvalidInput)
	}
	if !to.After(from) {
		return nil, fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	}
	if to.Sub(from) > domain.MaxRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: range is longer than %d days", ErrInvalidInput, domain.MaxRangeDays)
	}

	filter := domain.StaffEventsFilter{
		ServiceCategory: &category,
		From:            &from,
		To:              &to,
	}
	if !s.authz.HasRole(category, actor) {
		occupied := domain.StaffEventOccupied
		filter.EventType = &occupied
	}

	events, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainStaffEventList(events), nil
}

// Delete удаляет отпуск или ручной блок и пересчитывает затронутые дни
func (s *Service) Delete(ctx context.Context, actor *domain.Actor, id int64) error {
	s.logger.Info("Delete: deleting staff event id=%d", id)

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, staffEventRepo.ErrStaffEventNotFound) {
			return ErrStaffEventNotFound
		}
		s.logger.Error("Delete: repository error for staff event id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %w", ErrInternal, err)
	}

	if event.IsOccupiedMarker() {
		s.logger.Warn("Delete: staff event id=%d is an occupied marker", id)
		return ErrMarkerReadOnly
	}

	if !s.authz.HasRole(event.ServiceCategory, actor) {
		s.logger.Warn("Delete: actor has no role %s", event.ServiceCategory)
		return ErrAccessDenied
	}

	hours, err := s.workingHours(ctx, "Delete", event.ServiceCategory)
	if err != nil {
		return err
	}

	err = s.guard.Do(ctx, event.ServiceCategory, reconciler.SpanDays(hours, event.Start, event.End),
		func(txCtx context.Context) error {
			return s.repo.Delete(txCtx, id)
		},
		func(ctx context.Context) error {
			return s.reconciler.AfterSpan(ctx, event.Start, event.End, event.ServiceCategory)
		},
	)
	if err = s.handleWriteError("Delete", err); err != nil {
		return err
	}

	s.logger.Info("Delete: staff event id=%d deleted", id)
	return nil
}

func (s *Service) workingHours(ctx context.Context, op, category string) (domain.WorkingHours, error) {
	hours, err := s.hours.WorkingHours(ctx, category)
	if err != nil {
		s.logger.Error("%s: failed to get working hours for category=%s: %v", op, category, err)
		return domain.WorkingHours{}, fmt.Errorf("%w: working hours: %w", ErrInternal, err)
	}
	return hours, nil
}

func (s *Service) handleWriteError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, guard.ErrReconcile):
		s.logger.Error("%s: staff event saved, but marker reconciliation failed: %v", op, err)
		return nil
	case errors.Is(err, guard.ErrLockUnavailable):
		return ErrBusy
	case errors.Is(err, staffEventRepo.ErrStaffEventNotFound):
		return ErrStaffEventNotFound
	default:
		s.logger.Error("%s: write failed: %v", op, err)
		return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
	}
}
