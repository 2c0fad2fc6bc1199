package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	procedureRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/procedure"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/service/guard"
	"github.com/m04kA/SMC-SalonBooking/internal/service/notifier"
)

const actionCreated = "created"

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	procedureRepo   ProcedureRepository
	calendar        Calendar
	guard           Guard
	reconciler      Reconciler
	hours           HoursProvider
	authz           Authorizer
	notifier        Notifier
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	procedureRepo ProcedureRepository,
	calendar Calendar,
	guard Guard,
	reconciler Reconciler,
	hours HoursProvider,
	authz Authorizer,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		procedureRepo:   procedureRepo,
		calendar:        calendar,
		guard:           guard,
		reconciler:      reconciler,
		hours:           hours,
		authz:           authz,
		notifier:        notifier,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка свободного времени и вставка идут под блокировкой дня категории в сериализуемой
// транзакции, поэтому из двух одновременных запросов на один слот проходит ровно один.
func (uc *UseCase) Execute(ctx context.Context, actor *domain.Actor, req *Request) (*models.AppointmentResponse, error) {
	uc.logger.Info("CreateAppointment: category=%s, procedure=%d, start=%s, anonymous=%t",
		req.ServiceCategory, req.ProcedureID, req.Start.Format(time.RFC3339), actor.IsAnonymous())

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Рабочее окно категории
	hours, err := uc.hours.WorkingHours(ctx, req.ServiceCategory)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get working hours for category=%s: %v", req.ServiceCategory, err)
		return nil, fmt.Errorf("%w: failed to get working hours: %w", ErrInternal, err)
	}

	// 3. Процедура и дополнительные процедуры
	procedure, extras, err := uc.loadProcedures(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Собираем запись с замороженными данными процедур
	isStaff := uc.authz.HasRole(req.ServiceCategory, actor)
	appointment := &domain.Appointment{
		ServiceCategory: req.ServiceCategory,
		CustomerID:      actor.ID(),
		Lastname:        req.Lastname,
		Email:           req.Email,
		Phone:           req.Phone,
		ProcedureID:     procedure.ID,
		ProcedureName:   procedure.Name,
		Price:           procedure.Price,
		DurationMinutes: procedure.DurationMinutes,
		ExtraProcedures: freezeExtras(extras),
		Notes:           req.Notes,
		AllDay:          req.AllDay && actor.IsAdmin(),
		Start:           req.Start.In(hours.Loc()),
	}
	if isStaff {
		appointment.StaffNotes = req.StaffNotes
	}
	appointment.Recalculate()
	if appointment.AllDay {
		appointment.SpanWorkingDay(hours)
	}

	day := hours.DayStart(appointment.Start)
	now := uc.timeProvider.Now()

	var result *domain.Appointment

	// 5. Блокировка дня -> перепроверка свободного времени -> вставка -> маркер занятости
	err = uc.guard.Do(ctx, appointment.ServiceCategory, []time.Time{day},
		func(txCtx context.Context) error {
			intervals, err := uc.calendar.FindIntervals(txCtx, appointment.ServiceCategory, day, day.AddDate(0, 0, 1))
			if err != nil {
				return fmt.Errorf("%w: failed to find intervals: %w", ErrInternal, err)
			}

			free, err := availability.IsSlotFree(availability.Query{
				Day:       day,
				Hours:     hours,
				Duration:  appointment.End.Sub(appointment.Start),
				Intervals: intervals,
				Now:       &now,
			}, appointment.Start)
			if err != nil {
				return fmt.Errorf("%w: availability: %w", ErrInternal, err)
			}
			if !free {
				return ErrSlotNotAvailable
			}

			created, err := uc.appointmentRepo.Create(txCtx, appointment)
			if err != nil {
				if errors.Is(err, appointmentRepo.ErrSlotTaken) {
					return ErrSlotNotAvailable
				}
				return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
			}

			result = created
			return nil
		},
		func(ctx context.Context) error {
			return uc.reconciler.OnCreated(ctx, day, appointment.ServiceCategory)
		},
	)

	switch {
	case err == nil:
	case errors.Is(err, guard.ErrReconcile):
		uc.logger.Error("CreateAppointment: appointment saved, but marker reconciliation failed: %v", err)
	case errors.Is(err, ErrSlotNotAvailable):
		uc.metrics.ObserveConflict(appointment.ServiceCategory)
		uc.logger.Warn("CreateAppointment: slot %s is not available in category=%s",
			appointment.Start.Format(time.RFC3339), appointment.ServiceCategory)
		return nil, ErrSlotNotAvailable
	case errors.Is(err, guard.ErrLockUnavailable):
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, ErrBusy
	default:
		uc.logger.Error("CreateAppointment: %v", err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	uc.metrics.ObserveAppointment(result.ServiceCategory, actionCreated)
	uc.notifier.Notify(notifier.KindCreated, result)

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)
	return models.FromDomainAppointment(result, uc.authz.CanSeeStaffNotes(actor, result.ServiceCategory)), nil
}

func (uc *UseCase) loadProcedures(ctx context.Context, req *Request) (*domain.Procedure, []*domain.Procedure, error) {
	procedure, err := uc.procedureRepo.GetByID(ctx, req.ProcedureID)
	if err != nil {
		if errors.Is(err, procedureRepo.ErrProcedureNotFound) {
			uc.logger.Warn("CreateAppointment: procedure id=%d not found", req.ProcedureID)
			return nil, nil, ErrProcedureNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get procedure id=%d: %v", req.ProcedureID, err)
		return nil, nil, fmt.Errorf("%w: failed to get procedure: %w", ErrInternal, err)
	}

	if !procedure.IsBookable() {
		uc.logger.Warn("CreateAppointment: procedure id=%d is disabled", req.ProcedureID)
		return nil, nil, ErrProcedureNotFound
	}

	if procedure.ServiceCategory != req.ServiceCategory {
		return nil, nil, fmt.Errorf("%w: procedure id=%d belongs to category %s",
			ErrInvalidInput, procedure.ID, procedure.ServiceCategory)
	}

	if len(req.ExtraProcedureIDs) == 0 {
		return procedure, nil, nil
	}

	extras, err := uc.procedureRepo.GetByIDs(ctx, req.ExtraProcedureIDs)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get extra procedures: %v", err)
		return nil, nil, fmt.Errorf("%w: failed to get extra procedures: %w", ErrInternal, err)
	}

	byID := make(map[int64]*domain.Procedure, len(extras))
	for _, e := range extras {
		byID[e.ID] = e
	}

	ordered := make([]*domain.Procedure, 0, len(req.ExtraProcedureIDs))
	for _, id := range req.ExtraProcedureIDs {
		e, ok := byID[id]
		if !ok || !e.IsBookable() {
			uc.logger.Warn("CreateAppointment: extra procedure id=%d not found", id)
			return nil, nil, ErrProcedureNotFound
		}
		if e.ServiceCategory != req.ServiceCategory {
			return nil, nil, fmt.Errorf("%w: extra procedure id=%d belongs to category %s",
				ErrInvalidInput, e.ID, e.ServiceCategory)
		}
		ordered = append(ordered, e)
	}

	return procedure, ordered, nil
}
