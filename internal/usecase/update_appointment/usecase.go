package update_appointment

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

const (
	actionUpdated  = "updated"
	actionCanceled = "canceled"
)

// UseCase use case для изменения записи
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

// change что именно меняет запрос
type change struct {
	timing   bool // начало или длительность
	canceled bool // запись отменяется
	restored bool // отмена снимается
}

// Execute выполняет use case изменения записи.
// Новое время проверяется по календарю без самой записи, поэтому ее текущий слот остается доступным ей же.
func (uc *UseCase) Execute(ctx context.Context, actor *domain.Actor, req *Request) (*models.AppointmentResponse, error) {
	uc.logger.Info("UpdateAppointment: id=%d", req.ID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущая запись
	current, err := uc.appointmentRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("UpdateAppointment: appointment id=%d not found", req.ID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("UpdateAppointment: failed to get appointment id=%d: %v", req.ID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
	}

	// 3. Права: сотрудник категории меняет все, автор только заметки
	isStaff := uc.authz.HasRole(current.ServiceCategory, actor)
	if !isStaff {
		if !uc.authz.IsAuthor(actor, current.CustomerID) {
			uc.logger.Warn("UpdateAppointment: actor is neither author nor staff of appointment id=%d", req.ID)
			return nil, ErrAccessDenied
		}
		if !req.onlyNotes() {
			uc.logger.Warn("UpdateAppointment: author may change only notes of appointment id=%d", req.ID)
			return nil, ErrAccessDenied
		}
	}

	hours, err := uc.hours.WorkingHours(ctx, current.ServiceCategory)
	if err != nil {
		uc.logger.Error("UpdateAppointment: failed to get working hours for category=%s: %v", current.ServiceCategory, err)
		return nil, fmt.Errorf("%w: failed to get working hours: %w", ErrInternal, err)
	}

	// 4. Предварительное применение: проверка запроса и дни для блокировки
	now := uc.timeProvider.Now()
	draft, _, err := uc.apply(ctx, actor, current, req, hours, now)
	if err != nil {
		return nil, err
	}

	oldDay := hours.DayStart(current.Start)
	newDay := hours.DayStart(draft.Start)

	// 5. Блокировка старого и нового дня -> перечитывание -> перепроверка -> сохранение -> маркеры.
	// Изменения накладываются на запись, прочитанную под блокировкой.
	var (
		updated *domain.Appointment
		ch      change
	)
	err = uc.guard.Do(ctx, current.ServiceCategory, []time.Time{oldDay, newDay},
		func(txCtx context.Context) error {
			fresh, err := uc.appointmentRepo.GetByID(txCtx, req.ID)
			if err != nil {
				return err
			}
			if !hours.DayStart(fresh.Start).Equal(oldDay) {
				return ErrConcurrentChange
			}

			updated, ch, err = uc.apply(txCtx, actor, fresh, req, hours, now)
			if err != nil {
				return err
			}
			if !hours.DayStart(updated.Start).Equal(newDay) {
				return ErrConcurrentChange
			}

			if !updated.Canceled && (ch.timing || ch.restored) {
				if err := uc.checkSlot(txCtx, updated, hours, newDay, now, fresh.Start); err != nil {
					return err
				}
			}

			if err := uc.appointmentRepo.Update(txCtx, updated); err != nil {
				if errors.Is(err, appointmentRepo.ErrSlotTaken) {
					return ErrSlotNotAvailable
				}
				return err
			}
			return nil
		},
		func(ctx context.Context) error {
			switch {
			case ch.canceled:
				return uc.reconciler.AfterRemoval(ctx, oldDay, updated.ServiceCategory)
			case !oldDay.Equal(newDay):
				return uc.reconciler.AfterReschedule(ctx, oldDay, newDay, updated.ServiceCategory)
			default:
				return uc.reconciler.AfterMutation(ctx, newDay, updated.ServiceCategory)
			}
		},
	)

	switch {
	case err == nil:
	case errors.Is(err, guard.ErrReconcile):
		uc.logger.Error("UpdateAppointment: appointment id=%d saved, but marker reconciliation failed: %v", req.ID, err)
	case errors.Is(err, ErrSlotNotAvailable):
		uc.metrics.ObserveConflict(current.ServiceCategory)
		uc.logger.Warn("UpdateAppointment: slot %s is not available for appointment id=%d",
			draft.Start.Format(time.RFC3339), req.ID)
		return nil, ErrSlotNotAvailable
	case errors.Is(err, ErrConcurrentChange):
		uc.logger.Warn("UpdateAppointment: appointment id=%d was moved by another change", req.ID)
		return nil, ErrConcurrentChange
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		return nil, ErrAppointmentNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrProcedureNotFound):
		uc.logger.Warn("UpdateAppointment: appointment id=%d rejected after re-read: %v", req.ID, err)
		return nil, err
	case errors.Is(err, guard.ErrLockUnavailable):
		uc.logger.Warn("UpdateAppointment: %v", err)
		return nil, ErrBusy
	default:
		uc.logger.Error("UpdateAppointment: failed to update appointment id=%d: %v", req.ID, err)
		return nil, fmt.Errorf("%w: failed to update appointment: %w", ErrInternal, err)
	}

	if ch.canceled {
		uc.metrics.ObserveAppointment(updated.ServiceCategory, actionCanceled)
		uc.notifier.Notify(notifier.KindCanceled, updated)
	} else {
		uc.metrics.ObserveAppointment(updated.ServiceCategory, actionUpdated)
		uc.notifier.Notify(notifier.KindUpdated, updated)
	}

	uc.logger.Info("UpdateAppointment: appointment id=%d updated", req.ID)
	return models.FromDomainAppointment(updated, uc.authz.CanSeeStaffNotes(actor, updated.ServiceCategory)), nil
}

// apply возвращает копию записи с примененными изменениями
func (uc *UseCase) apply(
	ctx context.Context,
	actor *domain.Actor,
	current *domain.Appointment,
	req *Request,
	hours domain.WorkingHours,
	now time.Time,
) (*domain.Appointment, change, error) {
	updated := *current
	updated.ExtraProcedures = append([]domain.ExtraProcedure(nil), current.ExtraProcedures...)
	var ch change

	if req.ProcedureID != nil && *req.ProcedureID != current.ProcedureID {
		p, err := uc.bookableProcedure(ctx, *req.ProcedureID, current.ServiceCategory)
		if err != nil {
			return nil, ch, err
		}
		updated.ProcedureID = p.ID
		updated.ProcedureName = p.Name
		updated.Price = p.Price
		updated.DurationMinutes = p.DurationMinutes
	}

	if req.ExtraProcedureIDs != nil {
		extras, err := uc.bookableExtras(ctx, *req.ExtraProcedureIDs, current.ServiceCategory)
		if err != nil {
			return nil, ch, err
		}
		updated.ExtraProcedures = freezeExtras(extras)
	}

	extraIDs := make([]int64, 0, len(updated.ExtraProcedures))
	for _, e := range updated.ExtraProcedures {
		extraIDs = append(extraIDs, e.ProcedureID)
	}
	if !domain.DistinctExtras(updated.ProcedureID, extraIDs) {
		return nil, ch, fmt.Errorf("%w: extra procedures must be distinct", ErrInvalidInput)
	}

	if req.Start != nil {
		updated.Start = req.Start.In(hours.Loc())
	}
	if req.Lastname != nil {
		updated.Lastname = *req.Lastname
	}
	if req.Email != nil {
		updated.Email = emptyToNil(req.Email)
	}
	if req.Phone != nil {
		updated.Phone = emptyToNil(req.Phone)
	}
	if updated.Email == nil && updated.Phone == nil {
		return nil, ch, fmt.Errorf("%w: email or phone is required", ErrInvalidInput)
	}
	if req.Notes != nil {
		updated.Notes = emptyToNil(req.Notes)
	}
	if req.StaffNotes != nil {
		updated.StaffNotes = emptyToNil(req.StaffNotes)
	}
	if req.AllDay != nil {
		updated.AllDay = *req.AllDay && actor.IsAdmin()
	}

	if req.Canceled != nil && *req.Canceled != current.Canceled {
		updated.Canceled = *req.Canceled
		if updated.Canceled {
			ch.canceled = true
			updated.CanceledAt = &now
		} else {
			ch.restored = true
			updated.CanceledAt = nil
		}
	}

	updated.Recalculate()
	if updated.AllDay {
		updated.SpanWorkingDay(hours)
	}
	ch.timing = !updated.Start.Equal(current.Start) || !updated.End.Equal(current.End)

	return &updated, ch, nil
}

// checkSlot проверяет новое время записи по календарю дня без самой записи.
// Прошлое отсекается, только если меняется начало.
func (uc *UseCase) checkSlot(
	ctx context.Context,
	a *domain.Appointment,
	hours domain.WorkingHours,
	day time.Time,
	now time.Time,
	previousStart time.Time,
) error {
	intervals, err := uc.calendar.FindIntervals(ctx, a.ServiceCategory, day, day.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("%w: failed to find intervals: %w", ErrInternal, err)
	}

	query := availability.Query{
		Day:       day,
		Hours:     hours,
		Duration:  a.End.Sub(a.Start),
		Intervals: intervals,
		Exclude:   domain.AppointmentRef(a.ID),
	}
	if !a.Start.Equal(previousStart) {
		query.Now = &now
	}

	free, err := availability.IsSlotFree(query, a.Start)
	if err != nil {
		return fmt.Errorf("%w: availability: %w", ErrInternal, err)
	}
	if !free {
		return ErrSlotNotAvailable
	}
	return nil
}

func (uc *UseCase) bookableProcedure(ctx context.Context, id int64, category string) (*domain.Procedure, error) {
	p, err := uc.procedureRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, procedureRepo.ErrProcedureNotFound) {
			uc.logger.Warn("UpdateAppointment: procedure id=%d not found", id)
			return nil, ErrProcedureNotFound
		}
		uc.logger.Error("UpdateAppointment: failed to get procedure id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get procedure: %w", ErrInternal, err)
	}
	if !p.IsBookable() {
		return nil, ErrProcedureNotFound
	}
	if p.ServiceCategory != category {
		return nil, fmt.Errorf("%w: procedure id=%d belongs to category %s", ErrInvalidInput, p.ID, p.ServiceCategory)
	}
	return p, nil
}

func (uc *UseCase) bookableExtras(ctx context.Context, ids []int64, category string) ([]*domain.Procedure, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	extras, err := uc.procedureRepo.GetByIDs(ctx, ids)
	if err != nil {
		uc.logger.Error("UpdateAppointment: failed to get extra procedures: %v", err)
		return nil, fmt.Errorf("%w: failed to get extra procedures: %w", ErrInternal, err)
	}

	byID := make(map[int64]*domain.Procedure, len(extras))
	for _, e := range extras {
		byID[e.ID] = e
	}

	ordered := make([]*domain.Procedure, 0, len(ids))
	for _, id := range ids {
		e, ok := byID[id]
		if !ok || !e.IsBookable() {
			return nil, ErrProcedureNotFound
		}
		if e.ServiceCategory != category {
			return nil, fmt.Errorf("%w: extra procedure id=%d belongs to category %s", ErrInvalidInput, e.ID, e.ServiceCategory)
		}
		ordered = append(ordered, e)
	}
	return ordered, nil
}
