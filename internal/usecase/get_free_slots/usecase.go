package get_free_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	procedureRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/procedure"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
)

// UseCase use case для получения свободного времени на день
type UseCase struct {
	procedureRepo ProcedureRepository
	calendar      Calendar
	hours         HoursProvider
	metrics       Metrics
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	procedureRepo ProcedureRepository,
	calendar Calendar,
	hours HoursProvider,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		procedureRepo: procedureRepo,
		calendar:      calendar,
		hours:         hours,
		metrics:       metrics,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetFreeSlots: category=%s, procedure=%d, extras=%v, date=%s",
		req.ServiceCategory, req.ProcedureID, req.ExtraProcedureIDs, req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetFreeSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Рабочее окно категории задает часовой пояс дня
	hours, err := uc.hours.WorkingHours(ctx, req.ServiceCategory)
	if err != nil {
		uc.logger.Error("GetFreeSlots: failed to get working hours for category=%s: %v", req.ServiceCategory, err)
		return nil, fmt.Errorf("%w: failed to get working hours: %w", ErrInternal, err)
	}

	day, err := parseDay(req.Date, hours.Location)
	if err != nil {
		uc.logger.Warn("GetFreeSlots: %v", err)
		return nil, err
	}

	// 3. Процедура и дополнительные процедуры
	procedure, extras, err := uc.loadProcedures(ctx, req)
	if err != nil {
		return nil, err
	}
	duration := totalDuration(procedure, extras)

	// 4. Интервалы дня
	dayStart := hours.DayStart(day)
	intervals, err := uc.calendar.FindIntervals(ctx, req.ServiceCategory, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		uc.logger.Error("GetFreeSlots: failed to find intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to find intervals: %w", ErrInternal, err)
	}

	// 5. Расчет свободного времени
	query := availability.Query{
		Day:       dayStart,
		Hours:     hours,
		Duration:  time.Duration(duration) * time.Minute,
		Intervals: intervals,
	}
	if req.ExcludeEventID != nil {
		query.Exclude = domain.AppointmentRef(*req.ExcludeEventID)
	}
	now := uc.timeProvider.Now()
	query.Now = &now

	free, err := availability.FreeSlots(query)
	if err != nil {
		uc.logger.Error("GetFreeSlots: availability failed: %v", err)
		return nil, fmt.Errorf("%w: availability: %w", ErrInternal, err)
	}

	uc.metrics.ObserveFreeSlots(req.ServiceCategory, len(free))
	uc.logger.Info("GetFreeSlots: %d free slots for category=%s on %s", len(free), req.ServiceCategory, req.Date)

	return &Response{
		Date:            dayStart.Format(domain.DateFormat),
		ServiceCategory: req.ServiceCategory,
		ProcedureID:     procedure.ID,
		DurationMinutes: duration,
		Slots:           availability.FormatSlots(free, hours.Location),
	}, nil
}

func (uc *UseCase) loadProcedures(ctx context.Context, req *Request) (*domain.Procedure, []*domain.Procedure, error) {
	procedure, err := uc.procedureRepo.GetByID(ctx, req.ProcedureID)
	if err != nil {
		if errors.Is(err, procedureRepo.ErrProcedureNotFound) {
			uc.logger.Warn("GetFreeSlots: procedure id=%d not found", req.ProcedureID)
			return nil, nil, ErrProcedureNotFound
		}
		uc.logger.Error("GetFreeSlots: failed to get procedure id=%d: %v", req.ProcedureID, err)
		return nil, nil, fmt.Errorf("%w: failed to get procedure: %w", ErrInternal, err)
	}

	if !procedure.IsBookable() {
		uc.logger.Warn("GetFreeSlots: procedure id=%d is disabled", req.ProcedureID)
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
		uc.logger.Error("GetFreeSlots: failed to get extra procedures: %v", err)
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
			uc.logger.Warn("GetFreeSlots: extra procedure id=%d not found", id)
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
