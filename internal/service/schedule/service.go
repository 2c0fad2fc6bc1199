package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	roleRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/role"
	scheduleRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SalonBooking/internal/service/schedule/models"
)

// Service рабочие часы категорий: собственное расписание категории
// или значения по умолчанию из конфигурации
type Service struct {
	scheduleRepo ScheduleRepository
	roleRepo     RoleRepository
	authz        Authorizer
	defaults     domain.WorkingHours
	markers      MarkerRefresher
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	roleRepo RoleRepository,
	authz Authorizer,
	defaults domain.WorkingHours,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		roleRepo:     roleRepo,
		authz:        authz,
		defaults:     defaults,
		logger:       logger,
	}
}

// SetMarkerRefresher подключает пересчет маркеров. Пересчет сам читает рабочие часы
// через этот сервис, поэтому подключается после создания.
func (s *Service) SetMarkerRefresher(markers MarkerRefresher) {
	s.markers = markers
}

// WorkingHours действующее рабочее окно категории. Используется движком доступности
func (s *Service) WorkingHours(ctx context.Context, category string) (domain.WorkingHours, error) {
	hours, _, err := s.resolve(ctx, category)
	return hours, err
}

// Defaults рабочее окно по умолчанию
func (s *Service) Defaults() domain.WorkingHours {
	return s.defaults
}

// Get возвращает действующее расписание категории
func (s *Service) Get(ctx context.Context, category string) (*models.ScheduleResponse, error) {
	if err := s.checkCategory(ctx, "Get", category); err != nil {
		return nil, err
	}

	hours, override, err := s.resolve(ctx, category)
	if err != nil {
		s.logger.Error("Get: failed to resolve schedule for category=%s: %v", category, err)
		return nil, err
	}

	return models.FromWorkingHours(category, hours, override), nil
}

// Update задает собственные рабочие часы категории. Только для администратора
func (s *Service) Update(ctx context.Context, actor *domain.Actor, category string, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Update: setting schedule for category=%s to %02d-%02d", category, req.WorkStartHour, req.WorkEndHour)

	if !s.authz.HasRole(domain.RoleAdmin, actor) {
		s.logger.Warn("Update: actor is not an admin")
		return nil, ErrAccessDenied
	}

	hours := s.defaults
	hours.StartHour = req.WorkStartHour
	hours.EndHour = req.WorkEndHour
	if !hours.IsValid() {
		s.logger.Warn("Update: invalid working hours %d-%d", req.WorkStartHour, req.WorkEndHour)
		return nil, fmt.Errorf("%w: workStartHour must be less than workEndHour within 0..24", ErrInvalidInput)
	}

	if err := s.checkCategory(ctx, "Update", category); err != nil {
		return nil, err
	}

	saved, err := s.scheduleRepo.Upsert(ctx, &domain.CategorySchedule{
		ServiceCategory: category,
		WorkStartHour:   req.WorkStartHour,
		WorkEndHour:     req.WorkEndHour,
	})
	if err != nil {
		s.logger.Error("Update: repository error for category=%s: %v", category, err)
		return nil, fmt.Errorf("%w: Update - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Update: schedule for category=%s saved", category)
	s.refreshMarkers(ctx, "Update", category)
	return models.FromWorkingHours(category, hours, saved), nil
}

// Reset удаляет собственное расписание категории, возвращая значения по умолчанию
func (s *Service) Reset(ctx context.Context, actor *domain.Actor, category string) error {
	s.logger.Info("Reset: resetting schedule for category=%s", category)

	if !s.authz.HasRole(domain.RoleAdmin, actor) {
		s.logger.Warn("Reset: actor is not an admin")
		return ErrAccessDenied
	}

	if err := s.scheduleRepo.Delete(ctx, category); err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return ErrScheduleNotFound
		}
		s.logger.Error("Reset: repository error for category=%s: %v", category, err)
		return fmt.Errorf("%w: Reset - repository error: %w", ErrInternal, err)
	}

	s.refreshMarkers(ctx, "Reset", category)
	return nil
}

// refreshMarkers пересчитывает маркеры после смены часов. Часы к этому моменту уже сохранены,
// ошибка пересчета только логируется.
func (s *Service) refreshMarkers(ctx context.Context, op, category string) {
	if s.markers == nil {
		return
	}
	days, err := s.markers.RefreshCategory(ctx, category)
	if err != nil {
		s.logger.Error("%s: markers of category=%s are not refreshed: %v", op, category, err)
		return
	}
	s.logger.Info("%s: refreshed markers of category=%s for %d day(s)", op, category, days)
}

func (s *Service) resolve(ctx context.Context, category string) (domain.WorkingHours, *domain.CategorySchedule, error) {
	hours := s.defaults

	override, err := s.scheduleRepo.GetByCategory(ctx, category)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return hours, nil, nil
		}
		return domain.WorkingHours{}, nil, fmt.Errorf("%w: resolve - repository error: %w", ErrInternal, err)
	}

	hours.StartHour = override.WorkStartHour
	hours.EndHour = override.WorkEndHour
	return hours, override, nil
}

func (s *Service) checkCategory(ctx context.Context, op, category string) error {
	role, err := s.roleRepo.GetByName(ctx, category)
	if err != nil {
		if errors.Is(err, roleRepo.ErrRoleNotFound) {
			s.logger.Warn("%s: category %s not found", op, category)
			return ErrCategoryNotFound
		}
		s.logger.Error("%s: failed to get role %s: %v", op, category, err)
		return fmt.Errorf("%w: %s - role repository error: %w", ErrInternal, op, err)
	}
	if !role.IsCategory {
		s.logger.Warn("%s: role %s is not a service category", op, category)
		return ErrCategoryNotFound
	}
	return nil
}
