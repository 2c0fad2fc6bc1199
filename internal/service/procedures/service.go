package procedures

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	procedureRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/procedure"
	roleRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/role"
	"github.com/m04kA/SMC-SalonBooking/internal/service/procedures/models"
)

// Service сервис каталога процедур.
// Управлять процедурой может сотрудник ее категории или администратор.
type Service struct {
	procedureRepo   ProcedureRepository
	appointmentRepo AppointmentRepository
	roleRepo        RoleRepository
	authz           Authorizer
	logger          Logger
}

// NewService создает новый экземпляр сервиса процедур
func NewService(
	procedureRepo ProcedureRepository,
	appointmentRepo AppointmentRepository,
	roleRepo RoleRepository,
	authz Authorizer,
	logger Logger,
) *Service {
	return &Service{
		procedureRepo:   procedureRepo,
		appointmentRepo: appointmentRepo,
		roleRepo:        roleRepo,
		authz:           authz,
		logger:          logger,
	}
}

// Create создает процедуру в каталоге
func (s *Service) Create(ctx context.Context, actor *domain.Actor, req *models.CreateProcedureRequest) (*models.ProcedureResponse, error) {
	s.logger.Info("Create: creating procedure %q in category=%s", req.Name, req.ServiceCategory)

	p := req.ToDomainProcedure()
	p.Name = strings.TrimSpace(p.Name)
	if err := validateProcedure(p); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	if !s.authz.HasRole(p.ServiceCategory, actor) {
		s.logger.Warn("Create: actor has no role %s", p.ServiceCategory)
		return nil, ErrAccessDenied
	}

	if err := s.checkCategory(ctx, "Create", p.ServiceCategory); err != nil {
		return nil, err
	}

	created, err := s.procedureRepo.Create(ctx, p)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created procedure id=%d", created.ID)
	return models.FromDomainProcedure(created), nil
}

// GetByID получает процедуру по ID. Отключенные процедуры видны только сотрудникам
func (s *Service) GetByID(ctx context.Context, actor *domain.Actor, id int64) (*models.ProcedureResponse, error) {
	p, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if p.Disabled && !s.authz.HasRole(domain.RoleStaff, actor) {
		return nil, ErrProcedureNotFound
	}

	return models.FromDomainProcedure(p), nil
}

// List каталог процедур. Отключенные процедуры получают только сотрудники
func (s *Service) List(ctx context.Context, actor *domain.Actor, category *string) (*models.ProcedureListResponse, error) {
	filter := domain.ProceduresFilter{
		ServiceCategory: category,
		IncludeDisabled: s.authz.HasRole(domain.RoleStaff, actor),
	}

	list, err := s.procedureRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainProcedureList(list), nil
}

// Update частично обновляет процедуру. Уже созданные записи не меняются:
// название, цена и длительность в них заморожены при бронировании.
func (s *Service) Update(ctx context.Context, actor *domain.Actor, id int64, req *models.UpdateProcedureRequest) (*models.ProcedureResponse, error) {
	s.logger.Info("Update: updating procedure id=%d", id)

	p, err := s.get(ctx, "Update", id)
	if err != nil {
		return nil, err
	}

	if !s.authz.HasRole(p.ServiceCategory, actor) {
		s.logger.Warn("Update: actor has no role %s", p.ServiceCategory)
		return nil, ErrAccessDenied
	}

	req.ApplyToProcedure(p)
	p.Name = strings.TrimSpace(p.Name)
	if err := validateProcedure(p); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	if err := s.procedureRepo.Update(ctx, p); err != nil {
		if errors.Is(err, procedureRepo.ErrProcedureNotFound) {
			return nil, ErrProcedureNotFound
		}
		s.logger.Error("Update: repository error for procedure id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated procedure id=%d", id)
	return models.FromDomainProcedure(p), nil
}

// Delete удаляет процедуру. Если на процедуру ссылаются записи, она только отключается
func (s *Service) Delete(ctx context.Context, actor *domain.Actor, id int64) (*models.DeleteProcedureResponse, error) {
	s.logger.Info("Delete: deleting procedure id=%d", id)

	p, err := s.get(ctx, "Delete", id)
	if err != nil {
		return nil, err
	}

	if !s.authz.HasRole(p.ServiceCategory, actor) {
		s.logger.Warn("Delete: actor has no role %s", p.ServiceCategory)
		return nil, ErrAccessDenied
	}

	referenced, err := s.appointmentRepo.ExistsByProcedure(ctx, id)
	if err != nil {
		s.logger.Error("Delete: failed to check references of procedure id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Delete - appointment repository error: %w", ErrInternal, err)
	}

	if !referenced {
		err = s.procedureRepo.Delete(ctx, id)
		if err == nil {
			s.logger.Info("Delete: procedure id=%d deleted", id)
			return &models.DeleteProcedureResponse{ID: id}, nil
		}
		if !errors.Is(err, procedureRepo.ErrReferenced) {
			s.logger.Error("Delete: repository error for procedure id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: Delete - repository error: %w", ErrInternal, err)
		}
		// запись на процедуру появилась между проверкой и удалением
	}

	if err := s.procedureRepo.Disable(ctx, id); err != nil {
		s.logger.Error("Delete: failed to disable procedure id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Delete - disable: %w", ErrInternal, err)
	}

	s.logger.Info("Delete: procedure id=%d is referenced and was disabled", id)
	return &models.DeleteProcedureResponse{ID: id, Disabled: true}, nil
}

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Procedure, error) {
	p, err := s.procedureRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, procedureRepo.ErrProcedureNotFound) {
			s.logger.Warn("%s: procedure id=%d not found", op, id)
			return nil, ErrProcedureNotFound
		}
		s.logger.Error("%s: repository error for procedure id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
	return p, nil
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
		return ErrCategoryNotFound
	}
	return nil
}
