package roles

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	roleRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/role"
	"github.com/m04kA/SMC-SalonBooking/internal/service/roles/models"
)

var roleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Service сервис ролей и категорий услуг
type Service struct {
	roleRepo      RoleRepository
	procedureRepo ProcedureRepository
	authz         Authorizer
	logger        Logger
}

// NewService создает новый экземпляр сервиса ролей
func NewService(roleRepo RoleRepository, procedureRepo ProcedureRepository, authz Authorizer, logger Logger) *Service {
	return &Service{
		roleRepo:      roleRepo,
		procedureRepo: procedureRepo,
		authz:         authz,
		logger:        logger,
	}
}

// EnsureDefaults создает роли по умолчанию, которых еще нет.
// Вызывается один раз при старте процесса, повторный вызов ничего не меняет.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	created := 0
	for _, role := range domain.DefaultRoles {
		inserted, err := s.roleRepo.InsertIfAbsent(ctx, role)
		if err != nil {
			s.logger.Error("EnsureDefaults: failed to insert role %s: %v", role.Name, err)
			return fmt.Errorf("%w: EnsureDefaults - repository error: %w", ErrInternal, err)
		}
		if inserted {
			created++
		}
	}

	if created > 0 {
		s.logger.Info("EnsureDefaults: seeded %d default roles", created)
	}
	return nil
}

// List возвращает роли. Не сотрудники видят только категории услуг
func (s *Service) List(ctx context.Context, actor *domain.Actor) (*models.RoleListResponse, error) {
	onlyCategories := !s.authz.HasRole(domain.RoleStaff, actor)

	list, err := s.roleRepo.List(ctx, onlyCategories)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainRoleList(list), nil
}

// Create создает роль. Только для администратора
func (s *Service) Create(ctx context.Context, actor *domain.Actor, req *models.CreateRoleRequest) (*models.RoleResponse, error) {
	s.logger.Info("Create: creating role %q", req.Name)

	if !s.authz.HasRole(domain.RoleAdmin, actor) {
		s.logger.Warn("Create: actor is not an admin")
		return nil, ErrAccessDenied
	}

	role := &domain.Role{
		Name:        strings.ToLower(strings.TrimSpace(req.Name)),
		DisplayName: strings.TrimSpace(req.DisplayName),
		IsCategory:  req.IsCategory,
	}
	if err := validateRole(role); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.roleRepo.Create(ctx, role)
	if err != nil {
		if errors.Is(err, roleRepo.ErrDuplicateRole) {
			return nil, ErrRoleAlreadyExists
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created role id=%d", created.ID)
	return models.FromDomainRole(created), nil
}

// Delete удаляет роль. Системные роли и категории с процедурами удалить нельзя
func (s *Service) Delete(ctx context.Context, actor *domain.Actor, id int64) error {
	s.logger.Info("Delete: deleting role id=%d", id)

	if !s.authz.HasRole(domain.RoleAdmin, actor) {
		s.logger.Warn("Delete: actor is not an admin")
		return ErrAccessDenied
	}

	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, roleRepo.ErrRoleNotFound) {
			return ErrRoleNotFound
		}
		s.logger.Error("Delete: repository error for role id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %w", ErrInternal, err)
	}

	if domain.IsReservedRole(role.Name) {
		s.logger.Warn("Delete: role %s is reserved", role.Name)
		return ErrReservedRole
	}

	if role.IsCategory {
		category := role.Name
		procedures, err := s.procedureRepo.List(ctx, domain.ProceduresFilter{ServiceCategory: &category, IncludeDisabled: true})
		if err != nil {
			s.logger.Error("Delete: failed to list procedures of %s: %v", category, err)
			return fmt.Errorf("%w: Delete - procedure repository error: %w", ErrInternal, err)
		}
		if len(procedures) > 0 {
			s.logger.Warn("Delete: category %s still has %d procedures", category, len(procedures))
			return ErrRoleInUse
		}
	}

	if err := s.roleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, roleRepo.ErrRoleNotFound) {
			return ErrRoleNotFound
		}
		s.logger.Error("Delete: repository error for role id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Delete: role %s deleted", role.Name)
	return nil
}

func validateRole(r *domain.Role) error {
	if !roleNamePattern.MatchString(r.Name) || utf8.RuneCountInString(r.Name) > domain.MaxRoleNameLength {
		return fmt.Errorf("%w: name must be lowercase latin, up to %d characters", ErrInvalidInput, domain.MaxRoleNameLength)
	}
	if domain.IsReservedRole(r.Name) {
		return ErrReservedRole
	}
	if r.DisplayName == "" {
		return fmt.Errorf("%w: displayName is required", ErrInvalidInput)
	}
	return nil
}
