package delete_role

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/roles"
)

const (
	msgInvalidRoleID = "некорректный ID роли"
	msgMissingActor  = "требуется авторизация"
	msgNotFound      = "роль не найдена"
	msgForbidden     = "доступ запрещен"
	msgReserved      = "системную роль нельзя удалить"
	msgInUse         = "в категории есть процедуры, сначала удалите их"
)

type Handler struct {
	service RoleService
	logger  Logger
}

func NewHandler(service RoleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/roles/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.ParseID(mux.Vars(r)["id"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidRoleID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		switch {
		case errors.Is(err, roles.ErrRoleNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, roles.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, roles.ErrReservedRole):
			handlers.RespondBadRequest(w, msgReserved)

		case errors.Is(err, roles.ErrRoleInUse):
			handlers.RespondConflict(w, msgInUse)

		default:
			h.logger.Error("DELETE /roles/{id} - Failed to delete role: id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /roles/{id} - Role deleted: id=%d", id)
	handlers.RespondNoContent(w)
}
