package list_roles

import (
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
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

// Handle GET /api/v1/roles
// Без токена или без роли staff возвращаются только категории услуг
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	result, err := h.service.List(r.Context(), actor)
	if err != nil {
		h.logger.Error("GET /roles - Failed to list roles: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
