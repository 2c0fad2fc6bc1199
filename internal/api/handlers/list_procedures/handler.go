package list_procedures

import (
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
)

type Handler struct {
	service ProcedureService
	logger  Logger
}

func NewHandler(service ProcedureService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/procedures?serviceCategory=
// Отключенные процедуры видят только сотрудники их категории
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	var category *string
	if raw := r.URL.Query().Get("serviceCategory"); raw != "" {
		category = &raw
	}

	result, err := h.service.List(r.Context(), actor, category)
	if err != nil {
		h.logger.Error("GET /procedures - Failed to list procedures: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
