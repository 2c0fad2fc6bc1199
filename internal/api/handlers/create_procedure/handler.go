package create_procedure

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/procedures"
	"github.com/m04kA/SMC-SalonBooking/internal/service/procedures/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingActor       = "требуется авторизация"
	msgInvalidInput       = "некорректные данные процедуры"
	msgCategoryNotFound   = "категория услуг не найдена"
	msgForbidden          = "доступ запрещен"
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

// Handle POST /api/v1/procedures
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req models.CreateProcedureRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /procedures - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, procedures.ErrInvalidInput):
			h.logger.Warn("POST /procedures - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, procedures.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, procedures.ErrCategoryNotFound):
			handlers.RespondNotFound(w, msgCategoryNotFound)

		default:
			h.logger.Error("POST /procedures - Failed to create procedure: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /procedures - Procedure created: id=%d, category=%s", result.ID, result.ServiceCategory)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
