package delete_procedure

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/procedures"
)

const (
	msgInvalidProcedureID = "некорректный ID процедуры"
	msgMissingActor       = "требуется авторизация"
	msgNotFound           = "процедура не найдена"
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

// Handle DELETE /api/v1/procedures/{id}
// Если на процедуру ссылаются записи, она только отключается: ответ 200 с disabled=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.ParseID(mux.Vars(r)["id"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidProcedureID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	result, err := h.service.Delete(r.Context(), actor, id)
	if err != nil {
		switch {
		case errors.Is(err, procedures.ErrProcedureNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, procedures.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /procedures/{id} - Failed to delete procedure: id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /procedures/{id} - Procedure removed: id=%d, disabled=%t", id, result.Disabled)
	handlers.RespondJSON(w, http.StatusOK, result)
}
