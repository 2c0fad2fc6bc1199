package delete_staff_event

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/staffevents"
)

const (
	msgInvalidID      = "некорректный ID события"
	msgMissingActor   = "требуется авторизация"
	msgNotFound       = "событие не найдено"
	msgMarkerReadOnly = "маркер занятости удаляется автоматически"
	msgForbidden      = "доступ запрещен"
	msgBusy           = "календарь сейчас изменяется, повторите попытку"
)

type Handler struct {
	service StaffEventService
	logger  Logger
}

func NewHandler(service StaffEventService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/staff-events/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.ParseID(mux.Vars(r)["id"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		switch {
		case errors.Is(err, staffevents.ErrStaffEventNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, staffevents.ErrMarkerReadOnly):
			h.logger.Warn("DELETE /staff-events/{id} - Attempt to delete marker: id=%d", id)
			handlers.RespondBadRequest(w, msgMarkerReadOnly)

		case errors.Is(err, staffevents.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, staffevents.ErrBusy):
			handlers.RespondError(w, http.StatusServiceUnavailable, msgBusy)

		default:
			h.logger.Error("DELETE /staff-events/{id} - Failed to delete staff event: id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /staff-events/{id} - Staff event deleted: id=%d", id)
	handlers.RespondNoContent(w)
}
