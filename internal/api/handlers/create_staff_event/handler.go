package create_staff_event

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/staffevents"
	"github.com/m04kA/SMC-SalonBooking/internal/service/staffevents/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingActor       = "требуется авторизация"
	msgInvalidInput       = "некорректные данные события"
	msgMarkerReadOnly     = "маркеры занятости создаются автоматически"
	msgForbidden          = "доступ запрещен"
	msgBusy               = "календарь сейчас изменяется, повторите попытку"
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

// Handle POST /api/v1/staff-events
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req models.CreateStaffEventRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /staff-events - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		switch {
		case errors.Is(err, staffevents.ErrAccessDenied):
			h.logger.Warn("POST /staff-events - Access denied: category=%s, user_id=%d", req.ServiceCategory, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, staffevents.ErrMarkerReadOnly):
			handlers.RespondBadRequest(w, msgMarkerReadOnly)

		case errors.Is(err, staffevents.ErrInvalidInput):
			h.logger.Warn("POST /staff-events - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, staffevents.ErrBusy):
			handlers.RespondError(w, http.StatusServiceUnavailable, msgBusy)

		default:
			h.logger.Error("POST /staff-events - Failed to create staff event: category=%s, error=%v", req.ServiceCategory, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /staff-events - Staff event created: id=%d, type=%s", result.ID, result.EventType)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
