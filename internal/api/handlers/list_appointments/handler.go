package list_appointments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
)

const (
	msgMissingActor    = "требуется авторизация"
	msgInvalidStart    = "некорректный параметр start"
	msgInvalidEnd      = "некорректный параметр end"
	msgInvalidCanceled = "некорректный параметр includeCanceled"
	msgInvalidInput    = "некорректный период или категория"
	msgForbidden       = "доступ запрещен"
)

type Handler struct {
	service  AppointmentService
	location *time.Location
	logger   Logger
}

// NewHandler location используется для дат без времени (YYYY-MM-DD)
func NewHandler(service AppointmentService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/appointments?serviceCategory=&start=&end=&includeCanceled=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	query := r.URL.Query()
	category := query.Get("serviceCategory")

	from, err := handlers.ParseTime(query.Get("start"), h.location)
	if err != nil {
		h.logger.Warn("GET /appointments - Invalid start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}
	to, err := handlers.ParseTime(query.Get("end"), h.location)
	if err != nil {
		h.logger.Warn("GET /appointments - Invalid end: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEnd)
		return
	}

	includeCanceled := false
	if raw := query.Get("includeCanceled"); raw != "" {
		includeCanceled, err = strconv.ParseBool(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidCanceled)
			return
		}
	}

	result, err := h.service.ListCalendar(r.Context(), actor, category, from, to, includeCanceled)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /appointments - Access denied: category=%s, user_id=%d", category, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /appointments - Failed to list appointments: category=%s, error=%v", category, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
