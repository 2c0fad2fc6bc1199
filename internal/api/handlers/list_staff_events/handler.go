package list_staff_events

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/staffevents"
)

const (
	msgInvalidStart = "некорректный параметр start"
	msgInvalidEnd   = "некорректный параметр end"
	msgInvalidInput = "некорректный период или категория"
)

type Handler struct {
	service  StaffEventService
	location *time.Location
	logger   Logger
}

func NewHandler(service StaffEventService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/staff-events?serviceCategory=&start=&end=
// Без роли категории в ответе остаются только маркеры полной занятости
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	query := r.URL.Query()
	category := query.Get("serviceCategory")

	from, err := handlers.ParseTime(query.Get("start"), h.location)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}
	to, err := handlers.ParseTime(query.Get("end"), h.location)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidEnd)
		return
	}

	result, err := h.service.List(r.Context(), actor, category, from, to)
	if err != nil {
		if errors.Is(err, staffevents.ErrInvalidInput) {
			h.logger.Warn("GET /staff-events - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		h.logger.Error("GET /staff-events - Failed to list staff events: category=%s, error=%v", category, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
