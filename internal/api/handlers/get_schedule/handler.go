package get_schedule

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/schedule"
)

const msgCategoryNotFound = "категория услуг не найдена"

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/schedules/{serviceCategory}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["serviceCategory"]

	result, err := h.service.Get(r.Context(), category)
	if err != nil {
		if errors.Is(err, schedule.ErrCategoryNotFound) {
			handlers.RespondNotFound(w, msgCategoryNotFound)
			return
		}
		h.logger.Error("GET /schedules/{serviceCategory} - Failed to get schedule: category=%s, error=%v", category, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
