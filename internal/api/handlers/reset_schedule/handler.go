package reset_schedule

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/schedule"
)

const (
	msgMissingActor     = "требуется авторизация"
	msgNotFound         = "собственное расписание категории не задано"
	msgCategoryNotFound = "категория услуг не найдена"
	msgForbidden        = "доступ запрещен"
)

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

// Handle DELETE /api/v1/schedules/{serviceCategory}
// Возвращает категорию к рабочим часам по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["serviceCategory"]

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	if err := h.service.Reset(r.Context(), actor, category); err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrScheduleNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, schedule.ErrCategoryNotFound):
			handlers.RespondNotFound(w, msgCategoryNotFound)

		default:
			h.logger.Error("DELETE /schedules/{serviceCategory} - Failed to reset schedule: category=%s, error=%v", category, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /schedules/{serviceCategory} - Schedule reset: category=%s", category)
	handlers.RespondNoContent(w)
}
