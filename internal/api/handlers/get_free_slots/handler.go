package get_free_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	getFreeSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_free_slots"
)

const (
	msgInvalidProcedureID = "некорректный ID процедуры"
	msgInvalidExtraIDs    = "некорректный список дополнительных процедур"
	msgInvalidExcludeID   = "некорректный excludeEventId"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput       = "некорректные параметры запроса"
	msgProcedureNotFound  = "процедура не найдена"
)

type Handler struct {
	useCase GetFreeSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetFreeSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/free-slots?date=&serviceCategory=&procedureId=&extraProcedureIds=&excludeEventId=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	procedureID, err := handlers.ParseID(query.Get("procedureId"))
	if err != nil {
		h.logger.Warn("GET /free-slots - Invalid procedure ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProcedureID)
		return
	}

	extraIDs, err := handlers.ParseIDList(query.Get("extraProcedureIds"))
	if err != nil {
		h.logger.Warn("GET /free-slots - Invalid extra procedure IDs: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExtraIDs)
		return
	}

	req := &getFreeSlots.Request{
		Date:              query.Get("date"),
		ServiceCategory:   query.Get("serviceCategory"),
		ProcedureID:       procedureID,
		ExtraProcedureIDs: extraIDs,
	}

	if raw := query.Get("excludeEventId"); raw != "" {
		id, err := handlers.ParseID(raw)
		if err != nil {
			h.logger.Warn("GET /free-slots - Invalid excludeEventId: %v", err)
			handlers.RespondBadRequest(w, msgInvalidExcludeID)
			return
		}
		req.ExcludeEventID = &id
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getFreeSlots.ErrInvalidDate):
			h.logger.Warn("GET /free-slots - Invalid date: %s", req.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getFreeSlots.ErrInvalidInput):
			h.logger.Warn("GET /free-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, getFreeSlots.ErrProcedureNotFound):
			h.logger.Warn("GET /free-slots - Procedure not found: procedure_id=%d", procedureID)
			handlers.RespondNotFound(w, msgProcedureNotFound)

		default:
			h.logger.Error("GET /free-slots - Failed to get free slots: category=%s, error=%v", req.ServiceCategory, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /free-slots - %d slots: category=%s, date=%s", len(result.Slots), result.ServiceCategory, result.Date)
	handlers.RespondJSON(w, http.StatusOK, result)
}
