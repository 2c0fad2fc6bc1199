package get_free_slots

// Request модель запроса свободного времени
type Request struct {
	Date              string  // Дата в формате YYYY-MM-DD (в часовом поясе салона)
	ServiceCategory   string  // Категория услуг
	ProcedureID       int64   // Основная процедура
	ExtraProcedureIDs []int64 // Дополнительные процедуры (опционально)
	ExcludeEventID    *int64  // Редактируемая запись, не блокирующая слоты (опционально)
}

// Response модель ответа со свободными слотами
type Response struct {
	Date            string   `json:"date"`
	ServiceCategory string   `json:"serviceCategory"`
	ProcedureID     int64    `json:"procedureId"`
	DurationMinutes int      `json:"durationMinutes"`
	Slots           []string `json:"slots"`
}
