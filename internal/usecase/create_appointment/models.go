package create_appointment

import "time"

// Request модель запроса на создание записи
type Request struct {
	ServiceCategory   string    // Категория услуг
	ProcedureID       int64     // Основная процедура
	ExtraProcedureIDs []int64   // Дополнительные процедуры (опционально)
	Lastname          string    // Фамилия клиента
	Email             *string   // Email для уведомлений (опционально, нужен email или телефон)
	Phone             *string   // Телефон (опционально)
	Notes             *string   // Заметки клиента (опционально)
	StaffNotes        *string   // Заметки персонала, учитываются только от сотрудников категории
	AllDay            bool      // Только для администратора
	Start             time.Time // Начало записи
}
