package domain

import "time"

// Default schedule values
const (
	DefaultWorkStartHour      = 7
	DefaultWorkEndHour        = 17
	DefaultGranularityMinutes = 15
	DefaultTimezone           = "Europe/Prague"
	DefaultCancellationCutoff = 24 * time.Hour
)

// Business validation constants
const (
	ProcedureDurationStep  = 15 // длительность процедуры кратна 15 минутам
	MaxProcedureDuration   = 480
	MaxExtraProcedures     = 5
	MaxNotesLength         = 500
	MaxLastnameLength      = 100
	MaxRangeDays           = 62 // максимальный период выборки календаря
	MaxProcedureNameLength = 200
	MaxRoleNameLength      = 50
	MaxStaffEventTitleLen  = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
