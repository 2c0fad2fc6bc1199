package domain

import "time"

// Procedure represents a catalog service customers can book
type Procedure struct {
	ID              int64
	Name            string
	Price           float64
	DurationMinutes int
	ServiceCategory string
	Disabled        bool // мягко удалена, т.к. на нее есть записи
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsBookable returns true if new appointments may reference the procedure
func (p *Procedure) IsBookable() bool {
	return !p.Disabled
}

// IsValidProcedureDuration duration must be positive and a multiple of the step
func IsValidProcedureDuration(minutes int) bool {
	return minutes > 0 && minutes <= MaxProcedureDuration && minutes%ProcedureDurationStep == 0
}

// ProceduresFilter фильтр каталога процедур
type ProceduresFilter struct {
	ServiceCategory *string
	IncludeDisabled bool
}

// DistinctExtras true, если дополнительные процедуры не повторяются и не совпадают с основной
func DistinctExtras(procedureID int64, extraIDs []int64) bool {
	seen := map[int64]struct{}{procedureID: {}}
	for _, id := range extraIDs {
		if _, ok := seen[id]; ok {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}
