package domain

// Actor authenticated caller of an operation.
// A nil *Actor is an anonymous caller.
type Actor struct {
	UserID int64
	Role   string
}

// IsAdmin returns true for administrators
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// IsAnonymous returns true when there is no authenticated caller
func (a *Actor) IsAnonymous() bool {
	return a == nil
}

// ID returns the user id or nil for anonymous callers
func (a *Actor) ID() *int64 {
	if a == nil {
		return nil
	}
	id := a.UserID
	return &id
}
