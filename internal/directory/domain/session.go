package domain

import "time"

// Session is the directory's single login state. Active is nil whenever
// Authenticated is false.
type Session struct {
	Authenticated bool
	Active        *Account
	StartedAt     time.Time
}

// Anonymous is the unauthenticated session.
func Anonymous() Session { return Session{} }

// Start returns an authenticated session for acc.
func Start(acc Account, at time.Time) Session {
	return Session{Authenticated: true, Active: &acc, StartedAt: at}
}

// Clone returns a copy that shares no memory with s.
func (s Session) Clone() Session {
	if s.Active != nil {
		acc := *s.Active
		s.Active = &acc
	}
	return s
}
