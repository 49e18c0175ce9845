package domain

import "time"

// SessionState tracks where the login handshake currently stands.
type SessionState string

const (
	StateUnauthenticated      SessionState = "unauthenticated"
	StateAwaitingSecondFactor SessionState = "awaiting_second_factor"
	StateAuthenticated        SessionState = "authenticated"
)

// Session is the server-issued access grant for one authenticated client.
// It is replaced wholesale on re-authentication.
type Session struct {
	Token     string
	CreatedAt time.Time
	Email     string
	AccountID string
}

func (s Session) IsZero() bool {
	return s.Token == ""
}
