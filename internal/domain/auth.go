package domain

import "time"

// Session identifies who is acting. It is built from a verified token and passed
// explicitly into every service call.
type Session struct {
	TokenID      string
	UserID       string
	Username     string
	Attendant    string
	Level1Access bool
	Level2Access bool
	Level3Access bool
	ExpiresAt    time.Time
}

// NewSession derives a session from a user record.
func NewSession(u *User) Session {
	return Session{
		UserID:       u.ID,
		Username:     u.Username,
		Attendant:    u.Attendant,
		Level1Access: u.Level1Access,
		Level2Access: u.Level2Access,
		Level3Access: u.Level3Access,
	}
}

// HasAccess reports whether the session holds the given access flag.
func (s Session) HasAccess(level AccessLevel) bool {
	switch level {
	case AccessLevelIntake:
		return s.Level1Access
	case AccessLevelBoard:
		return s.Level2Access
	case AccessLevelAnalytics:
		return s.Level3Access
	default:
		return false
	}
}

// HomeLevel is the highest level the session may reach, 0 when none.
func (s Session) HomeLevel() AccessLevel {
	switch {
	case s.Level3Access:
		return AccessLevelAnalytics
	case s.Level2Access:
		return AccessLevelBoard
	case s.Level1Access:
		return AccessLevelIntake
	default:
		return 0
	}
}

// CanDrag reports whether the session may move tickets on the board.
func (s Session) CanDrag() bool {
	return s.Level2Access
}
