package domain

import "time"

// AccessLevel names one of the three independent permissions.
type AccessLevel int

const (
	AccessLevelIntake    AccessLevel = 1
	AccessLevelBoard     AccessLevel = 2
	AccessLevelAnalytics AccessLevel = 3
)

// User is a staff account. Attendant is the display name stamped on tickets.
type User struct {
	ID              string
	Attendant       string
	Phone           string
	Username        string
	PasswordHash    string
	Level1Access    bool
	Level2Access    bool
	Level3Access    bool
	Active          bool
	WhatsAppEnabled bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasAccess reports whether the user holds the given access flag.
func (u *User) HasAccess(level AccessLevel) bool {
	switch level {
	case AccessLevelIntake:
		return u.Level1Access
	case AccessLevelBoard:
		return u.Level2Access
	case AccessLevelAnalytics:
		return u.Level3Access
	default:
		return false
	}
}

// NotificationPhone returns the phone to notify, or "" when the user cannot be notified.
func (u *User) NotificationPhone() string {
	if u == nil || !u.WhatsAppEnabled {
		return ""
	}
	return u.Phone
}
