package domain

// Session is the transient identity of the current caller.
type Session struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// SessionFor builds a session from a directory user.
func SessionFor(user User) Session {
	return Session{Username: user.Username, Role: user.Role}
}

// IsZero reports whether no caller is attached.
func (s Session) IsZero() bool {
	return s.Username == ""
}
