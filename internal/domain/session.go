package domain

// Session is the persisted login state ("user_data").
type Session struct {
	UUID     string `json:"uuid"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// IsAnonymous returns true if there is no logged-in user.
func (s *Session) IsAnonymous() bool {
	return s == nil || s.UUID == ""
}

// UserID returns the logged-in user's id, or "" when anonymous.
func (s *Session) UserID() string {
	if s.IsAnonymous() {
		return ""
	}
	return s.UUID
}
