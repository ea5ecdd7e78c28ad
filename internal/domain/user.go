package domain

import "strconv"

// User is an account known to the remote API.
// Fields are ordered to minimize memory padding.
type User struct {
	UUID     string `json:"uuid,omitempty"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"` // Write-only; never returned by the API
	ID       int    `json:"id,omitempty"`
}

// Key returns the identifier used in user-scoped API paths.
// The UUID is preferred; older records only carry the numeric id.
func (u *User) Key() string {
	if u.UUID != "" {
		return u.UUID
	}
	if u.ID != 0 {
		return strconv.Itoa(u.ID)
	}
	return ""
}
