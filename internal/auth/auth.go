// Package auth validates dashboard logins against the user directory.
package auth

import "strings"

// User is one row of the admin user sheet. Only rows typed USER may log in.
type User struct {
	Type     string
	Username string
	Password string
	Name     string
}

// Authenticate returns the matching user, or false when the credentials do
// not match any active user row.
func Authenticate(users []User, username, password string) (User, bool) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return User{}, false
	}
	for _, u := range users {
		if !strings.EqualFold(u.Type, "USER") {
			continue
		}
		if u.Username == username && u.Password == password {
			return u, true
		}
	}
	return User{}, false
}
