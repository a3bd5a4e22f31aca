package domain

import "strings"

// User is a directory entry keyed by username.
type User struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// NormalizeUsername trims surrounding whitespace; usernames stay case-sensitive.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}
