package domain

import "time"

// Comment is an immutable entry in a ticket thread.
type Comment struct {
	Author    string    `json:"author"`
	Role      Role      `json:"role"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
