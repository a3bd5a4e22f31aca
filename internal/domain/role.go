package domain

import "strings"

// Role enumerates the actors that can hold a session.
type Role string

const (
	RoleEndUser Role = "END_USER"
	RoleAgent   Role = "AGENT"
	RoleAdmin   Role = "ADMIN"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleEndUser, RoleAgent, RoleAdmin}

func (r Role) String() string {
	return string(r)
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleEndUser, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role works the support queue.
func (r Role) IsStaff() bool {
	return r == RoleAgent || r == RoleAdmin
}

// CanCreateTicket reports whether the role may open tickets.
func (r Role) CanCreateTicket() bool {
	return r == RoleEndUser
}

// CanCommentOnAnyTicket reports whether the role may reply on tickets it did not create.
func (r Role) CanCommentOnAnyTicket() bool {
	return r.IsStaff()
}

// CanVote reports whether the role may up/down vote tickets.
func (r Role) CanVote() bool {
	return r.IsValid()
}

// CanAssign reports whether the role may take tickets into its own queue.
func (r Role) CanAssign() bool {
	return r.IsStaff()
}

// CanChangeStatus reports whether the role may move tickets between statuses.
func (r Role) CanChangeStatus() bool {
	return r.IsStaff()
}

// CanAdminister reports whether the role may manage users and categories.
func (r Role) CanAdminister() bool {
	return r == RoleAdmin
}

// ParseRole accepts the wire value or a loose spelling such as "enduser" or "end-user".
func ParseRole(s string) (Role, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "", "_", "", " ", "").Replace(normalized)
	switch normalized {
	case "ENDUSER", "USER":
		return RoleEndUser, true
	case "AGENT", "SUPPORTAGENT":
		return RoleAgent, true
	case "ADMIN":
		return RoleAdmin, true
	}
	return "", false
}
