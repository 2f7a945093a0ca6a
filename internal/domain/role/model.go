package role

import (
	"strings"
	"time"
)

// Role is a disjoint label, not a privilege level: organizer does not imply member.
type Role string

const (
	None      Role = ""
	Member    Role = "member"
	Organizer Role = "organizer"
)

const ClaimKey = "role"

func Parse(s string) (Role, bool) {
	switch Role(strings.TrimSpace(s)) {
	case Member:
		return Member, true
	case Organizer:
		return Organizer, true
	default:
		return None, false
	}
}

// FromClaims reads the role claim. Unknown or missing values mean no role.
func FromClaims(claims map[string]any) Role {
	if claims == nil {
		return None
	}
	s, _ := claims[ClaimKey].(string)
	r, ok := Parse(s)
	if !ok {
		return None
	}
	return r
}

// Caller is the authenticated identity an operation runs as.
type Caller struct {
	UID   string
	Email string
	Role  Role
	Admin bool
}

func (c Caller) Authenticated() bool { return c.UID != "" }

func (c Caller) Has(r Role) bool { return r != None && c.Role == r }

// System is the privileged caller used by operator tooling.
func System() Caller { return Caller{UID: "system", Admin: true} }

// Change is delivered to subscribers after a role claim is written.
type Change struct {
	UID      string    `json:"uid"`
	Previous Role      `json:"previous"`
	Role     Role      `json:"role"`
	At       time.Time `json:"at"`
}

type SetRoleInput struct {
	UID  string `json:"uid"`
	Role string `json:"role"`
}

type SetRoleResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UID     string `json:"uid"`
	Role    Role   `json:"role"`
}

type UserRole struct {
	UID   string `json:"uid"`
	Role  *Role  `json:"role"`
	Email string `json:"email"`
}
