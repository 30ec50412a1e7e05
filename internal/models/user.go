package models

type UserRole string

const (
	RoleRecruiter UserRole = "recruiter"
	RoleAdmin     UserRole = "admin"
)

// Principal is the authenticated caller taken from the JWT.
type Principal struct {
	ID   string   `json:"id"`
	Role UserRole `json:"role"`
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
