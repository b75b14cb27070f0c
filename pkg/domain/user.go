package domain

import "strings"

// Role es el rol del usuario que consulta los documentos.
type Role string

const (
	RoleLawyer          Role = "lawyer"
	RoleClient          Role = "client"
	RoleBasic           Role = "basic"
	RoleCorporateClient Role = "corporate_client"
)

// IsClientRole agrupa los roles que diligencian documentos.
func (r Role) IsClientRole() bool {
	return r == RoleClient || r == RoleBasic || r == RoleCorporateClient
}

type User struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Identification string `json:"identification"`
	Role           Role   `json:"role"`
}

// FullName une nombre y apellido ignorando los vacíos.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
