package entity

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Platform admins may browse the global catalogue without a
// customer selected; members always operate within their customer scope.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User is an authenticated caller. CustomerID is the default tenant used
// when a request carries no explicit customer override; it is nil for
// platform administrators not attached to any customer.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CustomerID   *uuid.UUID `json:"customer_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
