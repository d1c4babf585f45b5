package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// List kinds. Static lists carry an explicit membership join table; dynamic
// lists compute membership on demand from their stored filter blob.
const (
	ListTypeStatic  = "static"
	ListTypeDynamic = "dynamic"
)

// List is a customer-owned collection of companies. The Filters blob is kept
// as raw JSON so the stored shape stays under the caller's control; it is
// normalized on every evaluation.
type List struct {
	ID         uuid.UUID       `json:"id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Filters    json.RawMessage `json:"filters,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// IsStatic reports whether membership comes from the explicit join table.
func (l *List) IsStatic() bool {
	return l.Type == ListTypeStatic
}
