package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CompanyOverlay stores customer-scoped overrides for a subset of company
// fields, keyed by (customer_id, company_id). An overlay field that is nil
// or empty defers to the global record.
type CompanyOverlay struct {
	CustomerID         uuid.UUID       `json:"customer_id"`
	CompanyID          uuid.UUID       `json:"company_id"`
	Name               *string         `json:"name,omitempty"`
	Categories         []string        `json:"categories,omitempty"`
	Revenue            *int64          `json:"revenue,omitempty"`
	Country            *string         `json:"country,omitempty"`
	Region             *string         `json:"region,omitempty"`
	Employees          *int            `json:"employees,omitempty"`
	Email              *string         `json:"email,omitempty"`
	LastScoringResults json.RawMessage `json:"last_scoring_results,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Apply merges the overlay onto a copy of the base record. Overlay fields
// win only when present and non-empty.
func (o *CompanyOverlay) Apply(base Company) Company {
	if o == nil {
		return base
	}
	if o.Name != nil && *o.Name != "" {
		base.DisplayName = *o.Name
	}
	if len(o.Categories) > 0 {
		base.Categories = o.Categories
	}
	if o.Revenue != nil {
		base.Revenue = o.Revenue
	}
	if o.Country != nil && *o.Country != "" {
		base.Country = o.Country
	}
	if o.Region != nil && *o.Region != "" {
		base.Region = o.Region
	}
	if o.Employees != nil {
		base.Employees = o.Employees
	}
	if o.Email != nil && *o.Email != "" {
		base.Email = o.Email
	}
	return base
}
