package entity

import (
	"time"

	"github.com/google/uuid"
)

// Company represents a business in the global catalogue. Fields here are
// shared by every tenant; tenant-specific values are layered on top via
// CompanyOverlay at read time.
type Company struct {
	ID           uuid.UUID         `json:"id"`
	DisplayName  string            `json:"display_name"`
	LegalName    *string           `json:"legal_name,omitempty"`
	Domain       *string           `json:"domain,omitempty"`
	WebsiteURL   *string           `json:"website_url,omitempty"`
	Logo         *string           `json:"logo,omitempty"`
	Description  *string           `json:"description,omitempty"`
	Type         *string           `json:"type,omitempty"`
	Country      *string           `json:"country,omitempty"`
	Region       *string           `json:"region,omitempty"`
	Address      *string           `json:"address,omitempty"`
	Latitude     *float64          `json:"latitude,omitempty"`
	Longitude    *float64          `json:"longitude,omitempty"`
	Employees    *int              `json:"employees,omitempty"`
	Revenue      *int64            `json:"revenue,omitempty"`
	CurrencyCode *string           `json:"currency_code,omitempty"`
	SICCodes     []string          `json:"sic_codes,omitempty"`
	Categories   []string          `json:"categories,omitempty"`
	Technologies []string          `json:"technologies,omitempty"`
	Phone        *string           `json:"phone,omitempty"`
	Email        *string           `json:"email,omitempty"`
	SocialLinks  map[string]string `json:"social_links,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	FetchedAt    *time.Time        `json:"fetched_at,omitempty"`
}

// Name returns the display name, falling back to the legal name when the
// display name is empty. Text search and name sorting treat the two as a
// single coalesced field.
func (c *Company) Name() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	if c.LegalName != nil {
		return *c.LegalName
	}
	return ""
}
