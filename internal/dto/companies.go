package dto

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/1-to-100/baseplate-v3-sub003/internal/entity"
)

// FlexStrings accepts a JSON string, an array of strings, or null. Upstream
// clients send filter dimensions in all three shapes; the decoder collapses
// them into one slice so nothing downstream has to branch on the input form.
type FlexStrings []string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = nil
		return nil
	}
	if data[0] == '[' {
		var values []string
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
		*f = values
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*f = []string{value}
	return nil
}

// RawCompanyFilter is the loosely-typed filter payload as supplied by
// callers. It is normalized into a filter.Spec before any matching runs.
type RawCompanyFilter struct {
	Search       string      `json:"search,omitempty"`
	Country      FlexStrings `json:"country,omitempty"`
	Region       FlexStrings `json:"region,omitempty"`
	MinEmployees *int        `json:"min_employees,omitempty"`
	MaxEmployees *int        `json:"max_employees,omitempty"`
	Categories   FlexStrings `json:"categories,omitempty"`
	Technologies FlexStrings `json:"technology,omitempty"`
	ListID       *string     `json:"list_id,omitempty"`
}

// PageRequest carries pagination and sort parameters for company listings.
type PageRequest struct {
	Page       int    `json:"page" validate:"omitempty,min=1"`
	PerPage    int    `json:"per_page" validate:"omitempty,min=1,max=100"`
	SortColumn string `json:"sort_column,omitempty" validate:"omitempty,oneof=created_at updated_at name employees revenue country"`
	Ascending  bool   `json:"ascending,omitempty"`
}

// CompanyItem is a company after customer overlay merging, ready to return.
type CompanyItem struct {
	entity.Company
	Score            *float64 `json:"score,omitempty"`
	ScoreSummary     *string  `json:"score_summary,omitempty"`
	ScoreDescription *string  `json:"score_description,omitempty"`
	ListIDs          []string `json:"list_ids,omitempty"`
}

// CompanyPage is one page of resolved companies with derived pagination
// metadata. Construct it with NewCompanyPage so the derived fields stay
// consistent with total/page/per_page.
type CompanyPage struct {
	Data       []CompanyItem `json:"data"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalPages int           `json:"total_pages"`
	HasNext    bool          `json:"has_next"`
	HasPrev    bool          `json:"has_prev"`
}

// NewCompanyPage assembles a page and derives total_pages/has_next/has_prev.
func NewCompanyPage(data []CompanyItem, total, page, perPage int) CompanyPage {
	if data == nil {
		data = []CompanyItem{}
	}
	totalPages := 0
	if total > 0 && perPage > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(perPage)))
	}
	return CompanyPage{
		Data:       data,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// SearchCompaniesRequest is the resolution payload: a filter block plus
// pagination controls at the top level.
type SearchCompaniesRequest struct {
	Filters RawCompanyFilter `json:"filters"`
	PageRequest
}

// UpdateCompanyRequest captures a partial company update. Customer-scoped
// fields land in the caller's overlay; global fields patch the shared
// catalogue record. The two groups are written independently.
type UpdateCompanyRequest struct {
	// Customer-scoped fields.
	Name       *string     `json:"name,omitempty"`
	Categories FlexStrings `json:"categories,omitempty"`
	Revenue    *int64      `json:"revenue,omitempty"`
	Country    *string     `json:"country,omitempty"`
	Region     *string     `json:"region,omitempty"`
	Employees  *int        `json:"employees,omitempty" validate:"omitempty,min=0"`
	Email      *string     `json:"email,omitempty"`

	// Global fields.
	Phone       *string `json:"phone,omitempty"`
	WebsiteURL  *string `json:"website_url,omitempty"`
	Description *string `json:"description,omitempty"`
	LinkedInURL *string `json:"linkedin_url,omitempty"`
}

// HasCustomerFields reports whether any customer-scoped field is present.
func (r *UpdateCompanyRequest) HasCustomerFields() bool {
	return r.Name != nil || len(r.Categories) > 0 || r.Revenue != nil ||
		r.Country != nil || r.Region != nil || r.Employees != nil || r.Email != nil
}

// HasGlobalFields reports whether any global field is present.
func (r *UpdateCompanyRequest) HasGlobalFields() bool {
	return r.Phone != nil || r.WebsiteURL != nil || r.Description != nil || r.LinkedInURL != nil
}
