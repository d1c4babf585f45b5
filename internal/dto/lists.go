package dto

import "encoding/json"

// CreateListRequest creates a static or dynamic list for the caller's
// customer. Dynamic lists must ship a filter blob; static lists may seed
// members immediately.
type CreateListRequest struct {
	Name       string          `json:"name" validate:"required,max=120"`
	Type       string          `json:"type" validate:"required,oneof=static dynamic"`
	Filters    json.RawMessage `json:"filters,omitempty"`
	CompanyIDs []string        `json:"company_ids,omitempty" validate:"omitempty,dive,uuid"`
}

// UpdateListRequest mutates list metadata or the stored filter blob.
type UpdateListRequest struct {
	Name    *string         `json:"name,omitempty" validate:"omitempty,max=120"`
	Filters json.RawMessage `json:"filters,omitempty"`
}

// ListMembersRequest adds or removes companies on a static list.
type ListMembersRequest struct {
	CompanyIDs []string `json:"company_ids" validate:"required,min=1,dive,uuid"`
}

// ListResponse is list metadata returned to clients.
type ListResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Filters   json.RawMessage `json:"filters,omitempty"`
	CreatedAt string          `json:"created_at"`
}
