package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/1-to-100/baseplate-v3-sub003/internal/dto"
	"github.com/1-to-100/baseplate-v3-sub003/internal/entity"
	"github.com/1-to-100/baseplate-v3-sub003/internal/repository"
)

// ListsService manages customer company lists. Static lists own an explicit
// membership set; dynamic lists store a filter blob evaluated on demand.
type ListsService struct {
	lists repository.ListsRepository
	users repository.UsersRepository
}

// NewListsService builds a new ListsService instance.
func NewListsService(lists repository.ListsRepository, users repository.UsersRepository) *ListsService {
	return &ListsService{lists: lists, users: users}
}

// ListLists returns the caller's lists.
func (s *ListsService) ListLists(ctx context.Context, tenant TenantContext) ([]dto.ListResponse, error) {
	customerID, err := s.requireCustomer(ctx, tenant)
	if err != nil {
		return nil, err
	}

	lists, err := s.lists.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ListResponse, 0, len(lists))
	for _, l := range lists {
		responses = append(responses, toListResponse(&l))
	}
	return responses, nil
}

// CreateList creates a list for the caller's customer. Dynamic lists require
// a syntactically valid filter blob; static lists may seed members.
func (s *ListsService) CreateList(ctx context.Context, tenant TenantContext, req dto.CreateListRequest) (*dto.ListResponse, error) {
	customerID, err := s.requireCustomer(ctx, tenant)
	if err != nil {
		return nil, err
	}

	filters, err := sanitizeFilterBlob(req.Filters)
	if err != nil {
		return nil, err
	}
	if req.Type == entity.ListTypeDynamic && filters == nil {
		return nil, ValidationError{Message: "dynamic lists require filters"}
	}

	list := &entity.List{
		CustomerID: customerID,
		Name:       req.Name,
		Type:       req.Type,
		Filters:    filters,
	}
	if err := s.lists.Create(ctx, list); err != nil {
		return nil, err
	}

	if list.IsStatic() && len(req.CompanyIDs) > 0 {
		ids, parseErr := parseUUIDs(req.CompanyIDs)
		if parseErr != nil {
			return nil, parseErr
		}
		if err := s.lists.AddMembers(ctx, list.ID, ids); err != nil {
			return nil, err
		}
	}

	resp := toListResponse(list)
	return &resp, nil
}

// UpdateList mutates list metadata or the stored filter blob.
func (s *ListsService) UpdateList(ctx context.Context, tenant TenantContext, listID uuid.UUID, req dto.UpdateListRequest) (*dto.ListResponse, error) {
	if _, err := s.ownedList(ctx, tenant, listID); err != nil {
		return nil, err
	}

	filters, err := sanitizeFilterBlob(req.Filters)
	if err != nil {
		return nil, err
	}

	list, err := s.lists.Update(ctx, listID, req.Name, filters)
	if err != nil {
		return nil, err
	}
	resp := toListResponse(list)
	return &resp, nil
}

// DeleteList removes a list and its membership.
func (s *ListsService) DeleteList(ctx context.Context, tenant TenantContext, listID uuid.UUID) error {
	if _, err := s.ownedList(ctx, tenant, listID); err != nil {
		return err
	}
	return s.lists.Delete(ctx, listID)
}

// AddMembers attaches companies to a static list.
func (s *ListsService) AddMembers(ctx context.Context, tenant TenantContext, listID uuid.UUID, companyIDs []string) error {
	list, err := s.ownedList(ctx, tenant, listID)
	if err != nil {
		return err
	}
	if !list.IsStatic() {
		return ValidationError{Message: "members can only be managed on static lists"}
	}
	ids, err := parseUUIDs(companyIDs)
	if err != nil {
		return err
	}
	return s.lists.AddMembers(ctx, listID, ids)
}

// RemoveMembers detaches companies from a static list.
func (s *ListsService) RemoveMembers(ctx context.Context, tenant TenantContext, listID uuid.UUID, companyIDs []string) error {
	list, err := s.ownedList(ctx, tenant, listID)
	if err != nil {
		return err
	}
	if !list.IsStatic() {
		return ValidationError{Message: "members can only be managed on static lists"}
	}
	ids, err := parseUUIDs(companyIDs)
	if err != nil {
		return err
	}
	return s.lists.RemoveMembers(ctx, listID, ids)
}

func (s *ListsService) requireCustomer(ctx context.Context, tenant TenantContext) (uuid.UUID, error) {
	if tenant.UserID == uuid.Nil {
		return uuid.Nil, ErrUnauthenticated
	}
	if tenant.CustomerID != nil {
		return *tenant.CustomerID, nil
	}
	user, err := s.users.FindByID(ctx, tenant.UserID)
	if err != nil {
		return uuid.Nil, ErrUnauthenticated
	}
	if user.CustomerID == nil {
		return uuid.Nil, ErrTenantContextRequired
	}
	return *user.CustomerID, nil
}

func (s *ListsService) ownedList(ctx context.Context, tenant TenantContext, listID uuid.UUID) (*entity.List, error) {
	customerID, err := s.requireCustomer(ctx, tenant)
	if err != nil {
		return nil, err
	}
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.CustomerID != customerID {
		return nil, repository.ErrListNotFound
	}
	return list, nil
}

// sanitizeFilterBlob checks that a stored filter blob is syntactically valid
// and decodes as a company filter. The blob's shape stays caller-controlled;
// only decodability is enforced here.
func sanitizeFilterBlob(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var rawFilter dto.RawCompanyFilter
	if err := json.Unmarshal(raw, &rawFilter); err != nil {
		return nil, ValidationError{Message: "invalid filter payload"}
	}
	return raw, nil
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, ValidationError{Message: "invalid company id"}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func toListResponse(list *entity.List) dto.ListResponse {
	return dto.ListResponse{
		ID:        list.ID.String(),
		Name:      list.Name,
		Type:      list.Type,
		Filters:   list.Filters,
		CreatedAt: list.CreatedAt.Format(time.RFC3339),
	}
}
