package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/1-to-100/baseplate-v3-sub003/internal/entity"
	"github.com/1-to-100/baseplate-v3-sub003/internal/repository"
)

// TenantContext is the already-resolved caller identity handed to company
// resolution. CustomerID is an explicit per-request override (tenant switch);
// when nil, the caller's own customer is looked up as the fallback.
type TenantContext struct {
	UserID     uuid.UUID
	Role       string
	CustomerID *uuid.UUID
}

// IsAdmin reports whether the caller is a platform administrator.
func (t TenantContext) IsAdmin() bool {
	return t.Role == entity.RoleAdmin
}

// effectiveCustomer resolves the customer scope for a request. The explicit
// override wins over the default lookup. A nil result with a nil error means
// the caller is an admin browsing the global catalogue.
func (s *CompaniesService) effectiveCustomer(ctx context.Context, tenant TenantContext) (*uuid.UUID, error) {
	if tenant.UserID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if tenant.CustomerID != nil {
		return tenant.CustomerID, nil
	}

	user, err := s.users.FindByID(ctx, tenant.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if user.CustomerID != nil {
		return user.CustomerID, nil
	}
	if tenant.IsAdmin() {
		return nil, nil
	}
	return nil, ErrTenantContextRequired
}
