package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	middlewarepkg "github.com/1-to-100/baseplate-v3-sub003/internal/middleware"
	"github.com/1-to-100/baseplate-v3-sub003/internal/repository"
	"github.com/1-to-100/baseplate-v3-sub003/internal/service"
)

// customerOverrideHeader lets administrators browse a specific customer's
// catalogue without re-authenticating.
const customerOverrideHeader = "X-Customer-Id"

var errCustomerOverrideForbidden = errors.New("customer override requires admin role")

// tenantFromContext assembles the caller identity stored by the JWT
// middleware, applying the admin customer override header when present.
func tenantFromContext(c echo.Context) (service.TenantContext, error) {
	var tenant service.TenantContext

	if sub, ok := c.Get(middlewarepkg.ContextKeyUserID).(string); ok && sub != "" {
		parsed, err := uuid.Parse(sub)
		if err != nil {
			return tenant, errors.New("invalid user id in token")
		}
		tenant.UserID = parsed
	}
	if role, ok := c.Get(middlewarepkg.ContextKeyUserRole).(string); ok {
		tenant.Role = role
	}
	if claim, ok := c.Get(middlewarepkg.ContextKeyCustomerID).(string); ok && claim != "" {
		parsed, err := uuid.Parse(claim)
		if err != nil {
			return tenant, errors.New("invalid customer id in token")
		}
		tenant.CustomerID = &parsed
	}

	if override := strings.TrimSpace(c.Request().Header.Get(customerOverrideHeader)); override != "" {
		if !tenant.IsAdmin() {
			return tenant, errCustomerOverrideForbidden
		}
		parsed, err := uuid.Parse(override)
		if err != nil {
			return tenant, errors.New("invalid " + customerOverrideHeader + " header")
		}
		tenant.CustomerID = &parsed
	}

	return tenant, nil
}

// serviceError translates service and repository errors to HTTP responses.
func serviceError(c echo.Context, err error) error {
	var validationErr service.ValidationError
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return Error(c, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, service.ErrTenantContextRequired):
		return Error(c, http.StatusForbidden, "customer context required")
	case errors.Is(err, repository.ErrListNotFound):
		return Error(c, http.StatusNotFound, "list not found")
	case errors.Is(err, repository.ErrCompanyNotFound):
		return Error(c, http.StatusNotFound, "company not found")
	case errors.As(err, &validationErr):
		return Error(c, http.StatusBadRequest, validationErr.Error())
	default:
		return Error(c, http.StatusInternalServerError, "internal error")
	}
}
