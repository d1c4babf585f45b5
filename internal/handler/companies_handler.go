package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/1-to-100/baseplate-v3-sub003/internal/dto"
	"github.com/1-to-100/baseplate-v3-sub003/internal/service"
)

// CompaniesHandler exposes catalogue resolution and company endpoints.
type CompaniesHandler struct {
	service *service.CompaniesService
}

// NewCompaniesHandler creates a new handler instance.
func NewCompaniesHandler(service *service.CompaniesService) *CompaniesHandler {
	return &CompaniesHandler{service: service}
}

// Search handles POST /companies/search requests. The body carries filter
// dimensions plus pagination; results are scoped to the caller's customer.
func (h *CompaniesHandler) Search(c echo.Context) error {
	tenant, err := tenantFromContext(c)
	if err != nil {
		return tenantError(c, err)
	}

	var req dto.SearchCompaniesRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	page, err := h.service.ResolveCompanies(c.Request().Context(), tenant, req.Filters, req.PageRequest)
	if err != nil {
		return serviceError(c, err)
	}

	return Success(c, http.StatusOK, "companies retrieved", page)
}

// Get handles GET /companies/:id requests.
func (h *CompaniesHandler) Get(c echo.Context) error {
	tenant, err := tenantFromContext(c)
	if err != nil {
		return tenantError(c, err)
	}

	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid company id")
	}

	item, err := h.service.GetCompany(c.Request().Context(), tenant, companyID)
	if err != nil {
		return serviceError(c, err)
	}

	return Success(c, http.StatusOK, "company retrieved", item)
}

// Update handles PATCH /companies/:id requests.
func (h *CompaniesHandler) Update(c echo.Context) error {
	tenant, err := tenantFromContext(c)
	if err != nil {
		return tenantError(c, err)
	}

	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid company id")
	}

	var req dto.UpdateCompanyRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.UpdateCompany(c.Request().Context(), tenant, companyID, req); err != nil {
		return serviceError(c, err)
	}

	return Success(c, http.StatusOK, "company updated", nil)
}

func tenantError(c echo.Context, err error) error {
	if errors.Is(err, errCustomerOverrideForbidden) {
		return Error(c, http.StatusForbidden, err.Error())
	}
	return Error(c, http.StatusBadRequest, err.Error())
}
