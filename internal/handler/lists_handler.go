package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/1-to-100/baseplate-v3-sub003/internal/dto"
	"github.com/1-to-100/baseplate-v3-sub003/internal/service"
)

// ListsHandler exposes static and dynamic list management endpoints.
type ListsHandler struct {
	service *service.ListsService
}

// NewListsHandler creates a new handler instance.
func NewListsHandler(service *service.ListsService) *ListsHandler {
	return &ListsHandler{service: service}
}

// List handles GET /lists requests.
func (h *ListsHandler) List(c echo.Context) error {
	tenant, err := tenantFromContext(c)
	if err != nil {
		return tenantError(c, err)
	}

	lists, err := h.service.ListLists(c.Request().Context(), tenant)
	if err != nil {
		return serviceError(c, err)
	}

	return Success(c, http.StatusOK, "lists retrieved", lists)
}

// Create handles POST /lists requests.
func (h *ListsHandler) Create(c echo.Context) error {
	tenant, err := tenantFromContext(c)
	if err != nil {
		return tenantError(c, err)
	}

	var req dto.CreateListRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	list, err := h.service.CreateList(c.Request().Context(), tenant, req)
	if err != nil {
		return serviceError(c, err)
	}

	return Success(c, http.StatusCreated, "list created", list)
}

// Update handles PATCH /lists/:id requests.
func (h *ListsHandler) Update(c echo.Context) error {
	tenant, err := tenantFromContext(c)
	if err != nil {
		return tenantError(c, err)
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid list id")
	}

	var req dto.UpdateListRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	list, err := h.service.UpdateList(c.Request().Context(), tenant, listID, req)
	if err != nil {
		return serviceError(c, err)
	}

	return Success(c, http.StatusOK, "list updated", list)
}

// Delete handles DELETE /lists/:id requests.
func (h *ListsHandler) Delete(c echo.Context) error {
	tenant, err := tenantFromContext(c)
	if err != nil {
		return tenantError(c, err)
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid list id")
	}

	if err := h.service.DeleteList(c.Request().Context(), tenant, listID); err != nil {
		return serviceError(c, err)
	}

	return Success(c, http.StatusOK, "list deleted", nil)
}

// AddMembers handles POST /lists/:id/members requests.
func (h *ListsHandler) AddMembers(c echo.Context) error {
	return h.mutateMembers(c, h.service.AddMembers, "members added")
}

// RemoveMembers handles DELETE /lists/:id/members requests.
func (h *ListsHandler) RemoveMembers(c echo.Context) error {
	return h.mutateMembers(c, h.service.RemoveMembers, "members removed")
}

func (h *ListsHandler) mutateMembers(c echo.Context, op func(ctx context.Context, tenant service.TenantContext, listID uuid.UUID, ids []string) error, message string) error {
	tenant, err := tenantFromContext(c)
	if err != nil {
		return tenantError(c, err)
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid list id")
	}

	var req dto.ListMembersRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := op(c.Request().Context(), tenant, listID, req.CompanyIDs); err != nil {
		return serviceError(c, err)
	}

	return Success(c, http.StatusOK, message, nil)
}
