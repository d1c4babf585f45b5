package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/1-to-100/baseplate-v3-sub003/internal/dto"
	middlewarepkg "github.com/1-to-100/baseplate-v3-sub003/internal/middleware"
)

// GenerationHandler forwards content generation jobs to the generation service.
type GenerationHandler struct {
	generation GenerationEnqueuer
}

// NewGenerationHandler constructs a handler backed by an HTTP client.
// If `client == nil`, it automatically creates an ID-token client for Cloud Run → Cloud Run calls.
func NewGenerationHandler(client *http.Client, baseURL string) *GenerationHandler {
	return &GenerationHandler{generation: NewGenerationClient(client, baseURL)}
}

// NewGenerationHandlerWithEnqueuer allows injecting a custom client (useful for tests).
func NewGenerationHandlerWithEnqueuer(generation GenerationEnqueuer) *GenerationHandler {
	return &GenerationHandler{generation: generation}
}

// Enqueue handles POST /generate requests and forwards them downstream.
func (h *GenerationHandler) Enqueue(c echo.Context) error {
	tenant, err := tenantFromContext(c)
	if err != nil {
		return tenantError(c, err)
	}

	var req dto.GenerationRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	payload := map[string]any{
		"kind": req.Kind,
	}
	if req.CompanyID != "" {
		payload["company_id"] = req.CompanyID
	}
	if req.SegmentID != "" {
		payload["segment_id"] = req.SegmentID
	}
	if req.Brief != "" {
		payload["brief"] = req.Brief
	}
	if len(req.Options) > 0 {
		payload["options"] = req.Options
	}
	if tenant.CustomerID != nil {
		payload["customer_id"] = tenant.CustomerID.String()
	}

	ctx := c.Request().Context()
	data, err := h.generation.Enqueue(ctx, payload, middlewarepkg.RequestIDFromContext(c))
	if err != nil {
		return Error(c, http.StatusBadGateway, err.Error())
	}
	if data == nil {
		data = map[string]any{"status": "queued"}
	}
	return Success(c, http.StatusOK, "generation job queued", data)
}
