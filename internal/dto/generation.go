package dto

// Generation job kinds accepted by the content-generation worker.
const (
	GenerationKindStrategy          = "strategy"
	GenerationKindPersona           = "persona"
	GenerationKindSegmentSuggestion = "segment_suggestion"
	GenerationKindStyleGuide        = "style_guide"
)

// GenerationRequest is the payload forwarded to the content-generation
// worker. The worker owns prompt construction; this API only validates the
// shape and attaches tenant context.
type GenerationRequest struct {
	Kind      string         `json:"kind" validate:"required,oneof=strategy persona segment_suggestion style_guide"`
	CompanyID string         `json:"company_id,omitempty" validate:"omitempty,uuid"`
	SegmentID string         `json:"segment_id,omitempty" validate:"omitempty,uuid"`
	Brief     string         `json:"brief,omitempty" validate:"omitempty,max=4000"`
	Options   map[string]any `json:"options,omitempty"`
}

// GenerationResponse echoes the queued job reference returned by the worker.
type GenerationResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}
