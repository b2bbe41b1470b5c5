package pins

import (
	"github.com/google/uuid"
)

type SourceKind string

const (
	SourceURL        SourceKind = "url"
	SourceCustomText SourceKind = "custom_text"
)

// NicheSpecialization carries optional caller-supplied prompt fragments.
type NicheSpecialization struct {
	NicheID           string `json:"niche_id,omitempty"`
	SpecializedPrompt string `json:"specialized_prompt,omitempty"`
	ImageStylePrompt  string `json:"image_style_prompt,omitempty"`
}

type GenerationRequest struct {
	UserID        uuid.UUID
	SourceKind    SourceKind
	SourceValue   string
	TemplateStyle string
	Niche         *NicheSpecialization
}

const (
	MaxTitleRunes       = 100
	MaxDescriptionRunes = 400
	VariationCount      = 3
)

type TextVariation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// PinView is a pin as returned to the caller. Saved is false when rendering succeeded but the
// database insert did not.
type PinView struct {
	Pin
	Saved bool `json:"saved"`
}

type GenerationResult struct {
	Pins            []PinView        `json:"pins"`
	ContentAnalysis *ContentAnalysis `json:"content_analysis"`
	SuccessCount    int              `json:"success_count"`
	RequestedCount  int              `json:"requested_count"`
}
