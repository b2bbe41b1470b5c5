package domain

import (
	"github.com/yungbote/pinforge-backend/internal/domain/pins"
)

type Pin = pins.Pin
type PinStatus = pins.PinStatus
type PinView = pins.PinView
type ContentAnalysis = pins.ContentAnalysis
type Profile = pins.Profile
type GenerationRequest = pins.GenerationRequest
type GenerationResult = pins.GenerationResult
type NicheSpecialization = pins.NicheSpecialization
type TextVariation = pins.TextVariation
type SourceKind = pins.SourceKind

const (
	PinStatusPending   = pins.PinStatusPending
	PinStatusCompleted = pins.PinStatusCompleted
	PinStatusFailed    = pins.PinStatusFailed

	SourceURL        = pins.SourceURL
	SourceCustomText = pins.SourceCustomText

	MaxTitleRunes       = pins.MaxTitleRunes
	MaxDescriptionRunes = pins.MaxDescriptionRunes
	VariationCount      = pins.VariationCount
)

var (
	ErrValidation           = pins.ErrValidation
	ErrEntitlementDenied    = pins.ErrEntitlementDenied
	ErrFetch                = pins.ErrFetch
	ErrGenerationFailed     = pins.ErrGenerationFailed
	ErrRender               = pins.ErrRender
	ErrStorage              = pins.ErrStorage
	ErrGenerationInProgress = pins.ErrGenerationInProgress
	ErrNotFound             = pins.ErrNotFound
)
