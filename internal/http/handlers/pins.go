package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/pinforge-backend/internal/domain"
	"github.com/yungbote/pinforge-backend/internal/http/response"
	"github.com/yungbote/pinforge-backend/internal/platform/ctxutil"
	"github.com/yungbote/pinforge-backend/internal/services"
)

type PinGenerator interface {
	Generate(ctx context.Context, req types.GenerationRequest) (*types.GenerationResult, error)
}

type PinHandler struct {
	generator PinGenerator
	pins      services.PinService
}

func NewPinHandler(generator PinGenerator, pins services.PinService) *PinHandler {
	return &PinHandler{generator: generator, pins: pins}
}

type generateRequest struct {
	URL               string `json:"url"`
	CustomContent     string `json:"customContent"`
	TemplateStyle     string `json:"templateStyle"`
	NicheID           string `json:"nicheId"`
	SpecializedPrompt string `json:"specializedPrompt"`
	ImageStylePrompt  string `json:"imageStylePrompt"`
}

// toDomain prefers the URL when both sources are given.
func (r generateRequest) toDomain(userID uuid.UUID) (types.GenerationRequest, error) {
	out := types.GenerationRequest{UserID: userID, TemplateStyle: strings.TrimSpace(r.TemplateStyle)}
	switch {
	case strings.TrimSpace(r.URL) != "":
		out.SourceKind, out.SourceValue = types.SourceURL, strings.TrimSpace(r.URL)
	case strings.TrimSpace(r.CustomContent) != "":
		out.SourceKind, out.SourceValue = types.SourceCustomText, r.CustomContent
	default:
		return out, errors.New("either url or customContent is required")
	}
	if r.NicheID != "" || r.SpecializedPrompt != "" || r.ImageStylePrompt != "" {
		out.Niche = &types.NicheSpecialization{
			NicheID:           strings.TrimSpace(r.NicheID),
			SpecializedPrompt: strings.TrimSpace(r.SpecializedPrompt),
			ImageStylePrompt:  strings.TrimSpace(r.ImageStylePrompt),
		}
	}
	return out, nil
}

// POST /api/pins/generate
func (h *PinHandler) Generate(c *gin.Context) {
	var body generateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	req, err := body.toDomain(ctxutil.UserID(c.Request.Context()))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	res, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/pins
func (h *PinHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	items, total, err := h.pins.List(c.Request.Context(), ctxutil.UserID(c.Request.Context()), limit, offset)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	if items == nil {
		items = []*types.Pin{}
	}
	response.RespondOK(c, gin.H{"pins": items, "total": total})
}

// GET /api/pins/:id
func (h *PinHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_pin_id", err)
		return
	}
	pin, err := h.pins.Get(c.Request.Context(), ctxutil.UserID(c.Request.Context()), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"pin": pin})
}

// DELETE /api/pins/:id
func (h *PinHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_pin_id", err)
		return
	}
	if err := h.pins.Delete(c.Request.Context(), ctxutil.UserID(c.Request.Context()), id); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
