package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/pinforge-backend/internal/http/response"
	"github.com/yungbote/pinforge-backend/internal/platform/ctxutil"
	"github.com/yungbote/pinforge-backend/internal/services"
)

type UsageHandler struct {
	usage services.UsageService
}

func NewUsageHandler(usage services.UsageService) *UsageHandler {
	return &UsageHandler{usage: usage}
}

// GET /api/usage
func (h *UsageHandler) GetUsage(c *gin.Context) {
	view, err := h.usage.Summary(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, view)
}
