package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/pinforge-backend/internal/http/response"
	"github.com/yungbote/pinforge-backend/internal/modules/pins/styles"
)

type NicheHandler struct {
	catalog *styles.Catalog
}

func NewNicheHandler(catalog *styles.Catalog) *NicheHandler {
	if catalog == nil {
		catalog = styles.DefaultCatalog()
	}
	return &NicheHandler{catalog: catalog}
}

// GET /api/niches
func (h *NicheHandler) List(c *gin.Context) {
	response.RespondOK(c, gin.H{"niches": h.catalog.List(), "styles": styles.All()})
}
