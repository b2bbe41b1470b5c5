package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/pinforge-backend/internal/domain"
	"github.com/yungbote/pinforge-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

var domainMappings = []apierr.Mapping{
	{Target: types.ErrValidation, Status: http.StatusBadRequest, Code: "validation_error"},
	{Target: types.ErrEntitlementDenied, Status: http.StatusPaymentRequired, Code: "entitlement_denied"},
	{Target: types.ErrFetch, Status: http.StatusBadGateway, Code: "fetch_failed"},
	{Target: types.ErrGenerationFailed, Status: http.StatusBadGateway, Code: "generation_failed"},
	{Target: types.ErrGenerationInProgress, Status: http.StatusConflict, Code: "generation_in_progress"},
	{Target: types.ErrNotFound, Status: http.StatusNotFound, Code: "not_found"},
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondDomainError maps err onto the API error taxonomy. Upstream and internal failures are
// attached to the gin context for the request logger; only 4xx messages reach the client verbatim.
func RespondDomainError(c *gin.Context, err error) {
	ae := apierr.Classify(err, domainMappings...)
	if ae == nil {
		ae = apierr.New(http.StatusInternalServerError, "internal_error", nil)
	}
	msg := ae.Error()
	switch {
	case ae.Code == "fetch_failed":
		msg = "could not fetch the source url; retry or try a different url"
	case ae.Code == "generation_failed":
		msg = "no pins could be generated; please retry"
	case ae.Status >= http.StatusInternalServerError:
		msg = "internal error"
	}
	if ae.Status >= http.StatusInternalServerError && err != nil {
		_ = c.Error(err)
	}
	c.JSON(ae.Status, ErrorEnvelope{Error: APIError{Message: msg, Code: ae.Code}})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
