package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/pinforge-backend/internal/domain"
)

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondDomainError(c, err)
	return rec, c
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v (%s)", err, rec.Body.String())
	}
	return env.Error
}

func TestRespondDomainErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: url is required", types.ErrValidation), http.StatusBadRequest, "validation_error"},
		{types.ErrEntitlementDenied, http.StatusPaymentRequired, "entitlement_denied"},
		{fmt.Errorf("%w: status 503", types.ErrFetch), http.StatusBadGateway, "fetch_failed"},
		{fmt.Errorf("%w: 0 of 3", types.ErrGenerationFailed), http.StatusBadGateway, "generation_failed"},
		{types.ErrGenerationInProgress, http.StatusConflict, "generation_in_progress"},
		{fmt.Errorf("pin: %w", types.ErrNotFound), http.StatusNotFound, "not_found"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		rec, _ := respond(t, tc.err)
		got := decode(t, rec)
		if rec.Code != tc.status || got.Code != tc.code {
			t.Fatalf("%v: want %d/%s got %d/%s", tc.err, tc.status, tc.code, rec.Code, got.Code)
		}
	}
}

func TestRespondDomainErrorMasksInternal(t *testing.T) {
	rec, c := respond(t, errors.New("pq: connection refused to 10.0.0.4"))
	got := decode(t, rec)
	if got.Message != "internal error" || strings.Contains(rec.Body.String(), "10.0.0.4") {
		t.Fatalf("internal cause leaked: %s", rec.Body.String())
	}
	if len(c.Errors) != 1 {
		t.Fatalf("want cause attached to context, got %d errors", len(c.Errors))
	}
}

func TestRespondDomainErrorFetchMessage(t *testing.T) {
	rec, c := respond(t, fmt.Errorf("%w: dial tcp: timeout", types.ErrFetch))
	got := decode(t, rec)
	if !strings.Contains(got.Message, "different url") {
		t.Fatalf("fetch message: %q", got.Message)
	}
	if len(c.Errors) != 1 {
		t.Fatalf("want fetch cause attached to context")
	}
}
