package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/minelab/sampletrack_backend/utils"
)

func recordError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	respondError(c, err)
	return recorder
}

func TestRespondError_Buckets(t *testing.T) {
	if got := recordError(t, utils.ErrorRecordNotFound); got.Code != http.StatusNotFound {
		t.Fatalf("not-found status = %d, want 404", got.Code)
	}
	if got := recordError(t, utils.NewValidationError("batch has active samples")); got.Code != http.StatusBadRequest {
		t.Fatalf("rule violation status = %d, want 400", got.Code)
	}
}

func TestRespondError_SurfacesUnexpectedErrorText(t *testing.T) {
	got := recordError(t, errors.New("disk I/O error"))
	if got.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", got.Code)
	}
	if !strings.Contains(got.Body.String(), "disk I/O error") {
		t.Fatalf("body %q does not surface the error text", got.Body.String())
	}
}
