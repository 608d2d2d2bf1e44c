package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errGone = errors.New("gone")

func serve(t *testing.T, r *Responder, err error) (int, map[string]string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	r.RespondError(c, err)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestRespondError(t *testing.T) {
	r := NewResponder(nil, Match(errGone, http.StatusGone, "THING_GONE"))

	status, body := serve(t, r, fmt.Errorf("lookup: %w", errGone))
	assert.Equal(t, http.StatusGone, status)
	assert.Equal(t, "THING_GONE", body["code"])
	assert.Equal(t, "lookup: gone", body["error"])

	status, body = serve(t, r, Validation(errors.New("otpCode is required")))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, CodeValidation, body["code"])

	status, body = serve(t, r, errors.New("db exploded"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, CodeInternal, body["code"])
	assert.NotContains(t, body["error"], "db exploded")
}

func TestStatusFromError(t *testing.T) {
	r := NewResponder(nil)
	r.AddMapper(Match(errGone, http.StatusGone, "THING_GONE"))
	assert.Equal(t, http.StatusGone, r.StatusFromError(errGone))
	assert.Equal(t, http.StatusInternalServerError, r.StatusFromError(errors.New("x")))
}
