package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)
	req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	rec := httptest.NewRecorder()

	adapter.WriteErrorResponse(rec, req, ValidationError("invalid contact request").WithContext("field", "senderEmail").Build())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "invalid contact request", body.Error)
	assert.Equal(t, "validation", body.Code)
	assert.Equal(t, "senderEmail", body.Details["field"])
}

func TestHTTPErrorAdapter_StatusCodeFor(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)
	assert.Equal(t, http.StatusOK, adapter.StatusCodeFor(nil))
	assert.Equal(t, http.StatusNotFound, adapter.StatusCodeFor(NotFoundError("no such category").Build()))
	assert.Equal(t, http.StatusBadGateway, adapter.StatusCodeFor(NetworkError("relay failed").Build()))
	assert.Equal(t, http.StatusInternalServerError, adapter.StatusCodeFor(assert.AnError))
}

func TestHTTPErrorAdapter_DetailsOnlyForValidation(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)

	resp := adapter.FormatErrorResponse(ValidationError("bad input").WithContext("field", "subject").Build())
	assert.Equal(t, "subject", resp.Details["field"])

	for _, err := range []error{
		FileSystemError("read content document").WithContext("path", "/srv/site/content/projects.json").Build(),
		NetworkError("relay failed").WithContext("host", "smtp.internal").Build(),
		ContentError("malformed content document").WithContext("document", "blog").Build(),
	} {
		resp := adapter.FormatErrorResponse(err)
		assert.Nil(t, resp.Details, err.Error())
		assert.NotEmpty(t, resp.Code)
	}

	rec := httptest.NewRecorder()
	adapter.WriteErrorResponse(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil),
		FileSystemError("read content document").WithContext("path", "/srv/secret").Build())
	assert.NotContains(t, rec.Body.String(), "/srv/secret")
	assert.NotContains(t, rec.Body.String(), "details")
}
