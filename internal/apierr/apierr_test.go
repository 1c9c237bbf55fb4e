package apierr

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindAuthentication, http.StatusUnauthorized},
		{KindAuthorization, http.StatusUnauthorized},
		{KindConflict, http.StatusConflict},
		{KindNotFound, http.StatusNotFound},
		{KindInternal, http.StatusInternalServerError},
		{Kind("bogus"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.HTTPStatus(), "kind %s", tt.kind)
	}
}

func TestWriteAndDecodeRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, Conflict("email already registered"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	decoded := Decode(rec.Body)
	assert.Equal(t, KindConflict, decoded.Kind)
	assert.Equal(t, "email already registered", decoded.Message)
}

func TestDecodeUnknownBodyIsInternal(t *testing.T) {
	for _, body := range []string{"", "not json", `{"msg":"old shape"}`} {
		decoded := Decode(strings.NewReader(body))
		assert.Equal(t, KindInternal, decoded.Kind, "body %q", body)
	}
}

func TestFromValidationSortsFields(t *testing.T) {
	verrs := validation.Errors{
		"password": errors.New("cannot be blank"),
		"email":    errors.New("must be a valid email address"),
	}

	e := FromValidation(verrs)
	require.Equal(t, KindValidation, e.Kind)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, "email", e.Fields[0].Field)
	assert.Equal(t, "password", e.Fields[1].Field)
}

func TestFromValidationNonValidationError(t *testing.T) {
	e := FromValidation(assert.AnError)
	assert.Equal(t, KindInternal, e.Kind)
}
