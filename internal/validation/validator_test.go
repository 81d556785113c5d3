package validation

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-admin/internal/model"
)

func TestStruct_Valid(t *testing.T) {
	assert.Nil(t, Struct(model.LoginRequest{Email: "admin@clinic.com", Password: "password"}))
}

func TestStruct_FieldErrors(t *testing.T) {
	apiErr := Struct(model.LoginRequest{Email: "not-an-email", Password: "123"})
	require.NotNil(t, apiErr)

	assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
	assert.Equal(t, "Invalid email address", apiErr.Field("email"))
	assert.Equal(t, "Password must be at least 6 characters", apiErr.Field("password"))
}

func TestStruct_Required(t *testing.T) {
	apiErr := Struct(model.LoginRequest{})
	require.NotNil(t, apiErr)

	assert.Equal(t, "Email is required", apiErr.Field("email"))
	assert.Equal(t, "Password is required", apiErr.Field("password"))
}
