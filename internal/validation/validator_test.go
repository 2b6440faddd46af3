package validation

import (
	"testing"

	domainerrors "github.com/keepsakeapp/keepsake-server/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name,omitempty" validate:"max=64"`
}

func TestValidatePasses(t *testing.T) {
	v := New()
	err := v.Validate(registerInput{
		Email:    "kim@example.com",
		Password: "longenough",
	})
	assert.NoError(t, err)
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	v := New()
	err := v.Validate(registerInput{Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
	assert.Equal(t, "must be at least 8 characters", details["password"])

	// Tag options like omitempty are stripped from the reported name.
	err = v.Validate(registerInput{
		Email:    "kim@example.com",
		Password: "longenough",
		Name:     string(make([]byte, 65)),
	})
	require.ErrorAs(t, err, &domainErr)
	details, ok = domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "name")
}
