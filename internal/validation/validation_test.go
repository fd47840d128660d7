package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@sub.domain.org",
		"with_underscore-and-dash@mail.co",
	}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@no-local-part.com",
		"no-domain@",
		"spaces in@example.com",
		"user@example",
	}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), email)
	}
}

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "marcus", NormalizeHandle("  Marcus  "))
	assert.Equal(t, "ada_l", NormalizeHandle("Ada_L"))
}

func TestValidateHandle(t *testing.T) {
	assert.NoError(t, ValidateHandle("marcus"))
	assert.NoError(t, ValidateHandle("ada_l0velace"))

	assert.Error(t, ValidateHandle(""))
	assert.Error(t, ValidateHandle("Uppercase"))
	assert.Error(t, ValidateHandle("with space"))
	assert.Error(t, ValidateHandle("dash-not-allowed"))
	assert.Error(t, ValidateHandle(strings.Repeat("a", MaxHandleLen+1)))
	assert.NoError(t, ValidateHandle(strings.Repeat("a", MaxHandleLen)))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("abc"))
	assert.NoError(t, ValidatePassword("abcd"))
	assert.NoError(t, ValidatePassword("correct horse battery staple"))
}

func TestValidateDisplayName(t *testing.T) {
	assert.Error(t, ValidateDisplayName(""))
	assert.Error(t, ValidateDisplayName("   "))
	assert.Error(t, ValidateDisplayName(strings.Repeat("x", MaxDisplayNameLen+1)))
	assert.NoError(t, ValidateDisplayName("Marcus A."))
}

func TestValidateDescription(t *testing.T) {
	assert.NoError(t, ValidateDescription(""))
	assert.NoError(t, ValidateDescription(strings.Repeat("d", MaxDescriptionLen)))
	assert.Error(t, ValidateDescription(strings.Repeat("d", MaxDescriptionLen+1)))
}
