package validation_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calliko/statuspage-backend/internal/adapters/primary/validation"
)

func TestValidator(t *testing.T) {
	t.Run("clean input produces no errors", func(t *testing.T) {
		v := validation.NewValidator()
		v.Required("name", "Acme").
			Email("email", "jane@example.com").
			Slug("slug", "acme-corp").
			OneOf("role", "admin", []string{"admin", "member"})

		assert.False(t, v.HasErrors())
	})

	t.Run("collects errors across fields", func(t *testing.T) {
		v := validation.NewValidator()
		v.Required("name", "   ").
			Email("email", "not-an-email").
			Slug("slug", "Not A Slug").
			OneOf("role", "superuser", []string{"admin", "member"}).
			MinLength("password", "abc", 8).
			MaxLength("title", strings.Repeat("x", 300), 255)

		require.True(t, v.HasErrors())
		assert.Len(t, v.Errors().Errors, 6)
	})

	t.Run("empty optional values pass format checks", func(t *testing.T) {
		v := validation.NewValidator()
		v.Email("email", "").
			Slug("slug", "").
			OneOf("role", "", []string{"admin", "member"})

		assert.False(t, v.HasErrors())
	})
}

func TestDecodeAndValidate(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("decodes a valid body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Acme"}`))
		got, err := validation.DecodeAndValidate[payload](r)
		require.NoError(t, err)
		assert.Equal(t, "Acme", got.Name)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))
		_, err := validation.DecodeAndValidate[payload](r)
		assert.Error(t, err)
	})
}
