package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"Str0ng!Pass", nil},
		{"Dune#1965", nil},
		{"Arrakis_42x", nil},
		{"Sh0rt!", ErrPasswordTooShort},
		{"", ErrPasswordTooShort},
		{"lowercase1!", ErrPasswordNoUpper},
		{"UPPERCASE1!", ErrPasswordNoLower},
		{"NoDigits!!", ErrPasswordNoNumber},
		{"NoSpecial12", ErrPasswordNoSpecialChar},
		// checks run in order, so the first failing rule wins
		{"abc", ErrPasswordTooShort},
		{"alllowercase", ErrPasswordNoUpper},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePasswordStrength(tt.password))
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Str0ng!Pass")
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ng!Pass", hash)

	assert.True(t, VerifyPassword(hash, "Str0ng!Pass"))
	assert.False(t, VerifyPassword(hash, "Wr0ng!Pass"))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "Str0ng!Pass"))
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("Str0ng!Pass")
	require.NoError(t, err)
	b, err := HashPassword("Str0ng!Pass")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
