package httpx

import (
	"testing"

	"bookmory/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerInput struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,password_strength"`
	Rating   *int   `json:"rating" validate:"omitempty,gte=1,lte=5"`
}

func TestValidateStruct_ValidInput(t *testing.T) {
	rating := 4
	err := ValidateStruct(registerInput{
		Email:    "test@example.com",
		Username: "testuser",
		Password: "Test123!@#",
		Rating:   &rating,
	})
	assert.NoError(t, err)
}

func TestValidateStruct_ReportsJSONFieldNames(t *testing.T) {
	rating := 9
	err := ValidateStruct(registerInput{Email: "invalid-email", Password: "weak", Rating: &rating})
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)

	fields := map[string]string{}
	for _, f := range appErr.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "email must be a valid email address", fields["email"])
	assert.Equal(t, "username is required", fields["username"])
	assert.Contains(t, fields["password"], "uppercase")
	assert.Equal(t, "rating must be less than or equal to 5", fields["rating"])
}
