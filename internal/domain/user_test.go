package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestSignupRequest_Validate(t *testing.T) {
	r := SignupRequest{Name: " Ada ", Email: " Ada@Example.COM ", Password: "correct-horse"}
	require.NoError(t, r.Validate())
	assert.Equal(t, "Ada", r.Name)
	assert.Equal(t, "ada@example.com", r.Email)

	tests := []struct {
		name string
		req  SignupRequest
	}{
		{"missing name", SignupRequest{Email: "a@b.co", Password: "12345678"}},
		{"bad email", SignupRequest{Name: "a", Email: "not-an-email", Password: "12345678"}},
		{"display name email", SignupRequest{Name: "a", Email: "Ada <a@b.co>", Password: "12345678"}},
		{"short password", SignupRequest{Name: "a", Email: "a@b.co", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ve *ValidationError
			assert.ErrorAs(t, tt.req.Validate(), &ve)
		})
	}
}

func TestUpdateProfileRequest_EmptyNameRejected(t *testing.T) {
	u := &User{Name: "Ada", Email: "ada@example.com"}
	r := UpdateProfileRequest{Name: strPtr("")}

	_, err := r.ApplyProfile(u)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestUpdateProfileRequest_PasswordReturnedForHashing(t *testing.T) {
	u := &User{Name: "Ada", Email: "ada@example.com"}
	r := UpdateProfileRequest{Password: strPtr("new-password-1")}

	pw, err := r.ApplyProfile(u)
	require.NoError(t, err)
	assert.Equal(t, "new-password-1", pw)
	assert.Equal(t, "Ada", u.Name)
}

func TestUpdateUserRequest_AdminFlag(t *testing.T) {
	u := &User{Name: "Ada", Email: "ada@example.com"}
	yes := true
	r := UpdateUserRequest{IsAdmin: &yes}

	require.NoError(t, r.Apply(u))
	assert.True(t, u.IsAdmin)
}
