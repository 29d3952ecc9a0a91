package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	plain := "messi10pass"

	hash, err := HashPassword(plain)
	require.NoError(t, err)

	require.True(t, ComparePasswords(hash, plain))
	require.False(t, ComparePasswords(hash, "wrong-password"))
}

func TestValidateUserFields(t *testing.T) {
	valid := NewUser{
		FirstName:     "Lionel",
		LastName:      "Messi",
		Email:         "leo@example.com",
		PasswordPlain: "password10",
	}

	tests := []struct {
		name        string
		mutate      func(u *NewUser)
		expectedMsg string
	}{
		{
			name:   "valid user",
			mutate: func(u *NewUser) {},
		},
		{
			name:        "missing field",
			mutate:      func(u *NewUser) { u.Email = "" },
			expectedMsg: "Please provide all required fields",
		},
		{
			name:        "bad email",
			mutate:      func(u *NewUser) { u.Email = "not-an-email" },
			expectedMsg: "Invalid email format",
		},
		{
			name:        "short password",
			mutate:      func(u *NewUser) { u.PasswordPlain = "short1" },
			expectedMsg: "Password must be at least 8 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := valid
			tt.mutate(&user)

			err := user.ValidateUserFields()
			if tt.expectedMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.expectedMsg)
		})
	}
}
