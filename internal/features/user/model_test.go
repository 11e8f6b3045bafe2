package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{
			name: "first and last",
			user: User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
			want: "Ada Lovelace (ada@example.com)",
		},
		{
			name: "first only",
			user: User{FirstName: "Ada", Email: "ada@example.com"},
			want: "Ada (ada@example.com)",
		},
		{
			name: "last only",
			user: User{LastName: "Lovelace", Email: "ada@example.com"},
			want: "Lovelace (ada@example.com)",
		},
		{
			name: "email fallback",
			user: User{Email: "ada@example.com"},
			want: "ada@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.DisplayName())
		})
	}
}
