package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegistration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		username     string
		email        string
		password     string
		confirmation string
		wantErr      error
		wantAnyErr   bool
	}{
		{"Valid", "alice", "alice@example.com", "password1", "password1", nil, false},
		{"Missing username", "", "a@example.com", "password1", "password1", ErrMissingFields, true},
		{"Blank email", "alice", "   ", "password1", "password1", ErrMissingFields, true},
		{"Missing confirmation", "alice", "a@example.com", "password1", "", ErrPasswordsMismatch, true},
		{"Missing password and confirmation", "alice", "a@example.com", "", "", ErrMissingFields, true},
		{"Mismatch", "alice", "a@example.com", "password1", "password2", ErrPasswordsMismatch, true},
		{"Mismatch before missing fields", "", "", "", "x", ErrPasswordsMismatch, true},
		{"Bad username", "a", "a@example.com", "password1", "password1", nil, true},
		{"Bad email", "alice", "nope", "password1", "password1", nil, true},
		{"Short password", "alice", "a@example.com", "short", "short", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.username, tt.email, tt.password, tt.confirmation)
			if !tt.wantAnyErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "SecurePass12!@", false},
		{"Exactly Min Length", "abcdefgh", false},
		{"Exactly Max Length", strings.Repeat("b", 128), false},
		{"Too Short", "Small1!", true},
		{"Too Long", strings.Repeat("b", 129), true},
		{"Unicode Characters", "Ångström", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "test_user123", false},
		{"Too Short", "tu", true},
		{"Too Long", strings.Repeat("a", 31), true},
		{"Illegal Chars", "user@123", true},
		{"Starts Dash", "-user", true},
		{"Ends Underscore", "user_", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	emailAt254 := strings.Repeat("a", 64) + "@" + strings.Repeat("b", 185) + ".com"
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "test@example.com", false},
		{"Exactly 254 Characters", emailAt254, false},
		{"Too Long", "a" + emailAt254, true},
		{"Invalid Format", "not-an-email", true},
		{"Missing Domain", "user@", true},
		{"Multiple At Symbols", "user@@example.com", true},
		{"Space In Local Part", "user @example.com", true},
		{"Trailing Dot In Domain", "user@example.com.", true},
		{"Display Name Form", "Alice <alice@example.com>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
