package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordValidator_ValidateLogin(t *testing.T) {
	v := NewPasswordValidator()

	tests := []struct {
		name    string
		login   string
		wantErr bool
	}{
		{"valid", "operator1", false},
		{"valid with dot", "op.erator", false},
		{"valid with dash", "op-erator", false},
		{"too short", "ab", true},
		{"too long", "a123456789012345678901234567890123", true},
		{"with space", "op erator", true},
		{"with slash", "op/erator", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateLogin(tt.login)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPasswordValidator_ValidatePassword(t *testing.T) {
	v := NewPasswordValidator()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Oper4tor-pass", false},
		{"too short", "Op4pass", true},
		{"no digit", "Operator-pass", true},
		{"no upper", "oper4tor-pass", true},
		{"no lower", "OPER4TOR-PASS", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
