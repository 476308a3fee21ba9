package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"jane@acme.io", true},
		{"jane.doe+crm@mail.acme.com.br", true},
		{"a@b", false},
		{"jane@localhost", false},
		{"jane@acme.", false},
		{"jane@.acme.io", false},
		{"jane@acme..io", false},
		{"Jane <jane@acme.io>", false},
		{"not-an-email", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			var v validator
			v.email(tt.email)
			assert.Equal(t, tt.valid, len(v.errs) == 0, v.errs)
		})
	}
}
