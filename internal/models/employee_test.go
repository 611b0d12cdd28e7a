package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Ann@Example.COM", "ann@example.com"},
		{"trims whitespace", "  ann@example.com ", "ann@example.com"},
		{"already normal", "ann@example.com", "ann@example.com"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeEmail(tc.input))
		})
	}
}
