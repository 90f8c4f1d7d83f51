package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ideahub/ideahub/pkg/sanitizer"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"User@Example.COM", "user@example.com"},
		{"  padded@example.com  ", "padded@example.com"},
		{"double..dots@example.com", "double.dots@example.com"},
		{".leading.trailing.@example.com", "leading.trailing@example.com"},
		{"not-an-email", "not-an-email"},
		{"TWO@AT@SIGNS", "two@at@signs"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizer.NormalizeEmail(tt.in))
		})
	}
}

func TestMaskEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "j*****e@example.com", sanitizer.MaskEmail("jsmithe@example.com"))
	assert.Equal(t, "**@example.com", sanitizer.MaskEmail("ab@example.com"))
	assert.Equal(t, "not-an-email", sanitizer.MaskEmail("not-an-email"))
}
