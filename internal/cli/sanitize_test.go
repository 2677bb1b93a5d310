package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput_SizeLimit(t *testing.T) {
	_, err := SanitizeInput(strings.Repeat("a", DefaultMaxInputSize))
	assert.NoError(t, err)

	_, err = SanitizeInput(strings.Repeat("a", DefaultMaxInputSize+1))
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

func TestSanitizeInput_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "Hello World", "Hello World"},
		{"Safe Controls", "Line1\nLine2\tTabbed\r", "Line1\nLine2\tTabbed\r"},
		{"ANSI Code", "\x1b[31mRed\x1b[0m", "[31mRed[0m"},
		{"Null Byte", "Null\x00Byte", "NullByte"},
		{"Bell", "Ding\x07", "Ding"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizeInput_InvalidUTF8(t *testing.T) {
	_, err := SanitizeInput("bad\xff")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestSanitizeInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")

	_, err := SanitizeInput("12345678901")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	_, err = SanitizeInput("12345")
	assert.NoError(t, err)
}
