package ui

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestGradientColors(t *testing.T) {
	assert.Len(t, GradientColors, 4)
	for i, color := range GradientColors {
		assert.NotEmpty(t, string(color), "gradient color %d should not be empty", i)
	}
}

func TestStylesAreFunctional(t *testing.T) {
	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Success", SuccessStyle()},
		{"Error", ErrorStyle()},
		{"Warning", WarningStyle()},
		{"Muted", MutedStyle()},
	}

	for _, tt := range styles {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.style.Render("test text"), "test text")
		})
	}
}

func TestConfigureColors_NonTerminalIsPlain(t *testing.T) {
	defer lipgloss.SetColorProfile(lipgloss.ColorProfile())

	t.Setenv("CLICOLOR_FORCE", "")
	var buf bytes.Buffer
	ConfigureColors(&buf)

	assert.Equal(t, termenv.Ascii, lipgloss.ColorProfile())
	assert.Equal(t, "ok", SuccessStyle().Render("ok"))
}
