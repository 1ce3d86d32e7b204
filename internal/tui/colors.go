package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorGreen colors text green
func ColorGreen(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Render(text)
}

// ColorYellow colors text yellow
func ColorYellow(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("3")).
		Render(text)
}

// ColorCyan colors text cyan
func ColorCyan(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("6")).
		Render(text)
}

// ColorDim makes text dim/gray
func ColorDim(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Render(text)
}

// ColorBold makes text bold
func ColorBold(text string) string {
	return lipgloss.NewStyle().Bold(true).Render(text)
}

// DisableColor switches every style to plain ASCII output
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// ColorDisabledByEnv reports whether NO_COLOR is set
func ColorDisabledByEnv() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}
