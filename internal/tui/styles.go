// Package tui provides the terminal form for lgclient.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/lgclient/internal/errors"
	"github.com/diogo/lgclient/internal/render"
)

// Color variables (updated from theme)
var (
	colorBorder lipgloss.Color

	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorSuccess   lipgloss.Color
	colorError     lipgloss.Color

	colorText     lipgloss.Color
	colorTextDim  lipgloss.Color
	colorTextMute lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style

	formPanelStyle     lipgloss.Style
	fieldLabelStyle    lipgloss.Style
	fieldFocusedStyle  lipgloss.Style
	requiredMarkStyle  lipgloss.Style
	buttonStyle        lipgloss.Style
	buttonLoadingStyle lipgloss.Style

	responsePanelStyle lipgloss.Style
	responseTitleStyle lipgloss.Style
	errorPanelStyle    lipgloss.Style
	errorStyle         lipgloss.Style
	loadingStyle       lipgloss.Style
	feedbackStyle      lipgloss.Style

	statusBarStyle      lipgloss.Style
	statusKeyStyle      lipgloss.Style
	statusDescStyle     lipgloss.Style
	statusDisabledStyle lipgloss.Style
)

// Gradient colors for the animated spinner
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"),
	lipgloss.Color("#feca57"),
	lipgloss.Color("#48dbfb"),
	lipgloss.Color("#ff9ff3"),
	lipgloss.Color("#54a0ff"),
	lipgloss.Color("#5f27cd"),
	lipgloss.Color("#00d2d3"),
	lipgloss.Color("#1dd1a1"),
}

// GradientColors returns the spinner gradient, shared with the CLI spinner
func GradientColors() []lipgloss.Color {
	return gradientColors
}

func init() {
	UpdateTheme()
}

// ApplyTheme activates the named TUI theme. Unknown names keep the current
// theme and return false.
func ApplyTheme(name string) bool {
	if !render.SetTUITheme(name) {
		return false
	}
	UpdateTheme()
	return true
}

// UpdateTheme refreshes all styles based on the current TUI theme
func UpdateTheme() {
	theme := render.GetTUITheme()

	colorBorder = theme.Border
	colorPrimary = theme.Primary
	colorSecondary = theme.Secondary
	colorAccent = theme.Accent
	colorSuccess = theme.Success
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim
	colorTextMute = theme.TextMute

	rebuildStyles()
}

// rebuildStyles creates all lipgloss styles with current color values
func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	formPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	fieldLabelStyle = lipgloss.NewStyle().
		Foreground(colorText).
		PaddingLeft(2)

	fieldFocusedStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true).
		SetString("> ")

	requiredMarkStyle = lipgloss.NewStyle().
		Foreground(colorError)

	buttonStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Background(colorPrimary).
		Bold(true).
		Padding(0, 2)

	buttonLoadingStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Background(colorTextMute).
		Padding(0, 2)

	responsePanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorSuccess).
		Foreground(colorText).
		Padding(0, 1)

	responseTitleStyle = lipgloss.NewStyle().
		Foreground(colorSuccess).
		Bold(true)

	errorPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorError).
		Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	feedbackStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Italic(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		MarginTop(1)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	statusDisabledStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Strikethrough(true)
}

// FormatError returns a styled error message with additional context taken
// from the typed errors when available.
func FormatError(message string, cause error) string {
	if message == "" && cause == nil {
		return ""
	}
	if message == "" {
		message = errors.Message(cause)
	}

	errStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render("✗ " + message))

	if cause == nil {
		return sb.String()
	}

	if endpoint := errors.GetEndpoint(cause); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if body := errors.GetResponseBody(cause); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
		return sb.String()
	}

	switch {
	case errors.IsAuthError(cause):
		sb.WriteString(dimStyle.Render("\n  Hint: Check the API key; it is sent as the x-api-key header"))
	case errors.GetHTTPStatus(cause) == 404:
		sb.WriteString(dimStyle.Render("\n  Hint: Check the assistant ID and the endpoint URL"))
	case errors.IsNetworkError(cause):
		sb.WriteString(dimStyle.Render("\n  Hint: Check your internet connection and try again"))
	case errors.IsDecodeError(cause):
		sb.WriteString(dimStyle.Render("\n  Hint: The response was not valid UTF-8; run without --strict to substitute invalid bytes"))
	}

	return sb.String()
}
