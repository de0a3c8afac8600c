package render

import (
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the terminal form
type TUITheme struct {
	Name        string
	Description string

	Border lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// Built-in TUI themes
var (
	// TokyoNightTheme is the default dark theme
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - dark with blue accents",
		Border:      lipgloss.Color("#414868"),
		Primary:     lipgloss.Color("#7aa2f7"),
		Secondary:   lipgloss.Color("#7dcfff"),
		Accent:      lipgloss.Color("#bb9af7"),
		Success:     lipgloss.Color("#9ece6a"),
		Error:       lipgloss.Color("#f7768e"),
		Text:        lipgloss.Color("#c0caf5"),
		TextDim:     lipgloss.Color("#565f89"),
		TextMute:    lipgloss.Color("#3b4261"),
	}

	// NordTheme is based on the Nord palette
	NordTheme = TUITheme{
		Name:        "nord",
		Description: "Nord - arctic, cool tones",
		Border:      lipgloss.Color("#4c566a"),
		Primary:     lipgloss.Color("#88c0d0"),
		Secondary:   lipgloss.Color("#81a1c1"),
		Accent:      lipgloss.Color("#b48ead"),
		Success:     lipgloss.Color("#a3be8c"),
		Error:       lipgloss.Color("#bf616a"),
		Text:        lipgloss.Color("#eceff4"),
		TextDim:     lipgloss.Color("#7b88a1"),
		TextMute:    lipgloss.Color("#4c566a"),
	}

	// LightTheme suits bright terminal backgrounds
	LightTheme = TUITheme{
		Name:        "light",
		Description: "Light - for bright terminals",
		Border:      lipgloss.Color("#a8aecb"),
		Primary:     lipgloss.Color("#2e7de9"),
		Secondary:   lipgloss.Color("#007197"),
		Accent:      lipgloss.Color("#9854f1"),
		Success:     lipgloss.Color("#587539"),
		Error:       lipgloss.Color("#c64343"),
		Text:        lipgloss.Color("#3760bf"),
		TextDim:     lipgloss.Color("#6172b0"),
		TextMute:    lipgloss.Color("#a1a6c5"),
	}
)

var tuiThemes = map[string]TUITheme{
	TokyoNightTheme.Name: TokyoNightTheme,
	NordTheme.Name:       NordTheme,
	LightTheme.Name:      LightTheme,
}

var (
	themeMu         sync.RWMutex
	currentTUITheme = TokyoNightTheme
)

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme sets the active TUI theme by name. Unknown names leave the
// current theme in place and return false.
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	themeMu.Lock()
	currentTUITheme = theme
	themeMu.Unlock()
	return true
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	theme, ok := tuiThemes[name]
	return theme, ok
}

// TUIThemeNames returns the sorted names of the built-in themes
func TUIThemeNames() []string {
	names := make([]string, 0, len(tuiThemes))
	for name := range tuiThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
