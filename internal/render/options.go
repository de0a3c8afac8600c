// Package render provides markdown rendering and color palettes for the
// terminal interface.
package render

import "github.com/diogo/lgclient/internal/config"

// Options configures the markdown renderer
type Options struct {
	// Width is the word wrap column (default: 80)
	Width int

	// Style is a glamour style name ("dark", "light", "dracula",
	// "tokyo-night", "notty", "ascii") or a path to a JSON style
	Style string

	// EnableEmoji converts :emoji: to unicode characters
	EnableEmoji bool

	// TableWrap enables word wrap in table cells
	TableWrap bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width:       80,
		Style:       "dark",
		EnableEmoji: true,
		TableWrap:   true,
	}
}

// FromConfig returns Options built from the markdown section of the user
// configuration
func FromConfig(md config.MarkdownConfig) Options {
	opts := DefaultOptions()
	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.TableWrap = md.TableWrap
	return opts
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	if width > 0 {
		o.Width = width
	}
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
