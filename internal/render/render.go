package render

import (
	_ "embed"
	"strings"
)

//go:embed help.md
var helpMarkdown string

// Markdown renders markdown content for terminal display.
func Markdown(content string, opts Options) (string, error) {
	r, err := globalCache.get(opts)
	if err != nil {
		return "", err
	}
	return r.render(content)
}

// Help renders the keyboard reference of the terminal form
func Help(opts Options) (string, error) {
	out, err := Markdown(helpMarkdown, opts)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}

// HelpSource returns the unrendered help text
func HelpSource() string {
	return helpMarkdown
}
