package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Pretty renders markdown for the terminal. style is "auto" or a glamour standard
// style name such as "dark", "light" or "notty".
func Pretty(markdown, style string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("pretty renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render pretty: %w", err)
	}
	return out, nil
}
