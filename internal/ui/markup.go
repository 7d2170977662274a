package ui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// markupTag matches the [B] and [COLOR=AARRGGBB] tags used in item titles.
var markupTag = regexp.MustCompile(`\[(/?)(B|COLOR)(?:=([0-9A-Fa-f]{8}))?\]`)

// Strip removes title markup.
func Strip(s string) string {
	return markupTag.ReplaceAllString(s, "")
}

// Render turns title markup into terminal styling.
func Render(s string) string {
	var (
		out    strings.Builder
		bold   int
		colors []string
		last   int
	)

	emit := func(text string) {
		if text == "" {
			return
		}
		style := lipgloss.NewStyle()
		if bold > 0 {
			style = style.Bold(true)
		}
		if len(colors) > 0 {
			style = style.Foreground(lipgloss.Color(colors[len(colors)-1]))
		}
		out.WriteString(style.Render(text))
	}

	for _, m := range markupTag.FindAllStringSubmatchIndex(s, -1) {
		emit(s[last:m[0]])
		last = m[1]

		closing := s[m[2]:m[3]] == "/"
		switch s[m[4]:m[5]] {
		case "B":
			if closing {
				if bold > 0 {
					bold--
				}
			} else {
				bold++
			}
		case "COLOR":
			if closing {
				if len(colors) > 0 {
					colors = colors[:len(colors)-1]
				}
			} else if m[6] >= 0 {
				// AARRGGBB; the terminal has no alpha channel.
				colors = append(colors, "#"+s[m[6]+2:m[7]])
			}
		}
	}
	emit(s[last:])

	return out.String()
}
