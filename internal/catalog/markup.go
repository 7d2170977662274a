package catalog

import "fmt"

// Event states.
const (
	StatusLive     = "live"
	StatusUpcoming = "upcoming"
)

// ARGB colors of the event states.
const (
	ColorLive     = "FF03F12F"
	ColorUpcoming = "FFF16C00"
)

// Colorize wraps text in color markup for status.
func Colorize(text, status string) string {
	color := ColorLive
	if status == StatusUpcoming {
		color = ColorUpcoming
	}
	return fmt.Sprintf("[COLOR=%s]%s[/COLOR]", color, text)
}

// Bold wraps text in bold markup.
func Bold(text string) string {
	return "[B]" + text + "[/B]"
}
