package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-galaxy/internal/galaxy"
	"github.com/litescript/ls-galaxy/internal/state"
)

// Event log colors
const (
	colorEventRegenerated = "#7CFC00" // Lawn green
	colorEventReverted    = "#FFD700" // Gold
	colorEventFailed      = "#FF6347" // Tomato
	colorEventUnknown     = "#444444"
)

// RenderEventLog renders the newest n events, oldest first.
// Format:
//
//	12:04:31 regen  100,000 pts  41ms
//	12:04:40 revert
//	12:04:52 failed galaxy: branches must be >= 1
func RenderEventLog(events []state.Event, n int) string {
	if len(events) == 0 {
		return dimStyle.Render("no regenerations yet")
	}
	if len(events) > n {
		events = events[len(events)-n:]
	}

	var lines []string
	for _, e := range events {
		stamp := dimStyle.Render(e.Timestamp.Local().Format("15:04:05") + " ")

		var text string
		switch e.Type {
		case state.EventRegenerated:
			text = fmt.Sprintf("regen  %s pts  %s", formatCount(e.Points), e.Duration.Round(time.Millisecond))
		case state.EventReverted:
			text = "revert"
		case state.EventFailed:
			text = "failed"
			if e.Err != nil {
				text += " " + e.Err.Error()
			}
		default:
			text = strings.ToLower(string(e.Type))
		}

		lines = append(lines, stamp+colorByEvent(e.Type, truncate(text, PanelWidth-9)))
	}
	return strings.Join(lines, "\n")
}

// eventToColor returns the color for an event type.
func eventToColor(t state.EventType) string {
	switch t {
	case state.EventRegenerated:
		return colorEventRegenerated
	case state.EventReverted:
		return colorEventReverted
	case state.EventFailed:
		return colorEventFailed
	default:
		return colorEventUnknown
	}
}

// colorByEvent applies event-type coloring to text.
func colorByEvent(t state.EventType, text string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(eventToColor(t)))
	return style.Render(text)
}

// RenderSpreadBar renders how far the median point sits from the core as a
// 4-character bar, using the outside colour.
// Format: spread ██░░
func RenderSpreadBar(p galaxy.Parameters, s galaxy.Summary) string {
	label := dimStyle.Render("spread ")
	if s.Points == 0 || p.Radius <= 0 {
		return label + lipgloss.NewStyle().Foreground(lipgloss.Color(colorEventUnknown)).Render("····")
	}

	frac := s.MedianRadius / p.Radius
	filled := int(frac*4 + 0.5)
	filled = min(max(filled, 0), 4)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 4-filled)

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(p.InsideColor.Lerp(p.OutsideColor, frac).Hex()))
	return label + style.Render(bar)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}
