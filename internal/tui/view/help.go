package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	tuitheme "github.com/glabrego/devwebfeed/internal/tui/theme"
)

type HelpEntry struct {
	Keys string
	Desc string
}

// Rect is a screen region in cells.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func HelpBox(entries []HelpEntry, th tuitheme.Theme) string {
	keyWidth := 0
	for _, e := range entries {
		if w := lipgloss.Width(e.Keys); w > keyWidth {
			keyWidth = w
		}
	}
	lines := make([]string, 0, len(entries)+2)
	lines = append(lines, th.Title.Render("Keyboard shortcuts"), "")
	for _, e := range entries {
		pad := strings.Repeat(" ", keyWidth-lipgloss.Width(e.Keys))
		lines = append(lines, th.HelpKey.Render(e.Keys)+pad+"  "+e.Desc)
	}
	lines = append(lines, "", th.MetaLabel.Render("esc or click outside to close"))
	return th.HelpBox.Render(strings.Join(lines, "\n"))
}

// PlaceHelp centers box on a width x height screen and reports where it
// landed, so mouse clicks can be tested against it.
func PlaceHelp(width, height int, box string) (string, Rect) {
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	rect := Rect{W: w, H: h}
	if width > w {
		rect.X = (width - w) / 2
	}
	if height > h {
		rect.Y = (height - h) / 2
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box), rect
}
