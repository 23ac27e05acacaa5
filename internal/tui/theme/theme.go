package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/devwebfeed/internal/posts"
)

type Theme struct {
	Title      lipgloss.Style
	EditPill   lipgloss.Style
	Section    lipgloss.Style
	Count      lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	Filter     lipgloss.Style
	Disabled   lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style
	Confirm    lipgloss.Style
	HelpBox    lipgloss.Style
	HelpKey    lipgloss.Style

	TitlePost  lipgloss.Style
	TitleBot   lipgloss.Style
	TitleTweet lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpSky := lipgloss.Color("#89dceb")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay0 := lipgloss.Color("#6c7086")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")

	return Theme{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		EditPill:   lipgloss.NewStyle().Foreground(cpRed).Background(cpSurface0).Padding(0, 1),
		Section:    lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		Count:      lipgloss.NewStyle().Foreground(cpYellow).Bold(true),
		ActiveLine: lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:  lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:  lipgloss.NewStyle().Foreground(cpSubtext1),
		Filter:     lipgloss.NewStyle().Foreground(cpPeach).Bold(true),
		Disabled:   lipgloss.NewStyle().Foreground(cpOverlay0).Strikethrough(true),
		StateIdle:  lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:  lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:  lipgloss.NewStyle().Foreground(cpPeach),
		Confirm:    lipgloss.NewStyle().Bold(true).Foreground(cpRed),
		HelpBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cpLavender).
			Padding(1, 2),
		HelpKey:    lipgloss.NewStyle().Bold(true).Foreground(cpLavender),
		TitlePost:  lipgloss.NewStyle().Bold(true).Foreground(cpText),
		TitleBot:   lipgloss.NewStyle().Italic(true).Foreground(cpSubtext0),
		TitleTweet: lipgloss.NewStyle().Italic(true).Foreground(cpSky),
	}
}

func (t Theme) StylePostTitle(p posts.Post, title string) string {
	if title == "" {
		return title
	}
	switch {
	case posts.IsTweet(p):
		return t.TitleTweet.Render(title)
	case p.Submitter.Bot:
		return t.TitleBot.Render(title)
	default:
		return t.TitlePost.Render(title)
	}
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}

