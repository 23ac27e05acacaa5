package view

import (
	"fmt"
	"strings"

	tuitheme "github.com/glabrego/devwebfeed/internal/tui/theme"
)

func Toolbar(editMode bool) string {
	if editMode {
		return "j/k move | enter open | f/a filter | x clear | t tweets | d delete | ? help | q quit"
	}
	return "j/k move | enter open | f/a filter | x clear | t tweets | ? help | q quit"
}

func Header(title, location string, editMode bool, th tuitheme.Theme) string {
	parts := []string{th.Title.Render(title)}
	if editMode {
		parts = append(parts, th.EditPill.Render("edit"))
	}
	parts = append(parts, th.MetaLabel.Render(location))
	return strings.Join(parts, " ")
}

// FilterIndicator is empty unless a filter is active.
func FilterIndicator(key, value string, active bool, th tuitheme.Theme) string {
	if !active {
		return ""
	}
	return th.MetaLabel.Render("filtering by") + " " + th.Filter.Render(fmt.Sprintf("%s=%s", key, value)) + th.MetaLabel.Render(" (x to clear)")
}

func Footer(shown, total int, includeTweets, tweetsDisabled bool, changes int, th tuitheme.Theme) string {
	tweets := "off"
	if includeTweets {
		tweets = "on"
	}
	tweetsPart := th.MetaLabel.Render("tweets") + " " + th.MetaValue.Render(tweets)
	if tweetsDisabled {
		tweetsPart = th.Disabled.Render("tweets " + tweets)
	}
	parts := []string{
		th.MetaValue.Render(fmt.Sprintf("%d shown", shown)),
		th.MetaValue.Render(fmt.Sprintf("%d cached", total)),
		tweetsPart,
	}
	if changes > 0 {
		parts = append(parts, th.Count.Render(fmt.Sprintf("%d new changes", changes)))
	}
	return strings.Join(parts, " • ")
}

func Message(loading bool, spinner, status, warning string, th tuitheme.Theme) string {
	state := "idle"
	if loading {
		state = "loading"
	}
	if warning != "" {
		state = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if warning != "" {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
		if spinner != "" {
			state = spinner + " " + state
		}
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}

func ConfirmPrompt(prompt, title string, th tuitheme.Theme) string {
	return th.Confirm.Render(prompt) + " " + th.MetaValue.Render(fmt.Sprintf("%q", title)) + " " + th.MetaLabel.Render("[y/n]")
}
