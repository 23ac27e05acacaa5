package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/devwebfeed/internal/app"
	"github.com/glabrego/devwebfeed/internal/posts"
	"github.com/glabrego/devwebfeed/internal/realtime"
)

type Service interface {
	LatestPosts(ctx context.Context) ([]posts.Post, error)
	DeletePost(ctx context.Context, displayDate, url string) error
	SavePreferences(ctx context.Context, prefs app.Preferences) error
}

// Batches is the receiving side of a change-feed subscription.
type Batches interface {
	C() <-chan realtime.Batch
}

type LatestLoadedMsg struct {
	Posts    []posts.Post
	Err      error
	Duration time.Duration
}

type BatchMsg struct {
	Batch realtime.Batch
}

// FeedClosedMsg reports that the subscription channel was closed.
type FeedClosedMsg struct{}

type DeleteDoneMsg struct {
	URL string
	Err error
}

type PreferencesSavedMsg struct {
	Err error
}

type OpenURLSuccessMsg struct {
	Status string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

// LoadLatestCmd runs the startup fetch. It carries no deadline of its own;
// the HTTP client timeout bounds each request.
func LoadLatestCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		list, err := service.LatestPosts(context.Background())
		return LatestLoadedMsg{Posts: list, Err: err, Duration: time.Since(start)}
	}
}

// WaitForBatchCmd blocks on the next batch. The model re-issues it after
// every BatchMsg so batches are handled one at a time in Update.
func WaitForBatchCmd(sub Batches) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		batch, ok := <-sub.C()
		if !ok {
			return FeedClosedMsg{}
		}
		return BatchMsg{Batch: batch}
	}
}

func DeleteCmd(service Service, displayDate, url string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return DeleteDoneMsg{URL: url, Err: service.DeletePost(ctx, displayDate, url)}
	}
}

func SavePreferencesCmd(service Service, includeTweets bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return PreferencesSavedMsg{Err: service.SavePreferences(ctx, app.Preferences{IncludeTweets: includeTweets})}
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened URL in browser", Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}
