// Package board owns the in-memory post cache of the board and everything
// derived from it: the filtered view, the location and the change counter.
package board

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/glabrego/devwebfeed/internal/posts"
	"github.com/glabrego/devwebfeed/internal/realtime"
)

const DefaultTarget = "posts"

// Renderer draws an ordered list of posts into a named target.
type Renderer interface {
	Render(list []posts.Post, target string)
}

// Source produces the merged startup list.
type Source interface {
	LatestPosts(ctx context.Context) ([]posts.Post, error)
}

type Options struct {
	Target        string
	Title         string
	IncludeTweets bool
	// PreRendered skips the first render because the target already shows the list.
	PreRendered bool
	Location    *Location
}

type Controller struct {
	renderer Renderer
	target   string

	cache   []posts.Post
	visible []posts.Post

	filterKey   string
	filterValue string
	filtering   bool

	includeTweets  bool
	tweetsDisabled bool
	editMode       bool
	preRendered    bool
	location       *Location

	baseTitle string
	focused   bool
	changes   int
}

func NewController(renderer Renderer, opts Options) *Controller {
	if opts.Target == "" {
		opts.Target = DefaultTarget
	}
	if opts.Location == nil {
		opts.Location, _ = ParseLocation("")
	}
	if opts.Location.Query == nil {
		opts.Location.Query = make(url.Values)
	}
	return &Controller{
		renderer:      renderer,
		target:        opts.Target,
		includeTweets: opts.IncludeTweets,
		preRendered:   opts.PreRendered,
		location:      opts.Location,
		baseTitle:     opts.Title,
		focused:       true,
	}
}

// Start fetches the startup list, renders it and applies the location. On a
// fetch error the cache stays empty and nothing is rendered.
func (c *Controller) Start(ctx context.Context, src Source) error {
	list, err := src.LatestPosts(ctx)
	if err != nil {
		log.Error().Stack().Err(err).Msg("error while loading latest posts")
		return fmt.Errorf("load latest posts: %w", err)
	}
	c.Load(list)
	c.ApplyLocation()
	return nil
}

// Load replaces the cache. The list is rendered unless the target was
// pre-rendered.
func (c *Controller) Load(list []posts.Post) {
	c.cache = posts.Unique(list)
	c.visible = c.cache
	if c.preRendered {
		c.preRendered = false
		return
	}
	c.render(c.cache)
}

// ApplyLocation enters edit mode when the location carries "edit", otherwise
// replays every query parameter through FilterBy in query order.
func (c *Controller) ApplyLocation() {
	if c.location.Has("edit") {
		c.editMode = true
		return
	}
	for _, param := range c.location.Params() {
		c.FilterBy(param.Key, param.Value)
	}
}

// ApplyBatch merges a change batch of the monitored year into the cache.
// Only the first change is applied; its OldIndex is the zero-based month.
func (c *Controller) ApplyBatch(year int, changes []realtime.Change) {
	if len(changes) == 0 {
		return
	}
	if !c.focused {
		c.changes++
	}

	month := changes[0].OldIndex
	survivors := posts.Without(c.cache, func(p posts.Post) bool {
		return posts.InMonth(p, year, month) && !p.Submitter.Bot
	})
	c.cache = posts.Merge(changes[0].Doc.Items, survivors)
	c.visible = c.cache
	c.render(c.cache)
}

// FilterBy narrows the view to posts whose key equals value. Calling it again
// with the active value clears the filter, whatever the key. Keys outside the
// allow-list are ignored.
func (c *Controller) FilterBy(key, value string) bool {
	if key != "" && !posts.IsFilterKey(key) {
		return false
	}

	for _, k := range posts.FilterKeys {
		c.location.Query.Del(k)
	}

	working := c.workingSet()
	if key == "" || (c.filtering && value == c.filterValue) {
		c.filtering = false
		c.filterKey = ""
		c.filterValue = ""
	} else {
		filtered := make([]posts.Post, 0, len(working))
		for _, p := range working {
			if v, _ := posts.Field(p, key); v == value {
				filtered = append(filtered, p)
			}
		}
		working = filtered
		c.location.Query.Set(key, value)
		c.filtering = true
		c.filterKey = key
		c.filterValue = value
	}

	c.tweetsDisabled = c.filtering
	c.location.Push()
	c.visible = working
	c.render(working)
	return true
}

func (c *Controller) ClearFilters() {
	c.filtering = false
	c.filterKey = ""
	c.filterValue = ""
	c.FilterBy("", "")
}

// SetIncludeTweets switches tweets in or out of the unfiltered view. It is
// refused while a filter is active.
func (c *Controller) SetIncludeTweets(include bool) bool {
	if c.tweetsDisabled {
		return false
	}
	c.includeTweets = include
	c.visible = c.workingSet()
	c.render(c.visible)
	return true
}

func (c *Controller) workingSet() []posts.Post {
	if c.includeTweets {
		return c.cache
	}
	return posts.Without(c.cache, posts.IsTweet)
}

func (c *Controller) render(list []posts.Post) {
	if c.renderer == nil {
		return
	}
	c.renderer.Render(list, c.target)
}

// Focus tracks whether the viewer is looking at the board. Regaining focus
// resets the change counter.
func (c *Controller) Focus(focused bool) {
	c.focused = focused
	if focused && c.changes > 0 {
		c.changes = 0
	}
}

// Title is the window title, prefixed with the number of unseen changes.
func (c *Controller) Title() string {
	if c.changes == 0 {
		return c.baseTitle
	}
	return fmt.Sprintf("(%d) %s", c.changes, c.baseTitle)
}

func (c *Controller) Cache() []posts.Post        { return c.cache }
func (c *Controller) Visible() []posts.Post      { return c.visible }
func (c *Controller) ChangeCount() int           { return c.changes }
func (c *Controller) EditMode() bool             { return c.editMode }
func (c *Controller) IncludeTweets() bool        { return c.includeTweets }
func (c *Controller) TweetsToggleDisabled() bool { return c.tweetsDisabled }
func (c *Controller) Location() *Location        { return c.location }

// Filter returns the active filter, if any.
func (c *Controller) Filter() (key, value string, ok bool) {
	return c.filterKey, c.filterValue, c.filtering
}
