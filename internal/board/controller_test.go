package board

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/glabrego/devwebfeed/internal/devweb"
	"github.com/glabrego/devwebfeed/internal/posts"
	"github.com/glabrego/devwebfeed/internal/realtime"
)

type recordingRenderer struct {
	calls  [][]string
	target string
}

func (r *recordingRenderer) Render(list []posts.Post, target string) {
	r.calls = append(r.calls, posts.URLs(list))
	r.target = target
}

func (r *recordingRenderer) last() []string {
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

type fakeSource struct {
	list []posts.Post
	err  error
}

func (f fakeSource) LatestPosts(context.Context) ([]posts.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func samplePosts() []posts.Post {
	return []posts.Post{
		{URL: "https://example.com/a", Domain: "example.com", Author: "Ada", Submitted: "2018-03-05T10:00:00Z"},
		{URL: "https://other.dev/b", Domain: "other.dev", Author: "Bob", Submitted: "2018-03-10T10:00:00Z"},
		{URL: "https://twitter.com/ChromiumDev/status/1", Domain: "twitter.com", Author: "ChromiumDev", Submitted: "2018-03-11T10:00:00Z", Submitter: posts.Submitter{Bot: true}},
		{URL: "https://example.com/c", Domain: "example.com", Author: "Cy", Submitted: "2018-02-01T10:00:00Z"},
	}
}

func newTestController(t *testing.T, location string, opts Options) (*Controller, *recordingRenderer) {
	t.Helper()
	loc, err := ParseLocation(location)
	if err != nil {
		t.Fatalf("ParseLocation returned error: %v", err)
	}
	r := &recordingRenderer{}
	opts.Location = loc
	return NewController(r, opts), r
}

func TestStart_RendersMergedList(t *testing.T) {
	c, r := newTestController(t, "", Options{IncludeTweets: true})
	if err := c.Start(context.Background(), fakeSource{list: samplePosts()}); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if len(r.calls) != 1 {
		t.Fatalf("expected one render, got %d", len(r.calls))
	}
	if r.target != DefaultTarget {
		t.Fatalf("unexpected render target: %q", r.target)
	}
	if !reflect.DeepEqual(r.last(), posts.URLs(samplePosts())) {
		t.Fatalf("unexpected rendered list: %v", r.last())
	}
}

func TestStart_ErrorLeavesCacheEmptyAndSkipsRender(t *testing.T) {
	c, r := newTestController(t, "?domain=example.com", Options{IncludeTweets: true})
	err := c.Start(context.Background(), fakeSource{err: errors.New("rate limited")})
	if err == nil {
		t.Fatal("expected startup error")
	}
	if len(c.Cache()) != 0 {
		t.Fatalf("expected empty cache, got %d posts", len(c.Cache()))
	}
	if len(r.calls) != 0 {
		t.Fatalf("expected no render, got %d", len(r.calls))
	}
	if _, _, ok := c.Filter(); ok {
		t.Fatal("did not expect location filters to be applied after failure")
	}
}

func TestStart_PreRenderedSkipsFirstRender(t *testing.T) {
	c, r := newTestController(t, "", Options{IncludeTweets: true, PreRendered: true})
	if err := c.Start(context.Background(), fakeSource{list: samplePosts()}); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if len(r.calls) != 0 {
		t.Fatalf("expected pre-rendered board to skip render, got %d", len(r.calls))
	}
	if len(c.Cache()) != 4 {
		t.Fatalf("expected cache populated, got %d", len(c.Cache()))
	}
}

func TestStart_AppliesLocationFilter(t *testing.T) {
	c, r := newTestController(t, "/?domain=other.dev", Options{IncludeTweets: true})
	if err := c.Start(context.Background(), fakeSource{list: samplePosts()}); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if !reflect.DeepEqual(r.last(), []string{"https://other.dev/b"}) {
		t.Fatalf("unexpected filtered render: %v", r.last())
	}
	key, value, ok := c.Filter()
	if !ok || key != "domain" || value != "other.dev" {
		t.Fatalf("unexpected filter: %q=%q %v", key, value, ok)
	}
}

func TestStart_LastFilterInQueryWins(t *testing.T) {
	c, r := newTestController(t, "?domain=other.dev&author=Ada", Options{IncludeTweets: true})
	if err := c.Start(context.Background(), fakeSource{list: samplePosts()}); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	key, value, ok := c.Filter()
	if !ok || key != "author" || value != "Ada" {
		t.Fatalf("expected author filter from the later param, got %q=%q %v", key, value, ok)
	}
	if !reflect.DeepEqual(r.last(), []string{"https://example.com/a"}) {
		t.Fatalf("unexpected filtered render: %v", r.last())
	}
	if got := c.Location().String(); got != "/?author=Ada" {
		t.Fatalf("unexpected location: %s", got)
	}
}

func TestStart_EditModeSkipsFilters(t *testing.T) {
	c, r := newTestController(t, "?edit&domain=other.dev", Options{IncludeTweets: true})
	if err := c.Start(context.Background(), fakeSource{list: samplePosts()}); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if !c.EditMode() {
		t.Fatal("expected edit mode")
	}
	if len(r.calls) != 1 || len(r.last()) != 4 {
		t.Fatalf("expected only the startup render, got %v", r.calls)
	}
}

func TestFilterBy_ToggleRestoresUnfiltered(t *testing.T) {
	c, r := newTestController(t, "", Options{IncludeTweets: true})
	c.Load(samplePosts())

	if !c.FilterBy("domain", "example.com") {
		t.Fatal("expected filter to apply")
	}
	if !reflect.DeepEqual(r.last(), []string{"https://example.com/a", "https://example.com/c"}) {
		t.Fatalf("unexpected filtered render: %v", r.last())
	}
	if got := c.Location().String(); got != "/?domain=example.com" {
		t.Fatalf("unexpected location: %s", got)
	}
	if !c.TweetsToggleDisabled() {
		t.Fatal("expected tweets toggle disabled while filtering")
	}

	c.FilterBy("domain", "example.com")
	if !reflect.DeepEqual(r.last(), posts.URLs(samplePosts())) {
		t.Fatalf("expected unfiltered render, got %v", r.last())
	}
	if got := c.Location().String(); got != "/" {
		t.Fatalf("expected filter removed from location, got %s", got)
	}
	if _, _, ok := c.Filter(); ok {
		t.Fatal("expected no active filter")
	}
	if c.TweetsToggleDisabled() {
		t.Fatal("expected tweets toggle enabled again")
	}
	if got := c.Location().History(); !reflect.DeepEqual(got, []string{"/?domain=example.com", "/"}) {
		t.Fatalf("unexpected history: %v", got)
	}
}

func TestFilterBy_UnknownKeyIsNoop(t *testing.T) {
	c, r := newTestController(t, "?author=Ada", Options{IncludeTweets: true})
	c.Load(samplePosts())
	renders := len(r.calls)

	if c.FilterBy("bogusKey", "x") {
		t.Fatal("expected unknown key to be rejected")
	}
	if len(r.calls) != renders {
		t.Fatal("expected no render for unknown key")
	}
	if got := c.Location().String(); got != "/?author=Ada" {
		t.Fatalf("expected location unchanged, got %s", got)
	}
	if len(c.Location().History()) != 0 {
		t.Fatal("expected no history entry")
	}
}

func TestFilterBy_OnlyOneFilterActive(t *testing.T) {
	c, _ := newTestController(t, "", Options{IncludeTweets: true})
	c.Load(samplePosts())

	c.FilterBy("domain", "example.com")
	c.FilterBy("author", "Bob")

	if got := c.Location().String(); got != "/?author=Bob" {
		t.Fatalf("expected only the author filter, got %s", got)
	}
	if got := posts.URLs(c.Visible()); !reflect.DeepEqual(got, []string{"https://other.dev/b"}) {
		t.Fatalf("expected author filter over the full working set, got %v", got)
	}
}

func TestFilterBy_ActiveValueUnderOtherKeyClears(t *testing.T) {
	c, _ := newTestController(t, "", Options{IncludeTweets: true})
	c.Load(samplePosts())

	c.FilterBy("domain", "example.com")
	c.FilterBy("author", "example.com")

	if _, _, ok := c.Filter(); ok {
		t.Fatal("expected the active value to clear the filter")
	}
	if got := c.Location().String(); got != "/" {
		t.Fatalf("expected filter params removed, got %s", got)
	}
	if len(c.Visible()) != len(samplePosts()) {
		t.Fatalf("expected unfiltered view, got %v", posts.URLs(c.Visible()))
	}
}

func TestFilterBy_KeepsUnrelatedQueryParams(t *testing.T) {
	c, _ := newTestController(t, "/feed?theme=dark", Options{IncludeTweets: true})
	c.Load(samplePosts())

	c.FilterBy("author", "Ada")
	if got := c.Location().String(); got != "/feed?author=Ada&theme=dark" {
		t.Fatalf("unexpected location: %s", got)
	}
}

func TestFilterBy_ExcludesTweetsWhenDisabled(t *testing.T) {
	c, _ := newTestController(t, "", Options{IncludeTweets: false})
	c.Load(samplePosts())

	c.FilterBy("author", "ChromiumDev")
	if len(c.Visible()) != 0 {
		t.Fatalf("expected tweets excluded from filtering, got %v", posts.URLs(c.Visible()))
	}
}

func TestClearFilters(t *testing.T) {
	c, r := newTestController(t, "", Options{IncludeTweets: true})
	c.Load(samplePosts())
	c.FilterBy("author", "Ada")

	c.ClearFilters()
	if _, _, ok := c.Filter(); ok {
		t.Fatal("expected filters cleared")
	}
	if len(r.last()) != 4 {
		t.Fatalf("expected full render, got %v", r.last())
	}
}

func TestSetIncludeTweets(t *testing.T) {
	c, r := newTestController(t, "", Options{IncludeTweets: true})
	c.Load(samplePosts())

	if !c.SetIncludeTweets(false) {
		t.Fatal("expected toggle to apply")
	}
	for _, u := range r.last() {
		if u == "https://twitter.com/ChromiumDev/status/1" {
			t.Fatal("expected tweet hidden")
		}
	}

	c.FilterBy("domain", "example.com")
	if c.SetIncludeTweets(true) {
		t.Fatal("expected toggle refused while filtering")
	}
	if c.IncludeTweets() {
		t.Fatal("expected include tweets unchanged")
	}
}

func TestApplyBatch_PurgeKeepsBotPosts(t *testing.T) {
	c, r := newTestController(t, "", Options{IncludeTweets: true})
	bot := posts.Post{URL: "https://twitter.com/ChromiumDev/status/9", Submitted: "2018-03-02T00:00:00Z", Submitter: posts.Submitter{Bot: true}}
	human := posts.Post{URL: "https://example.com/human", Submitted: "2018-03-03T00:00:00Z"}
	older := posts.Post{URL: "https://example.com/feb", Submitted: "2018-02-03T00:00:00Z"}
	c.Load([]posts.Post{bot, human, older})

	fresh := posts.Post{URL: "https://example.com/fresh", Submitted: "2018-03-20T00:00:00Z"}
	c.ApplyBatch(2018, []realtime.Change{{OldIndex: 2, Doc: realtime.Doc{Items: []posts.Post{fresh}}}})

	want := []string{fresh.URL, bot.URL, older.URL}
	if got := posts.URLs(c.Cache()); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected cache after batch: got=%v want=%v", got, want)
	}
	if !reflect.DeepEqual(r.last(), want) {
		t.Fatalf("expected full cache rendered, got %v", r.last())
	}
}

func TestApplyBatch_BatchItemsWinOverCachedDuplicates(t *testing.T) {
	c, _ := newTestController(t, "", Options{IncludeTweets: true})
	cached := posts.Post{URL: "https://example.com/x", Title: "old", Submitted: "2017-03-03T00:00:00Z"}
	c.Load([]posts.Post{cached})

	updated := cached
	updated.Title = "new"
	c.ApplyBatch(2018, []realtime.Change{{OldIndex: 2, Doc: realtime.Doc{Items: []posts.Post{updated}}}})

	if len(c.Cache()) != 1 || c.Cache()[0].Title != "new" {
		t.Fatalf("expected batch item to win, got %+v", c.Cache())
	}
}

func TestApplyBatch_OnlyFirstChangeApplied(t *testing.T) {
	c, _ := newTestController(t, "", Options{IncludeTweets: true})
	c.Load(nil)

	c.ApplyBatch(2018, []realtime.Change{
		{OldIndex: 0, Doc: realtime.Doc{Items: []posts.Post{{URL: "jan"}}}},
		{OldIndex: 1, Doc: realtime.Doc{Items: []posts.Post{{URL: "feb"}}}},
	})
	if got := posts.URLs(c.Cache()); !reflect.DeepEqual(got, []string{"jan"}) {
		t.Fatalf("unexpected cache: %v", got)
	}

	c.ApplyBatch(2018, nil)
	if len(c.Cache()) != 1 {
		t.Fatal("expected empty batch to be ignored")
	}
}

type twoPollLister struct {
	mu    sync.Mutex
	calls int
}

func (l *twoPollLister) ListMonths(context.Context, int) ([]devweb.MonthDoc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	docs := make([]devweb.MonthDoc, 12)
	for i := range docs {
		docs[i].Month = i
	}
	if l.calls > 1 {
		docs[1].Items = []posts.Post{{URL: "https://a.dev/feb", Submitted: "2018-02-10T00:00:00Z"}}
		docs[5].Items = []posts.Post{{URL: "https://a.dev/jun", Submitted: "2018-06-10T00:00:00Z"}}
	}
	return docs, nil
}

func TestApplyBatch_FeedDeliversEveryChangedMonth(t *testing.T) {
	c, _ := newTestController(t, "", Options{IncludeTweets: true})
	c.Load(nil)

	sub := realtime.NewFeed(&twoPollLister{}, 5*time.Millisecond).Subscribe(context.Background(), 2018)
	defer sub.Unsubscribe()

	for i := 0; i < 2; i++ {
		select {
		case batch := <-sub.C():
			c.ApplyBatch(batch.Year, batch.Changes)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for batch %d", i+1)
		}
	}

	want := []string{"https://a.dev/jun", "https://a.dev/feb"}
	if got := posts.URLs(c.Cache()); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected cache after feed batches: got=%v want=%v", got, want)
	}
}

func TestTitleCounter(t *testing.T) {
	c, _ := newTestController(t, "", Options{Title: "DevWeb Feed"})
	c.Load(nil)

	c.ApplyBatch(2018, []realtime.Change{{OldIndex: 0}})
	if c.Title() != "DevWeb Feed" {
		t.Fatalf("expected unchanged title while focused, got %q", c.Title())
	}

	c.Focus(false)
	c.ApplyBatch(2018, []realtime.Change{{OldIndex: 0}})
	c.ApplyBatch(2018, []realtime.Change{{OldIndex: 1}})
	if c.Title() != "(2) DevWeb Feed" {
		t.Fatalf("unexpected title: %q", c.Title())
	}

	c.Focus(true)
	if c.Title() != "DevWeb Feed" || c.ChangeCount() != 0 {
		t.Fatalf("expected counter reset, got %q (%d)", c.Title(), c.ChangeCount())
	}
}
