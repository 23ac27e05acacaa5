package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/glabrego/devwebfeed/internal/board"
	"github.com/glabrego/devwebfeed/internal/posts"
	"github.com/glabrego/devwebfeed/internal/realtime"
	"github.com/glabrego/devwebfeed/internal/tui/actions"
	"github.com/glabrego/devwebfeed/internal/tui/platform"
	"github.com/glabrego/devwebfeed/internal/tui/state"
	tuitheme "github.com/glabrego/devwebfeed/internal/tui/theme"
	tuitree "github.com/glabrego/devwebfeed/internal/tui/tree"
	"github.com/glabrego/devwebfeed/internal/tui/view"
)

// Feed opens change-feed subscriptions for a year.
type Feed interface {
	Subscribe(ctx context.Context, year int) *realtime.Subscription
}

type Options struct {
	Title         string
	Year          int
	IncludeTweets bool
	Location      *board.Location
	// Snapshot is shown before the first fetch completes.
	Snapshot []posts.Post
}

type clearStatusMsg struct {
	id int
}

type Model struct {
	service actions.Service
	feed    Feed
	sub     *realtime.Subscription

	ctrl *board.Controller
	list *view.ListRenderer

	keys    keyMap
	theme   tuitheme.Theme
	spinner spinner.Model

	year            int
	treeCursor      int
	collapsedMonths map[string]bool
	width           int
	height          int
	loading         bool
	status          string
	statusID        int
	err             error
	showHelp        bool
	pendingDelete   *posts.Post

	openURLFn func(string) error
	copyURLFn func(string) error
}

func NewModel(service actions.Service, feed Feed, opts Options) Model {
	if opts.Title == "" {
		opts.Title = "devwebfeed"
	}
	if opts.Year == 0 {
		opts.Year = time.Now().Year()
	}

	list := view.NewListRenderer()
	preRendered := len(opts.Snapshot) > 0
	if preRendered {
		list.Render(opts.Snapshot, board.DefaultTarget)
	}
	ctrl := board.NewController(list, board.Options{
		Title:         opts.Title,
		IncludeTweets: opts.IncludeTweets,
		PreRendered:   preRendered,
		Location:      opts.Location,
	})

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		service:         service,
		feed:            feed,
		ctrl:            ctrl,
		list:            list,
		keys:            defaultKeyMap(),
		theme:           tuitheme.Default(),
		spinner:         sp,
		year:            opts.Year,
		collapsedMonths: make(map[string]bool),
		loading:         service != nil,
		openURLFn:       platform.OpenURLInBrowser,
		copyURLFn:       platform.CopyURLToClipboard,
	}
	m.treeCursor = tuitree.FirstPostRow(m.rows())
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle(m.ctrl.Title())}
	if m.service != nil {
		cmds = append(cmds, m.spinner.Tick, actions.LoadLatestCmd(m.service))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.FocusMsg:
		m.ctrl.Focus(true)
		return m, tea.SetWindowTitle(m.ctrl.Title())
	case tea.BlurMsg:
		m.ctrl.Focus(false)
		return m, nil
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case actions.LatestLoadedMsg:
		return m.startBoard(msg)
	case actions.BatchMsg:
		anchor := m.anchorURL()
		m.ctrl.ApplyBatch(msg.Batch.Year, msg.Batch.Changes)
		m.restoreSelection(anchor)
		log.Debug().Int("year", msg.Batch.Year).Int("changes", len(msg.Batch.Changes)).Msg("applied change batch")
		return m, tea.Batch(tea.SetWindowTitle(m.ctrl.Title()), actions.WaitForBatchCmd(m.batches()))
	case actions.FeedClosedMsg:
		m.sub = nil
		return m, nil
	case actions.DeleteDoneMsg:
		if msg.Err != nil {
			log.Error().Stack().Err(msg.Err).Str("url", msg.URL).Msg("error while deleting post")
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		return m.withStatus("Delete requested, waiting for the change feed")
	case actions.PreferencesSavedMsg:
		if msg.Err != nil {
			log.Warn().Err(msg.Err).Msg("could not save preferences")
		}
		return m, nil
	case actions.OpenURLSuccessMsg:
		m.err = nil
		return m.withStatus(msg.Status)
	case actions.OpenURLErrorMsg:
		m.err = msg.Err
		return m, nil
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

// startBoard hands the fetched list to the controller. A failed fetch leaves
// the board empty and no subscription is opened.
func (m Model) startBoard(msg actions.LatestLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	anchor := m.anchorURL()
	if err := m.ctrl.Start(context.Background(), loadedSource{list: msg.Posts, err: msg.Err}); err != nil {
		m.err = err
		return m, nil
	}

	// The snapshot is only a stand-in for the fetched list.
	if !sameURLs(m.list.Posts(), m.ctrl.Visible()) {
		m.list.Render(m.ctrl.Visible(), board.DefaultTarget)
	}
	if !m.ctrl.IncludeTweets() && !m.ctrl.TweetsToggleDisabled() {
		m.ctrl.SetIncludeTweets(false)
	}
	m.restoreSelection(anchor)
	m.err = nil

	var cmds []tea.Cmd
	if m.feed != nil {
		m.sub = m.feed.Subscribe(context.Background(), m.year)
		cmds = append(cmds, actions.WaitForBatchCmd(m.batches()))
	}
	log.Info().Int("posts", len(m.ctrl.Cache())).Dur("duration", msg.Duration).Msg("loaded latest posts")

	next, statusCmd := m.withStatus(fmt.Sprintf("Loaded %d posts in %s", len(m.ctrl.Cache()), msg.Duration.Round(time.Millisecond)))
	cmds = append(cmds, statusCmd)
	return next, tea.Batch(cmds...)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if _, bounds := m.helpLayout(); !bounds.Contains(msg.X, msg.Y) {
				m.showHelp = false
			}
		}
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveCursorBy(-1)
	case tea.MouseButtonWheelDown:
		m.moveCursorBy(1)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.pendingDelete != nil {
		target := *m.pendingDelete
		m.pendingDelete = nil
		if msg.String() != "y" {
			return m.withStatus("Delete cancelled")
		}
		return m, actions.DeleteCmd(m.service, view.DisplayDate(target), target.URL)
	}

	// The overlay locks the list underneath it.
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Close):
			m.showHelp = false
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Up):
		m.moveCursorBy(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursorBy(1)
	case key.Matches(msg, m.keys.Top):
		m.treeCursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.treeCursor = state.ClampCursor(len(m.rows())-1, len(m.rows()))
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursorBy(-state.PageStep(m.height, m.status != "" || m.err != nil))
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursorBy(state.PageStep(m.height, m.status != "" || m.err != nil))
	case key.Matches(msg, m.keys.Open):
		return m.openCurrent(msg.String() == "o")
	case key.Matches(msg, m.keys.Copy):
		p, ok := m.selectedPost()
		if !ok {
			return m, nil
		}
		return m, actions.CopyURLCmd(p.URL, m.copyURLFn)
	case key.Matches(msg, m.keys.FilterDomain):
		return m.filterBySelected(posts.KeyDomain)
	case key.Matches(msg, m.keys.FilterAuthor):
		return m.filterBySelected(posts.KeyAuthor)
	case key.Matches(msg, m.keys.Clear):
		anchor := m.anchorURL()
		m.ctrl.ClearFilters()
		m.restoreSelection(anchor)
	case key.Matches(msg, m.keys.Tweets):
		return m.toggleTweets()
	case key.Matches(msg, m.keys.Delete):
		return m.requestDelete()
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.sub != nil {
		m.sub.Unsubscribe()
		m.sub = nil
	}
	return m, tea.Quit
}

func (m Model) openCurrent(onlyPosts bool) (tea.Model, tea.Cmd) {
	rows := m.rows()
	if len(rows) == 0 {
		return m, nil
	}
	row := rows[state.ClampCursor(m.treeCursor, len(rows))]
	if row.Kind == tuitree.RowMonth {
		if !onlyPosts {
			m.collapsedMonths[row.Month] = !m.collapsedMonths[row.Month]
		}
		return m, nil
	}
	p := m.list.Posts()[row.PostIndex]
	if _, err := platform.ValidatePostURL(p.URL); err != nil {
		m.err = err
		return m, nil
	}
	return m, actions.OpenURLCmd(p.URL, m.openURLFn, m.copyURLFn)
}

func (m Model) filterBySelected(field string) (tea.Model, tea.Cmd) {
	p, ok := m.selectedPost()
	if !ok {
		return m, nil
	}
	value, _ := posts.Field(p, field)
	if strings.TrimSpace(value) == "" {
		return m.withStatus(fmt.Sprintf("Post has no %s", field))
	}
	m.ctrl.FilterBy(field, value)
	m.restoreSelection(p.URL)
	return m, nil
}

func (m Model) toggleTweets() (tea.Model, tea.Cmd) {
	anchor := m.anchorURL()
	include := !m.ctrl.IncludeTweets()
	if !m.ctrl.SetIncludeTweets(include) {
		return m.withStatus("Clear the filter to toggle tweets")
	}
	m.restoreSelection(anchor)
	if m.service == nil {
		return m, nil
	}
	return m, actions.SavePreferencesCmd(m.service, include)
}

func (m Model) requestDelete() (tea.Model, tea.Cmd) {
	if !m.ctrl.EditMode() || m.service == nil {
		return m, nil
	}
	p, ok := m.selectedPost()
	if !ok {
		return m, nil
	}
	if _, _, err := board.DeleteTarget(view.DisplayDate(p)); err != nil {
		m.err = err
		return m, nil
	}
	m.pendingDelete = &p
	return m, nil
}

func (m Model) withStatus(status string) (tea.Model, tea.Cmd) {
	m.statusID++
	m.status = status
	return m, clearStatusCmd(m.statusID, 4*time.Second)
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func (m Model) batches() actions.Batches {
	if m.sub == nil {
		return nil
	}
	return m.sub
}

func (m Model) rows() []tuitree.Row {
	return tuitree.BuildRows(m.list.Posts(), tuitree.BuildOptions{CollapsedMonths: m.collapsedMonths})
}

func (m Model) selectedPost() (posts.Post, bool) {
	idx, ok := state.SelectedPost(m.rows(), m.treeCursor)
	if !ok {
		return posts.Post{}, false
	}
	return m.list.Posts()[idx], true
}

func (m Model) anchorURL() string {
	if p, ok := m.selectedPost(); ok {
		return p.URL
	}
	return ""
}

// restoreSelection keeps the cursor on url after a re-render, or moves it to
// the first post when url is gone.
func (m *Model) restoreSelection(url string) {
	rows := m.rows()
	if url != "" {
		if idx := state.PostIndexByURL(m.list.Posts(), url); idx >= 0 {
			if cursor := state.TreeCursorForPost(rows, idx); cursor >= 0 {
				m.treeCursor = cursor
				return
			}
		}
	}
	m.treeCursor = tuitree.FirstPostRow(rows)
}

func (m *Model) moveCursorBy(delta int) {
	m.treeCursor = state.ClampCursor(m.treeCursor+delta, len(m.rows()))
}

func (m Model) helpLayout() (string, view.Rect) {
	box := view.HelpBox(m.keys.helpEntries(m.ctrl.EditMode()), m.theme)
	return view.PlaceHelp(m.width, m.height, box)
}

func (m Model) listHeight() int {
	if m.height <= 0 {
		return 0
	}
	h := m.height - 6
	if h < 3 {
		h = 3
	}
	return h
}

func (m Model) View() string {
	if m.showHelp {
		screen, _ := m.helpLayout()
		return screen
	}

	var b strings.Builder
	b.WriteString(view.Header(m.ctrl.Title(), m.ctrl.Location().String(), m.ctrl.EditMode(), m.theme))
	b.WriteString("\n")
	filterKey, filterValue, filtering := m.ctrl.Filter()
	b.WriteString(view.FilterIndicator(filterKey, filterValue, filtering, m.theme))
	b.WriteString("\n")

	rows := m.rows()
	list := m.list.Posts()
	if len(rows) == 0 {
		if m.loading {
			b.WriteString("Loading posts...\n")
		} else {
			b.WriteString("No posts.\n")
		}
	} else {
		width := m.width
		if width <= 0 {
			width = 100
		}
		start, end := state.CenteredWindow(len(rows), m.treeCursor, m.listHeight())
		b.WriteString(view.RenderListBody(view.ListRenderInput{
			Rows:            rows,
			Start:           start,
			End:             end,
			TreeCursor:      m.treeCursor,
			MonthCounts:     tuitree.MonthCounts(list),
			CollapsedMonths: m.collapsedMonths,
			RenderMonthLine: func(label string, count int, active, collapsed bool) string {
				return view.RenderMonthLine(label, count, width, active, collapsed, m.theme)
			},
			RenderPostLine: func(postIndex, visiblePos int, active bool) string {
				return view.RenderPostLine(view.PostLineParams{
					Post:       list[postIndex],
					VisiblePos: visiblePos,
					Active:     active,
					Width:      width,
				}, m.theme)
			},
		}))
	}

	b.WriteString("\n")
	b.WriteString(view.Footer(len(list), len(m.ctrl.Cache()), m.ctrl.IncludeTweets(), m.ctrl.TweetsToggleDisabled(), m.ctrl.ChangeCount(), m.theme))
	b.WriteString("\n")
	if m.pendingDelete != nil {
		b.WriteString(view.ConfirmPrompt(board.DeletePrompt, view.PostTitle(*m.pendingDelete), m.theme))
	} else {
		warning := ""
		if m.err != nil {
			warning = m.err.Error()
		}
		b.WriteString(view.Message(m.loading, m.spinner.View(), m.status, warning, m.theme))
	}
	b.WriteString("\n")
	b.WriteString(view.Toolbar(m.ctrl.EditMode()))
	return b.String()
}

// Close stops the change feed if the program ended without quitting through
// the keyboard.
func (m Model) Close() {
	if m.sub != nil {
		m.sub.Unsubscribe()
	}
}

// Controller exposes the board state, mainly for tests and the final log line.
func (m Model) Controller() *board.Controller {
	return m.ctrl
}

type loadedSource struct {
	list []posts.Post
	err  error
}

func (s loadedSource) LatestPosts(context.Context) ([]posts.Post, error) {
	return s.list, s.err
}

func sameURLs(a, b []posts.Post) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].URL != b[i].URL {
			return false
		}
	}
	return true
}
