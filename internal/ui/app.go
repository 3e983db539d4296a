package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/galley/internal/logger"
	"github.com/five82/galley/internal/prefs"
	"github.com/five82/galley/internal/recipe"
	"github.com/five82/galley/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewRecipes View = iota
	ViewLogs
)

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	svc       Fetcher
	sub       *state.Subscription
	thumbs    ThumbnailLoader
	log       *logger.Logger
	prefsPath string
	logPath   string
	now       func() time.Time

	// UI state
	theme       Theme
	keys        keyMap
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	st      state.State
	listing listing
	visible recipe.Feed

	// List state
	selectedRow int
	listOffset  int
	searching   bool
	search      textinput.Model
	spinner     spinner.Model

	// Detail state
	detailViewport viewport.Model
	thumbCache     map[string]*thumbEntry

	// Log state
	logViewport viewport.Model
	logState    logState
}

// New creates a new Bubble Tea model. It subscribes to the service
// immediately so no state published before Init is missed.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "recipe name"
	search.CharLimit = 64

	m := Model{
		ctx:         ctx,
		svc:         opts.Service,
		thumbs:      opts.Thumbs,
		log:         log,
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		now:         time.Now,
		theme:       GetTheme(themeName),
		keys:        DefaultKeyMap(),
		currentView: ViewRecipes,
		listing:     listing{sort: ParseSortMode(opts.SortMode)},
		search:      search,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		thumbCache:  make(map[string]*thumbEntry),
		logState:    logState{minLevel: defaultLogLevel, follow: true},
	}
	if m.svc != nil {
		m.sub = m.svc.Subscribe()
		m.st = m.svc.Current()
	}
	m.refreshVisible()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		m.spinner.Tick,
		tickCmd(DefaultUIInterval),
	}
	if m.sub != nil {
		cmds = append(cmds, waitForState(m.sub))
	}
	// Load on start unless something is already underway or on screen.
	if m.svc != nil && m.st.Phase != state.Loading && !m.st.HasFeed() {
		cmds = append(cmds, fetchCmd(m.ctx, m.svc))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detailViewport = viewport.New(0, 0)
			m.logViewport = viewport.New(0, 0)
		}
		m.ready = true
		m.resize()
		return m, m.ensureThumb()

	case stateMsg:
		m.applyState(state.State(msg))
		return m, tea.Batch(waitForState(m.sub), m.ensureThumb())

	case thumbMsg:
		m.handleThumb(msg)
		return m, nil

	case logsMsg:
		m.handleLogs(msg)
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(DefaultUIInterval)}
		if m.currentView == ViewLogs && m.logState.follow {
			cmds = append(cmds, readLogsCmd(m.logPath))
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateDetailViewport()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.svc == nil {
			return m, nil
		}
		m.dropFailedThumbs()
		return m, fetchCmd(m.ctx, m.svc)

	case key.Matches(msg, m.keys.ViewLogs):
		if m.currentView == ViewLogs {
			m.currentView = ViewRecipes
			return m, nil
		}
		m.currentView = ViewLogs
		return m, readLogsCmd(m.logPath)

	case key.Matches(msg, m.keys.Escape):
		if m.currentView == ViewLogs {
			m.currentView = ViewRecipes
			return m, nil
		}
		if m.listing.query != "" {
			m.listing.query = ""
			m.search.SetValue("")
			m.refreshVisible()
			return m, m.ensureThumb()
		}
		return m, nil
	}

	switch m.currentView {
	case ViewRecipes:
		return m.handleListKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

// handleListKey processes keyboard input for the recipe list.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.listing.query)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.CycleCuisine):
		m.listing.cuisine = nextCuisine(m.listing.cuisine, sortedCuisines(m.st.Feed))
		m.refreshVisible()
		return m, m.ensureThumb()

	case key.Matches(msg, m.keys.CycleSort):
		m.listing.sort = m.listing.sort.Next()
		m.savePrefs()
		m.refreshVisible()
		return m, nil
	}

	n := len(m.visible)
	if n == 0 {
		return m, nil
	}
	page := maxInt(1, m.listHeight())

	switch {
	case key.Matches(msg, m.keys.Up):
		m.selectedRow--
	case key.Matches(msg, m.keys.Down):
		m.selectedRow++
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = n - 1
	case key.Matches(msg, m.keys.PageUp):
		m.selectedRow -= page
	case key.Matches(msg, m.keys.PageDown):
		m.selectedRow += page
	default:
		return m, nil
	}
	m.selectedRow = clampSelection(m.selectedRow, n)
	m.listOffset = scrollOffset(m.listOffset, m.selectedRow, m.listHeight())
	m.updateDetailViewport()
	return m, m.ensureThumb()
}

// handleSearchKey routes input to the search box while it has focus. The
// list filters as the user types; esc cancels and enter keeps the query.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.listing.query = ""
		m.refreshVisible()
		return m, m.ensureThumb()
	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.listing.query = m.search.Value()
	m.refreshVisible()
	return m, tea.Batch(cmd, m.ensureThumb())
}

// applyState takes a published state. The cuisine filter is dropped when the
// new feed no longer has that cuisine.
func (m *Model) applyState(st state.State) {
	m.st = st
	if m.listing.cuisine != "" {
		found := false
		for _, c := range st.Feed.Cuisines() {
			if strings.EqualFold(c, m.listing.cuisine) {
				found = true
				break
			}
		}
		if !found {
			m.listing.cuisine = ""
		}
	}
	m.refreshVisible()
}

// refreshVisible recomputes the filtered list, keeping the selected recipe
// selected when it is still visible.
func (m *Model) refreshVisible() {
	var selectedID string
	if r, ok := m.selected(); ok {
		selectedID = r.ID
	}
	m.visible = m.listing.apply(m.st.Feed)
	if selectedID != "" {
		for i, r := range m.visible {
			if r.ID == selectedID {
				m.selectedRow = i
				break
			}
		}
	}
	m.selectedRow = clampSelection(m.selectedRow, len(m.visible))
	m.listOffset = scrollOffset(m.listOffset, m.selectedRow, m.listHeight())
	m.updateDetailViewport()
}

// selected returns the highlighted recipe.
func (m Model) selected() (recipe.Recipe, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.visible) {
		return recipe.Recipe{}, false
	}
	return m.visible[m.selectedRow], true
}

func (m *Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, Sort: m.listing.sort.String()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn("ui: save prefs: %v", err)
	}
}

// close releases the state subscription.
func (m Model) close() {
	if m.sub != nil {
		m.sub.Close()
	}
}

// Messages

type tickMsg time.Time

type stateMsg state.State

type thumbMsg struct {
	url  string
	data []byte
	err  error
}

type logsMsg struct {
	lines []string
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForState blocks on the next published state. It yields nil once the
// subscription is closed, which ends the chain.
func waitForState(sub *state.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		st, ok := <-sub.C()
		if !ok {
			return nil
		}
		return stateMsg(st)
	}
}

// fetchCmd starts a load. Progress arrives through the subscription.
func fetchCmd(ctx context.Context, svc Fetcher) tea.Cmd {
	return func() tea.Msg {
		svc.Fetch(ctx)
		return nil
	}
}

func loadThumbCmd(ctx context.Context, loader ThumbnailLoader, url string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, ThumbFetchTimeout)
		defer cancel()
		data, err := loader.Load(ctx, url)
		return thumbMsg{url: url, data: data, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	if opts.Service == nil {
		return errors.New("ui requires a fetch service")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	m := New(opts)
	defer m.close()

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
