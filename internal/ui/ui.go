package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plsync/internal/tasks"
)

const (
	minListWidth  = 40
	minListHeight = 10
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SyncView ViewState = iota
	ResultView
)

// Syncer runs one sync. Satisfied by [tasks.Engine].
type Syncer interface {
	Run(ctx context.Context, progress chan<- tasks.ProgressUpdate, opts tasks.SyncOpts) (*tasks.SyncResult, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	cancel       context.CancelFunc
	view         ViewState
	engine       Syncer
	opts         tasks.SyncOpts
	width        int
	height       int
	spinner      spinner.Model
	itemList     list.Model
	progressChan chan tasks.ProgressUpdate
	outcome      chan syncOutcome
	progress     tasks.ProgressUpdate
	result       *tasks.SyncResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model that syncs opts with engine.
func NewModel(ctx context.Context, engine Syncer, opts tasks.SyncOpts) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.title.UnsetMarginBottom()

	return &Model{
		ctx:     ctx,
		view:    SyncView,
		engine:  engine,
		opts:    opts,
		spinner: s,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Result returns the outcome of the most recent sync once the program has exited.
func (m *Model) Result() (*tasks.SyncResult, error) {
	return m.result, m.err
}

// Init starts the first sync.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startSync())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view == ResultView && m.result != nil {
			m.itemList.SetSize(m.listSize())
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case spinner.TickMsg:
		if m.view != SyncView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.progress = msg.data.(tasks.ProgressUpdate)
			return m, m.waitForProgress()

		case MsgSyncComplete:
			outcome := msg.data.(syncOutcome)
			m.result = outcome.result
			m.err = outcome.err
			m.view = ResultView
			m.progressChan = nil
			m.outcome = nil
			if m.result != nil {
				w, h := m.listSize()
				m.itemList = list.New(itemEntries(m.result.Items), list.NewDefaultDelegate(), w, h)
				m.itemList.Title = m.listTitle()
				m.itemList.SetShowHelp(false)
			}
			return m, nil
		}
	}

	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	case m.view == ResultView && key.Matches(msg, m.keys.rerun):
		m.view = SyncView
		m.result = nil
		m.err = nil
		m.progress = tasks.ProgressUpdate{}
		return m, tea.Batch(m.spinner.Tick, m.startSync())
	}

	if m.view == ResultView && m.result != nil {
		var cmd tea.Cmd
		m.itemList, cmd = m.itemList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) startSync() tea.Cmd {
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel

	progress := make(chan tasks.ProgressUpdate, 50)
	outcome := make(chan syncOutcome, 1)
	m.progressChan = progress
	m.outcome = outcome

	go func() {
		defer cancel()
		result, err := m.engine.Run(ctx, progress, m.opts)
		outcome <- syncOutcome{result: result, err: err}
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, outcome := m.progressChan, m.outcome
	return func() tea.Msg {
		if progress == nil {
			return syncCompleteMsg(nil, fmt.Errorf("sync was not started"))
		}

		update, ok := <-progress
		if !ok {
			o := <-outcome
			return syncCompleteMsg(o.result, o.err)
		}
		return progressUpdateMsg(update)
	}
}

// listSize fits the result list below the summary, never smaller than a usable minimum.
func (m *Model) listSize() (int, int) {
	return max(m.width-4, minListWidth), max(m.height-12, minListHeight)
}

func (m *Model) listTitle() string {
	noun := "items"
	if m.result.NewCount == 1 {
		noun = "item"
	}
	if m.result.DryRun {
		return fmt.Sprintf("%d new %s (not written)", m.result.NewCount, noun)
	}
	return fmt.Sprintf("%d %s appended", m.result.NewCount, noun)
}

// phaseLabel describes the phase an update belongs to.
func phaseLabel(u tasks.ProgressUpdate) string {
	switch u.Phase {
	case tasks.LoadExisting:
		return "Reading output log"
	case tasks.ListPlaylist:
		return fmt.Sprintf("Listing playlist (%d/%d)", u.Step, u.Total)
	case tasks.FetchTags:
		return "Fetching tags"
	case tasks.WriteLog:
		return "Writing output log"
	case tasks.Complete:
		return "Done"
	default:
		return "Starting"
	}
}

func (m *Model) renderSync() string {
	title := styles.title.Render(fmt.Sprintf("Syncing %s", m.opts.PlaylistName))
	phase := fmt.Sprintf("%s %s", m.spinner.View(), phaseLabel(m.progress))

	var msg string
	if m.progress.Message != "" {
		msg = styles.help.Render(m.progress.Message)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, phase, msg, helpView)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.rerun, m.keys.quit})

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Sync failed: %v", m.err)), helpView)
	}
	if m.result == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	var b strings.Builder
	b.WriteString(styles.ok.Render("✓ Sync Complete"))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Playlist", fmt.Sprintf("%s (%s)", m.result.PlaylistName, m.result.PlaylistID)},
		{"Output", m.result.OutputPath},
		{"Listed", fmt.Sprintf("%d", m.result.ListedCount)},
		{"Existing", fmt.Sprintf("%d", m.result.ExistingCount)},
		{"New", fmt.Sprintf("%d", m.result.NewCount)},
	}
	for _, r := range rows {
		b.WriteString(styles.label.Render(r[0]))
		b.WriteString(r[1])
		b.WriteString("\n")
	}

	if m.result.DryRun {
		b.WriteString("\n")
		b.WriteString(styles.warn.Render("Dry run: nothing was written"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.result.NewCount == 0 {
		b.WriteString(styles.help.Render("No new items."))
	} else {
		b.WriteString(m.itemList.View())
	}

	return fmt.Sprintf("%s\n\n%s", b.String(), helpView)
}
