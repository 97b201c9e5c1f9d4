package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotdash/internal/dashboard"
	"github.com/desertthunder/spotdash/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	FeaturesView
	RecommendationsView
	ErrorView
)

// BuildFunc produces a fresh dashboard view. [dashboard.Builder.Build] satisfies it.
type BuildFunc func(ctx context.Context, progress chan<- dashboard.ProgressUpdate) (*dashboard.View, error)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	build        BuildFunc
	state        ViewState
	lastTab      ViewState
	width        int
	height       int
	view         *dashboard.View
	features     table.Model
	recs         table.Model
	spinner      spinner.Model
	progressChan chan dashboard.ProgressUpdate
	doneChan     chan Msg
	progress     dashboard.ProgressUpdate
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model that renders views produced by build.
func NewModel(ctx context.Context, build BuildFunc) *Model {
	return &Model{
		ctx:      ctx,
		build:    build,
		state:    LoadingView,
		lastTab:  FeaturesView,
		features: table.New(table.WithFocused(true)),
		recs:     table.New(table.WithFocused(true)),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.ok)),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init starts the first build.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startBuild())
}

// Err returns the error of the last build, if any.
func (m *Model) Err() error {
	return m.err
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case spinner.TickMsg:
		if m.state != LoadingView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.progress = msg.data.(dashboard.ProgressUpdate)
			return m, m.waitForProgress()
		case MsgViewBuilt:
			built := msg.data.(viewBuilt)
			m.progressChan, m.doneChan = nil, nil
			if built.err != nil {
				m.err = built.err
				m.state = ErrorView
				return m, nil
			}
			m.err = nil
			m.setView(built.view)
			m.state = m.lastTab
			return m, nil
		}
	}

	return m.updateTables(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.state {
	case LoadingView:
		return m.renderLoading()
	case ErrorView:
		return m.renderError()
	case FeaturesView, RecommendationsView:
		return m.renderDashboard()
	default:
		return ""
	}
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		if m.state == LoadingView {
			return m, nil
		}
		m.state = LoadingView
		m.progress = dashboard.ProgressUpdate{}
		return m, tea.Batch(m.spinner.Tick, m.startBuild())
	case key.Matches(msg, m.keys.tab):
		switch m.state {
		case FeaturesView:
			m.state = RecommendationsView
		case RecommendationsView:
			m.state = FeaturesView
		}
		if m.state == FeaturesView || m.state == RecommendationsView {
			m.lastTab = m.state
		}
		return m, nil
	}
	return m.updateTables(msg)
}

func (m *Model) updateTables(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case FeaturesView:
		m.features, cmd = m.features.Update(msg)
	case RecommendationsView:
		m.recs, cmd = m.recs.Update(msg)
	}
	return m, cmd
}

// startBuild runs build in the background; progress and the result arrive as messages.
func (m *Model) startBuild() tea.Cmd {
	m.progressChan = make(chan dashboard.ProgressUpdate, 8)
	m.doneChan = make(chan Msg, 1)

	progress, done := m.progressChan, m.doneChan
	go func() {
		view, err := m.build(m.ctx, progress)
		close(progress)
		done <- viewBuiltMsg(view, err)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	if progress == nil {
		return nil
	}
	return func() tea.Msg {
		if update, ok := <-progress; ok {
			return progressUpdateMsg(update)
		}
		return <-done
	}
}

func (m *Model) setView(view *dashboard.View) {
	m.view = view

	nameWidth := 30
	featureCols := []table.Column{{Title: "#", Width: 3}, {Title: "Track", Width: nameWidth}}
	for _, c := range view.Features.Columns {
		featureCols = append(featureCols, table.Column{Title: c, Width: max(len(c), 8)})
	}
	featureRows := make([]table.Row, 0, len(view.Features.Rows))
	for i, row := range view.Features.Rows {
		r := table.Row{fmt.Sprint(i + 1), truncate(row.TrackName, nameWidth)}
		for _, v := range row.Values {
			if row.Missing {
				r = append(r, "n/a")
			} else {
				r = append(r, formatValue(v))
			}
		}
		featureRows = append(featureRows, r)
	}
	m.features.SetRows(nil)
	m.features.SetColumns(featureCols)
	m.features.SetRows(featureRows)
	m.features.GotoTop()

	recCols := []table.Column{
		{Title: "Name", Width: nameWidth},
		{Title: "Artist", Width: 20},
		{Title: "Album", Width: 24},
		{Title: "URL", Width: 56},
	}
	recRows := make([]table.Row, 0, len(view.Recommendations.Rows))
	for _, r := range view.Recommendations.Rows {
		recRows = append(recRows, table.Row{truncate(r.Name, nameWidth), truncate(r.Artist, 20), truncate(r.Album, 24), r.URL})
	}
	m.recs.SetRows(nil)
	m.recs.SetColumns(recCols)
	m.recs.SetRows(recRows)
	m.recs.GotoTop()

	m.resize()
}

func (m *Model) resize() {
	if m.height == 0 {
		return
	}
	h := max(m.height-12, 3)
	m.features.SetHeight(h)
	m.recs.SetHeight(h)
	m.features.SetWidth(m.width - 2)
	m.recs.SetWidth(m.width - 2)
}

func (m *Model) renderLoading() string {
	message := "Starting..."
	if m.progress.Message != "" {
		message = fmt.Sprintf("[%d/%d] %s", m.progress.Step, m.progress.Total, m.progress.Message)
	}
	return fmt.Sprintf("%s\n%s %s\n\n%s",
		styles.title.Render(dashboard.Title), m.spinner.View(), message,
		m.help.ShortHelpView([]key.Binding{m.keys.quit}))
}

func (m *Model) renderError() string {
	hint := "Press r to retry, q to quit"
	if shared.IsAuthError(m.err) {
		hint = "Run `spotdash auth` to authorize again.\n" + hint
	}
	return fmt.Sprintf("%s\n\n%s\n\n%s",
		styles.err.Render(fmt.Sprintf("Error: %v", m.err)), styles.warn.Render(hint),
		m.help.ShortHelpView([]key.Binding{m.keys.refresh, m.keys.quit}))
}

func (m *Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(styles.title.Render(m.view.Title))
	b.WriteString("\n")
	b.WriteString(m.view.Description)
	b.WriteString(styles.help.Render(fmt.Sprintf("  (%s)", m.view.TimeRange)))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.state == FeaturesView {
		if m.view.Empty() {
			b.WriteString(styles.warn.Render("No top tracks for this time range."))
		} else {
			b.WriteString(m.features.View())
			b.WriteString("\n")
			b.WriteString(m.renderSummaryLine())
		}
	} else {
		if len(m.view.Recommendations.Rows) == 0 {
			b.WriteString(styles.warn.Render("No recommendations."))
		} else {
			b.WriteString(m.recs.View())
		}
	}

	b.WriteString("\n\n")
	b.WriteString(styles.ok.Render(m.view.Footer))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderTabs() string {
	tabs := []struct {
		state ViewState
		label string
	}{
		{FeaturesView, m.view.Subheadings.Features},
		{RecommendationsView, m.view.Subheadings.Recommendations},
	}

	rendered := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.state == m.state {
			rendered = append(rendered, styles.active.Render(t.label))
		} else {
			rendered = append(rendered, styles.tab.Render(t.label))
		}
	}
	return strings.Join(rendered, " ")
}

func (m *Model) renderSummaryLine() string {
	parts := make([]string, 0, len(m.view.Summary))
	for _, s := range m.view.Summary {
		parts = append(parts, fmt.Sprintf("%s μ=%s σ=%s", s.Feature, formatValue(s.Mean), formatValue(s.StdDev)))
	}
	return styles.help.Render(strings.Join(parts, " • "))
}
