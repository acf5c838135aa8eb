// Package tui is an interactive terminal client for the analysis backend.
// It keeps a location (the landing-view query state) and lets a
// submission.Controller decide whether Enter refreshes it or navigates.
package tui

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Bahjat/page-insight-tool/web/internal/model"
	"github.com/Bahjat/page-insight-tool/web/internal/submission"
)

// loadTimeout bounds one backend load triggered by the client.
const loadTimeout = 60 * time.Second

// Loader fetches what a view shows. *insight.Service implements it.
type Loader interface {
	LoadAnalysis(ctx context.Context, targetURL string) model.AnalysisResult
	LoadHealth(ctx context.Context) model.HealthReport
}

type (
	// locationMsg moves the client to a new landing-view location.
	locationMsg struct{ url string }
	// analysisMsg delivers the result of load number seq.
	analysisMsg struct {
		seq    uint64
		result model.AnalysisResult
	}
	healthMsg  struct{ report model.HealthReport }
	changedMsg struct{ state submission.State }
)

// navigator adapts the model to submission.Navigator. Requested actions are
// queued as commands and handed to bubbletea at the end of Update.
type navigator struct{ m *Model }

func (n navigator) Refresh() {
	n.m.pending = append(n.m.pending, n.m.load(n.m.loc.URL))
}

func (n navigator) Navigate(target string) {
	u, err := url.Parse(target)
	if err != nil {
		return
	}
	next := u.Query().Get(submission.QueryParam)
	n.m.pending = append(n.m.pending, func() tea.Msg { return locationMsg{url: next} })
}

// Model is the bubbletea model of the client.
type Model struct {
	loader  Loader
	ctrl    *submission.Controller
	input   textinput.Model
	spinner spinner.Model
	styles  styles

	loc        submission.Query
	loadSeq    uint64
	result     *model.AnalysisResult
	loading    bool // the newest load has not delivered yet
	health     *model.HealthReport
	showStatus bool
	pending    []tea.Cmd
	send       func(tea.Msg)
}

// New returns a client positioned at initialURL (empty for the home view).
func New(loader Loader, initialURL string, opts ...submission.Option) *Model {
	ti := textinput.New()
	ti.Placeholder = "https://example.com"
	ti.Prompt = "URL › "
	ti.CharLimit = 2048
	ti.Width = 60
	ti.SetValue(initialURL)
	ti.Focus()

	m := &Model{
		loader:  loader,
		input:   ti,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles:  defaultStyles(),
		loc:     submission.Query{URL: initialURL},
	}

	opts = append(opts, submission.WithOnChange(m.onChange))
	m.ctrl = submission.New(navigator{m: m}, m.loc, opts...)
	return m
}

// onChange forwards controller changes that happen outside Update, such as
// recovery, so the screen is redrawn.
func (m *Model) onChange(s submission.State) {
	if m.send != nil {
		go m.send(changedMsg{state: s})
	}
}

// Close releases the controller's timer.
func (m *Model) Close() {
	m.ctrl.Close()
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.loc.URL != "" {
		cmds = append(cmds, m.load(m.loc.URL), m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.Close()
			return m, tea.Quit
		case "enter":
			if m.ctrl.Submit(m.input.Value()) != submission.NoAction {
				m.input.Blur()
				cmds = append(cmds, m.spinner.Tick)
			}
		case "ctrl+r":
			cmds = append(cmds, func() tea.Msg { return locationMsg{} })
		case "ctrl+s":
			m.showStatus = !m.showStatus
			if m.showStatus {
				cmds = append(cmds, m.loadHealth())
			}
		default:
			if m.ctrl.Phase() == submission.Idle {
				var cmd tea.Cmd
				m.input, cmd = m.input.Update(msg)
				m.ctrl.SetValue(m.input.Value())
				cmds = append(cmds, cmd)
			}
		}

	case locationMsg:
		m.loc = submission.Query{Revision: m.loc.Revision + 1, URL: msg.url}
		m.ctrl.Observe(m.loc)
		m.syncInput()
		// The previous result belongs to the old location.
		m.result = nil
		if msg.url == "" {
			m.loadSeq++
			m.loading = false
		} else {
			cmds = append(cmds, m.load(msg.url))
		}

	case analysisMsg:
		if msg.seq == m.loadSeq {
			m.result = &msg.result
			m.loading = false
		}

	case healthMsg:
		m.health = &msg.report

	case changedMsg:
		m.syncInput()

	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.pending...)
	m.pending = nil
	return m, tea.Batch(cmds...)
}

// syncInput mirrors the controller's form value and lock into the input.
func (m *Model) syncInput() {
	state := m.ctrl.State()
	if m.input.Value() != state.Value {
		m.input.SetValue(state.Value)
	}
	if state.Phase == submission.Idle && !m.input.Focused() {
		m.input.Focus()
	}
}

// busy reports whether a submission or a load is outstanding.
func (m *Model) busy() bool {
	return m.loading || m.ctrl.Phase() == submission.Submitting
}

// load fetches the analysis of target. Only the most recent load is shown.
func (m *Model) load(target string) tea.Cmd {
	m.loadSeq++
	m.loading = true
	seq := m.loadSeq
	loader := m.loader
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return analysisMsg{seq: seq, result: loader.LoadAnalysis(ctx, target)}
	}
}

func (m *Model) loadHealth() tea.Cmd {
	loader := m.loader
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return healthMsg{report: loader.LoadHealth(ctx)}
	}
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Page Insight Tool"))
	b.WriteString("\n")
	b.WriteString(m.styles.subtle.Render("location: " + m.location()))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.busy() {
		b.WriteString(m.spinner.View() + " Analyzing...")
	} else {
		b.WriteString(m.styles.subtle.Render("enter: analyze · ctrl+r: home · ctrl+s: status · esc: quit"))
	}
	b.WriteString("\n\n")

	if m.showStatus {
		b.WriteString(m.statusView())
	} else if m.result != nil {
		b.WriteString(m.resultView(*m.result))
	}
	return b.String()
}

func (m *Model) location() string {
	if m.loc.URL == "" {
		return "/"
	}
	return submission.Target(m.loc.URL)
}

func (m *Model) row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, m.styles.label.Render(label), m.styles.value.Render(value)) + "\n"
}

func (m *Model) resultView(r model.AnalysisResult) string {
	if r.Failed() {
		return m.styles.errorBox.Render("Failed to analyze the URL\n" + r.Error)
	}

	d := r.Data
	var b strings.Builder
	b.WriteString(m.row("HTML version", d.HTMLVersion))
	b.WriteString(m.row("Page title", d.PageTitle))
	for _, h := range d.HeadingRows() {
		b.WriteString(m.row(strings.ToUpper(h.Level), fmt.Sprint(h.Count)))
	}
	b.WriteString(m.row("Internal links", fmt.Sprint(d.Links.Internal)))
	b.WriteString(m.row("External links", fmt.Sprint(d.Links.External)))
	b.WriteString(m.row("Inaccessible", fmt.Sprint(d.Links.Inaccessible)))
	login := "No"
	if d.HasLoginForm {
		login = "Yes"
	}
	b.WriteString(m.row("Login form", login))
	b.WriteString(m.row("Analysis time", fmt.Sprintf("%d ms", d.AnalysisTimeMs)))
	return m.styles.panel.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) statusView() string {
	if m.health == nil {
		return m.spinner.View() + " Checking backend..."
	}

	h := m.health
	badge := m.styles.unknown
	switch h.Status.State() {
	case model.StatusHealthy:
		badge = m.styles.healthy
	case model.StatusUnhealthy:
		badge = m.styles.unhealth
	}

	var b strings.Builder
	b.WriteString(badge.Render(h.Status.State().String()) + "\n")
	b.WriteString(m.row("Version", h.Status.Version))
	b.WriteString(m.row("Build date", h.Status.BuildDate))
	b.WriteString(m.row("Git commit", h.Status.GitCommit))
	b.WriteString(m.row("Uptime", h.Status.Uptime))
	b.WriteString(m.row("Server time", h.Status.Timestamp))
	b.WriteString(m.row("Rendered at", h.Timestamp.UTC().Format(time.RFC3339)))
	out := m.styles.panel.Render(strings.TrimRight(b.String(), "\n"))
	if h.Fallback {
		out += "\n" + m.styles.warnBox.Render("Using fallback data due to: "+h.Error)
	}
	return out
}

// Run starts the client and blocks until the user quits or ctx is done.
func Run(ctx context.Context, loader Loader, initialURL string, opts ...submission.Option) error {
	m := New(loader, initialURL, opts...)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	m.send = p.Send
	_, err := p.Run()
	return err
}
