package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fd1az/arbscan/pkg/ui/components"
)

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"
	PhaseDashboard Phase = "dashboard"
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	keys KeyMap
	help help.Model

	board     *components.OpportunitiesComponent
	breakdown *components.BreakdownComponent
	stats     *components.StatsComponent
	status    *components.StatusComponent

	phase        Phase
	welcome      time.Duration
	welcomeStart time.Time
	onStart      func()
	started      bool

	width       int
	height      int
	quitting    bool
	paused      bool
	held        int // opportunities received while paused
	showDetails bool
	showLogs    bool
	done        bool
	doneErr     error
	lastUpdate  time.Time
	errors      []ErrorEntry // last 3
	logs        []string     // last 5
}

// Option configures a Model.
type Option func(*Model)

// WithOnStart sets the callback fired once the welcome screen ends. The
// scanner is started from it so no tick is reported before the dashboard shows.
func WithOnStart(fn func()) Option {
	return func(m *Model) { m.onStart = fn }
}

// WithWelcome overrides the welcome duration; zero skips the screen.
func WithWelcome(d time.Duration) Option {
	return func(m *Model) { m.welcome = d }
}

// WithMaxRows bounds how many routes the board keeps.
func WithMaxRows(n int) Option {
	return func(m *Model) { m.board = components.NewOpportunitiesComponent(n) }
}

// New creates a new TUI model.
func New(opts ...Option) Model {
	m := Model{
		keys:         DefaultKeyMap(),
		help:         help.New(),
		board:        components.NewOpportunitiesComponent(50),
		breakdown:    components.NewBreakdownComponent(),
		stats:        components.NewStatsComponent(),
		status:       components.NewStatusComponent(),
		phase:        PhaseWelcome,
		welcome:      WelcomeDuration,
		welcomeStart: time.Now(),
		showDetails:  true,
		errors:       make([]ErrorEntry, 0, 3),
		logs:         make([]string, 0, 5),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	if m.welcome <= 0 {
		return func() tea.Msg { return beginMsg{} }
	}
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// begin leaves the welcome screen and fires onStart once.
func (m *Model) begin() {
	m.phase = PhaseDashboard
	if m.started {
		return
	}
	m.started = true
	if m.onStart != nil {
		// Update must not block
		go m.onStart()
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.phase == PhaseWelcome {
			m.begin()
			return m, tickCmd()
		}
		switch {
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			if !m.paused {
				m.held = 0
			}
		case key.Matches(msg, m.keys.Clear):
			m.board.Clear()
			m.syncBreakdown()
		case key.Matches(msg, m.keys.Up):
			m.board.ScrollUp()
			m.syncBreakdown()
		case key.Matches(msg, m.keys.Down):
			m.board.ScrollDown()
			m.syncBreakdown()
		case key.Matches(msg, m.keys.Details):
			m.showDetails = !m.showDetails
		case key.Matches(msg, m.keys.Logs):
			m.showLogs = !m.showLogs
		case key.Matches(msg, m.keys.ClearErrors):
			m.errors = m.errors[:0]
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case beginMsg:
		m.begin()
		return m, tickCmd()

	case TickMsg:
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= m.welcome {
			m.begin()
		}
		return m, tickCmd()

	case OpportunityMsg:
		if msg.Opportunity == nil {
			return m, nil
		}
		if m.paused {
			m.held++
			return m, nil
		}
		m.board.Upsert(rowFromOpportunity(msg.Opportunity))
		m.syncBreakdown()
		m.lastUpdate = time.Now()

	case StatsMsg:
		s := msg.Stats
		m.stats.Update(components.Stats{
			Ticks:     s.Ticks,
			Evaluated: s.Evaluated,
			Failed:    s.Failed,
			Skipped:   s.Skipped,
			Signals:   s.Signals,
		})

	case StatusMsg:
		m.status.Update(components.ChannelStatus{Name: msg.Name, State: msg.State, Active: msg.Active})

	case ErrorMsg:
		if msg.Error != nil {
			m.addError(msg.Error.Error())
		}

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)

	case DoneMsg:
		m.done = true
		m.doneErr = msg.Err
		if msg.Err != nil {
			m.addError(msg.Err.Error())
		}
	}

	return m, nil
}

func (m *Model) syncBreakdown() {
	row, ok := m.board.Selected()
	if !ok {
		m.breakdown.Set("", nil, "")
		return
	}
	title := row.Route + "  " + row.Provider
	m.breakdown.Set(title, row.Breakdown, row.Error)
}

func (m *Model) addError(msg string) {
	m.errors = append(m.errors, ErrorEntry{Message: msg, Timestamp: time.Now()})
	if len(m.errors) > 3 {
		m.errors = m.errors[len(m.errors)-3:]
	}
}

// addLog adds a log message and returns the updated slice (keeps last 5).
func addLog(logs []string, level, message string) []string {
	line := fmt.Sprintf("[%s] %s: %s", time.Now().Format("15:04:05"), level, message)
	logs = append(logs, line)
	if len(logs) > 5 {
		logs = logs[len(logs)-5:]
	}
	return logs
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}
	if m.phase == PhaseWelcome {
		return m.renderWelcomeScreen()
	}

	var b strings.Builder

	b.WriteString(BannerStyle.Render(" arbscan · CEX/DEX route scanner "))
	b.WriteString("\n\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.stats.View())
	b.WriteString("\n\n")

	visible := 15
	if m.height > 0 {
		visible = max(5, m.height-20)
	}
	board := m.board.View(visible)

	width := m.width
	if width <= 0 {
		width = 120
	}
	switch {
	case !m.showDetails:
		b.WriteString(PanelStyle.Width(width - 4).Render(board))
	case width > 140:
		left := PanelStyle.Width(width*2/3 - 2).Render(board)
		right := PanelStyle.Width(width/3 - 2).Render(m.breakdown.View())
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	default:
		b.WriteString(PanelStyle.Width(width - 4).Render(board))
		b.WriteString("\n")
		b.WriteString(PanelStyle.Width(width - 4).Render(m.breakdown.View()))
	}
	b.WriteString("\n\n")

	if len(m.errors) > 0 {
		b.WriteString(ErrorHeader.Render("ERRORS"))
		b.WriteString(Dim.Render(" (e: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(ErrorLine.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(Dim.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.showLogs && len(m.logs) > 0 {
		b.WriteString(SectionStyle.Render("LOGS"))
		b.WriteString("\n")
		for _, line := range m.logs {
			b.WriteString(Dim.Render("  " + line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.paused {
		b.WriteString(PausedStyle.Render(fmt.Sprintf("⏸ PAUSED (%d held)", m.held)))
		b.WriteString(" • ")
	}
	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	signalStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorSignal)
	liveStyle := lipgloss.NewStyle().Foreground(ColorProfit)

	dots := strings.Repeat(".", int(time.Since(m.welcomeStart).Milliseconds()/300)%4)

	var sb strings.Builder
	sb.WriteString("\n\n\n\n")
	sb.WriteString(titleStyle.Render("              A R B S C A N"))
	sb.WriteString("\n\n")
	sb.WriteString(Dim.Render("      CEX ⇄ DEX route profitability scanner"))
	sb.WriteString("\n\n\n")
	sb.WriteString(signalStyle.Render("          fees in, signals out"))
	sb.WriteString("\n\n\n")
	sb.WriteString(liveStyle.Render("              Loading feed" + dots))
	sb.WriteString("\n\n")
	sb.WriteString(Dim.Render("       Press any key to skip, or wait..."))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	switch {
	case m.done && m.doneErr != nil:
		parts = append(parts, FeedFailed.Render("✗ Feed failed"))
	case m.done:
		parts = append(parts, FeedLive.Render("✓ Feed complete"))
	case time.Since(m.lastUpdate) < 500*time.Millisecond:
		spinners := []string{"⟳", "◐", "◓", "◑", "◒"}
		idx := int(time.Now().UnixMilli()/100) % len(spinners)
		parts = append(parts, FeedLive.Render(spinners[idx]+" Scanning"))
	default:
		parts = append(parts, FeedIdle.Render("… Waiting"))
	}

	if st := m.status.View(); st != "" {
		parts = append(parts, st)
	}

	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		parts = append(parts, Dim.Render(fmt.Sprintf("Updated: %s ago", ago)))
	}

	return strings.Join(parts, "  │  ")
}
