package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/galley/internal/logtail"
)

const defaultLogLevel = logtail.LevelInfo

var logLevels = []logtail.Level{
	logtail.LevelDebug,
	logtail.LevelInfo,
	logtail.LevelWarn,
	logtail.LevelError,
}

var errNoLogFile = errors.New("logging to a file is disabled")

// logState holds the tail of the log file and the view's filter.
type logState struct {
	lines    []string
	err      error
	minLevel logtail.Level
	follow   bool
}

func nextLogLevel(current logtail.Level) logtail.Level {
	for i, l := range logLevels {
		if l == current {
			return logLevels[(i+1)%len(logLevels)]
		}
	}
	return defaultLogLevel
}

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if strings.TrimSpace(path) == "" {
			return logsMsg{err: errNoLogFile}
		}
		lines, err := logtail.Read(path, LogBufferLimit)
		return logsMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogs(msg logsMsg) {
	m.logState.lines = msg.lines
	m.logState.err = msg.err
	m.updateLogViewport()
}

// updateLogViewport re-renders the filtered log lines. The view stays pinned
// to the bottom while following.
func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	styles := m.theme.Styles()
	atBottom := m.logViewport.AtBottom()

	entries := logtail.Filter(m.logState.lines, m.logState.minLevel, "")
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, m.formatLogEntry(e))
	}
	if len(lines) == 0 {
		lines = append(lines, styles.FaintText.Render("No log lines yet"))
	}

	m.logViewport.SetContent(strings.Join(lines, "\n"))
	if m.logState.follow || atBottom {
		m.logViewport.GotoBottom()
	}
}

func (m Model) formatLogEntry(e logtail.Entry) string {
	styles := m.theme.Styles()
	if e.Level == logtail.LevelNone {
		return styles.Text.Render(e.Raw)
	}

	levelStyle := styles.InfoText
	switch e.Level {
	case logtail.LevelDebug:
		levelStyle = styles.FaintText
	case logtail.LevelWarn:
		levelStyle = styles.WarningText
	case logtail.LevelError:
		levelStyle = styles.DangerText
	}

	var b strings.Builder
	if e.Timestamp != "" {
		b.WriteString(styles.FaintText.Render(e.Timestamp))
		b.WriteString(" ")
	}
	b.WriteString(levelStyle.Render(string(e.Level)))
	b.WriteString(" ")
	b.WriteString(styles.Text.Render(e.Message))
	return b.String()
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.CycleLevel):
		m.logState.minLevel = nextLogLevel(m.logState.minLevel)
		m.updateLogViewport()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logState.follow = false
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logState.follow = true
		return m, readLogsCmd(m.logPath)
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	m.logState.follow = m.logViewport.AtBottom()
	return m, cmd
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	height := m.contentHeight()

	title := styles.Text.Bold(true).Render("Logs")
	meta := fmt.Sprintf("  level ≥ %s", m.logState.minLevel)
	if m.logState.follow {
		meta += "  following"
	} else {
		meta += "  paused"
	}
	header := title + styles.FaintText.Render(meta)

	var body string
	switch {
	case errors.Is(m.logState.err, errNoLogFile):
		body = styles.FaintText.Render("Logging to a file is disabled")
	case m.logState.err != nil:
		body = styles.DangerText.Render("Unable to read log: " + m.logState.err.Error())
	default:
		body = m.logViewport.View()
	}

	pane := styles.PaneFocused.
		Width(maxInt(1, m.width-2)).
		Height(maxInt(0, height-3)).
		Render(body)
	return header + "\n" + pane
}
