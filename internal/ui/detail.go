package ui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/galley/internal/recipe"
	"github.com/five82/galley/internal/thumbs"
)

// thumbEntry tracks one photo for the session. art is cached for the box
// size it was rendered at.
type thumbEntry struct {
	pending bool
	data    []byte
	err     error

	art        string
	cols, rows int
}

const detailLabelWidth = 9

// thumbBox returns the preview size that fits the detail pane.
func (m Model) thumbBox() (cols, rows int) {
	cols = min(ThumbMaxCols, m.detailViewport.Width)
	rows = min(ThumbMaxRows, m.detailViewport.Height/2)
	return cols, rows
}

// ensureThumb starts loading the selected recipe's photo if it has not been
// requested yet this session.
func (m *Model) ensureThumb() tea.Cmd {
	if m.thumbs == nil || !m.ready {
		return nil
	}
	r, ok := m.selected()
	if !ok {
		return nil
	}
	url := r.ThumbnailURL()
	if url == "" {
		return nil
	}
	if _, seen := m.thumbCache[url]; seen {
		return nil
	}
	m.thumbCache[url] = &thumbEntry{pending: true}
	return loadThumbCmd(m.ctx, m.thumbs, url)
}

func (m *Model) handleThumb(msg thumbMsg) {
	entry := m.thumbCache[msg.url]
	if entry == nil {
		entry = &thumbEntry{}
		m.thumbCache[msg.url] = entry
	}
	entry.pending = false
	entry.data = msg.data
	entry.err = msg.err
	entry.art = ""
	if msg.err != nil {
		m.log.Debug("ui: thumbnail %s: %v", msg.url, msg.err)
	}
	m.updateDetailViewport()
}

// dropFailedThumbs lets failed photos be retried on the next selection.
func (m *Model) dropFailedThumbs() {
	for url, entry := range m.thumbCache {
		if entry.err != nil {
			delete(m.thumbCache, url)
		}
	}
}

// updateDetailViewport re-renders the detail pane for the current selection.
func (m *Model) updateDetailViewport() {
	if !m.ready {
		return
	}
	r, ok := m.selected()
	if !ok {
		m.detailViewport.SetContent("")
		return
	}
	m.detailViewport.SetContent(m.renderDetail(r))
	m.detailViewport.GotoTop()
}

func (m *Model) renderDetail(r recipe.Recipe) string {
	styles := m.theme.Styles()
	width := m.detailViewport.Width

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(truncate(r.Name, width)))
	b.WriteString("\n")
	b.WriteString(styles.AccentText.Render(truncate(r.Cuisine, width)))
	b.WriteString("\n\n")
	b.WriteString(m.detailField("Source", r.Source(), width))
	b.WriteString(m.detailField("YouTube", r.YouTube(), width))
	b.WriteString(m.detailField("ID", r.ID, width))
	b.WriteString("\n")
	b.WriteString(m.renderThumb(r))
	return b.String()
}

func (m Model) detailField(label, value string, width int) string {
	styles := m.theme.Styles()
	line := styles.MutedText.Render(padRight(label, detailLabelWidth))
	if strings.TrimSpace(value) == "" {
		line += styles.FaintText.Render("none")
	} else {
		line += styles.Text.Render(truncate(value, width-detailLabelWidth))
	}
	return line + "\n"
}

func (m *Model) renderThumb(r recipe.Recipe) string {
	styles := m.theme.Styles()
	if m.thumbs == nil {
		return styles.FaintText.Render("Photo previews are off")
	}
	url := r.ThumbnailURL()
	if url == "" {
		return styles.FaintText.Render("No photo")
	}

	entry := m.thumbCache[url]
	switch {
	case entry == nil || entry.pending:
		return styles.FaintText.Render("Loading photo…")
	case entry.err != nil:
		return styles.WarningText.Render("Photo unavailable")
	}

	cols, rows := m.thumbBox()
	if entry.art == "" || entry.cols != cols || entry.rows != rows {
		art, err := thumbs.Render(entry.data, cols, rows)
		if err != nil {
			if errors.Is(err, thumbs.ErrNoRoom) {
				return ""
			}
			m.log.Debug("ui: render thumbnail %s: %v", url, err)
			entry.err = err
			return styles.WarningText.Render("Photo unavailable")
		}
		entry.art, entry.cols, entry.rows = art, cols, rows
	}
	return entry.art
}
