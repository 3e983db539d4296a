package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/galley/internal/state"
)

// chromeHeight is the header, command bar and status line.
const chromeHeight = 3

// paneLayout holds the outer sizes of the list and detail panes.
type paneLayout struct {
	listW, listH     int
	detailW, detailH int
	stacked          bool
}

func (m Model) contentHeight() int {
	return maxInt(0, m.height-chromeHeight)
}

func (m Model) layout() paneLayout {
	h := m.contentHeight()
	if m.width < LayoutCompactWidth {
		listH := h / 2
		return paneLayout{
			listW: m.width, listH: listH,
			detailW: m.width, detailH: h - listH,
			stacked: true,
		}
	}
	listW := maxInt(LayoutListMinWidth, m.width*2/5)
	return paneLayout{
		listW: listW, listH: h,
		detailW: m.width - listW, detailH: h,
	}
}

// listHeight is the number of recipe rows that fit inside the list border.
func (m Model) listHeight() int {
	return maxInt(0, m.layout().listH-2)
}

// resize applies the window size to the viewports.
func (m *Model) resize() {
	l := m.layout()
	m.detailViewport.Width = maxInt(0, l.detailW-2)
	m.detailViewport.Height = maxInt(0, l.detailH-2)
	m.logViewport.Width = maxInt(0, m.width-2)
	m.logViewport.Height = maxInt(0, m.contentHeight()-3)
	m.listOffset = scrollOffset(m.listOffset, m.selectedRow, m.listHeight())
	m.updateDetailViewport()
	m.updateLogViewport()
}

// renderMain renders the header, the active view and the status line.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	if m.currentView == ViewLogs {
		b.WriteString(m.renderLogs())
	} else {
		b.WriteString(m.renderRecipes())
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	return b.String()
}

func (m Model) renderRecipes() string {
	if !m.st.HasFeed() {
		return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, m.renderEmptyState())
	}

	styles := m.theme.Styles()
	l := m.layout()
	list := m.renderList(l.listW, l.listH)
	detail := styles.Pane.
		Width(maxInt(1, l.detailW-2)).
		Height(maxInt(0, l.detailH-2)).
		Render(m.detailViewport.View())
	if l.stacked {
		return lipgloss.JoinVertical(lipgloss.Left, list, detail)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
}

// renderEmptyState covers the phases where there is no list to show.
func (m Model) renderEmptyState() string {
	styles := m.theme.Styles()
	switch m.st.Phase {
	case state.Loading:
		return m.spinner.View() + " " + styles.Text.Render("Loading recipes…")
	case state.Failed:
		return styles.DangerText.Render(m.st.Err) + "\n\n" + styles.FaintText.Render("Press r to retry")
	}
	return styles.FaintText.Render("Press r to load recipes")
}

func (m Model) renderList(width, height int) string {
	styles := m.theme.Styles()
	innerW := maxInt(1, width-2)
	innerH := maxInt(0, height-2)

	var lines []string
	if len(m.visible) == 0 {
		msg := "No recipes"
		if m.listing.query != "" || m.listing.cuisine != "" {
			msg = "No recipes match"
		}
		lines = append(lines, styles.FaintText.Render(msg))
	}

	cuisineW := min(14, innerW/3)
	nameW := maxInt(1, innerW-cuisineW-1)
	end := min(len(m.visible), m.listOffset+innerH)
	for i := m.listOffset; i < end; i++ {
		r := m.visible[i]
		name := padRight(truncate(r.Name, nameW), nameW)
		cuisine := padRight(truncate(r.Cuisine, cuisineW), cuisineW)
		if i == m.selectedRow {
			lines = append(lines, styles.Selected.Render(name+" "+cuisine))
			continue
		}
		lines = append(lines, styles.Text.Render(name)+" "+styles.MutedText.Render(cuisine))
	}

	return styles.PaneFocused.
		Width(innerW).
		Height(innerH).
		Render(strings.Join(lines, "\n"))
}
