package ui

import (
	"fmt"
	"strings"

	"github.com/five82/galley/internal/state"
)

// renderHeader renders the top status line.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	phase := m.st.Phase
	if phase == "" {
		phase = state.Idle
	}
	badge := styles.StatusStyle(string(phase)).Render(strings.ToUpper(string(phase)))
	if m.st.IsOffline() {
		badge = styles.StatusStyle("offline").Render("OFFLINE")
	}

	parts := []string{bg.Render("galley", styles.Logo), badge}
	if phase == state.Loading {
		parts = append(parts, m.spinner.View())
	}
	if m.st.HasFeed() {
		count := plural(len(m.st.Feed), "recipe")
		if len(m.visible) != len(m.st.Feed) {
			count = fmt.Sprintf("%d of %s", len(m.visible), count)
		}
		parts = append(parts, bg.Render(count, styles.MutedText))
	}
	if m.listing.cuisine != "" {
		parts = append(parts, bg.Render(m.listing.cuisine, styles.AccentText))
	}
	parts = append(parts, bg.Render("sort "+m.listing.sort.String(), styles.FaintText))
	if !m.st.UpdatedAt.IsZero() && phase != state.Loading {
		ago := humanizeDuration(m.now().Sub(m.st.UpdatedAt))
		parts = append(parts, bg.Render("updated "+ago, styles.FaintText))
	}

	return bg.FillLine(bg.Space()+bg.Join(parts, "  "), m.width)
}

// renderCommandBar renders the short key help.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Background)

	bindings := m.keys.ShortHelp()
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, bg.Render(h.Key, styles.WarningText)+bg.Space()+bg.Render(h.Desc, styles.MutedText))
	}
	return bg.FillLine(bg.Space()+bg.Join(parts, "  "), m.width)
}

// renderStatusLine renders the bottom line: the search box while typing,
// otherwise the last error or the active query.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	switch {
	case m.searching:
		return m.search.View()
	case m.st.Phase == state.Failed && m.st.HasFeed():
		return styles.DangerText.Render(truncate("✗ "+m.st.Err+" (showing last loaded recipes)", m.width))
	case m.listing.query != "":
		return styles.MutedText.Render(truncate(fmt.Sprintf("filter %q  esc to clear", m.listing.query), m.width))
	}
	return ""
}
