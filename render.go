package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Styles
// ---------------------------------------------------------------------------

var (
	headerBarStyle = lipgloss.NewStyle().
			Background(colorMantle)
	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Background(colorMantle).
			Bold(true).
			Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Background(colorSurface0).
			Bold(true).
			Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorOverlay1).
				Background(colorMantle).
				Padding(0, 1)
	tabSepStyle = lipgloss.NewStyle().
			Foreground(colorSurface1).
			Background(colorMantle)

	paneHeaderStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)
	paneDimStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0)
	paneOkStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)
	flashStyle = lipgloss.NewStyle().
			Foreground(colorCrust).
			Background(colorHighlight).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Background(colorSurface0).
			Padding(0, 2)
	statusErrStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Background(colorSurface0).
			Bold(true).
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorOverlay1)
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorFocus)
	helpDescStyle = lipgloss.NewStyle().
			Foreground(colorOverlay1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface2).
			Background(colorMantle).
			Padding(1, 2)

	paletteQueryStyle = lipgloss.NewStyle().
				Foreground(colorText).
				Bold(true)
	paletteSelStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)
	paletteDisabledStyle = lipgloss.NewStyle().
				Foreground(colorOverlay0)
)

const paletteWidth = 48

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m model) View() string {
	if !m.ready {
		return "Loading…"
	}
	main := m.renderHeader() + "\n" + m.renderBody()
	base := m.placeWithFooter(main, m.renderStatus(), m.renderFooter())
	if m.paletteOpen {
		return centerOverlay(base, m.renderPaletteModal(), m.width, m.height)
	}
	if m.helpOpen {
		return centerOverlay(base, m.renderHelpModal(), m.width, m.height)
	}
	return base
}

// renderHeader draws the tab strip. Hidden sections are skipped; in compact
// mode only icons show.
func (m model) renderHeader() string {
	descs := listSections(m.loc, m.cfg.DevMode)
	sep := tabSepStyle.Render("│")
	tabs := make([]string, 0, len(descs))
	for _, d := range descs {
		if d.Hidden {
			continue
		}
		label := d.Icon + " " + d.Label
		if m.compact {
			label = d.Icon
		}
		style := inactiveTabStyle
		if d.Slug == m.activeID {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(label))
	}
	row := headerAppStyle.Render(appName) + sep + strings.Join(tabs, sep)
	return headerBarStyle.Width(m.width).Render(row)
}

func (m model) renderBody() string {
	pane, ok := m.resolveActive()
	if !ok {
		missing := paneDimStyle.Render("Nothing to show for " + m.activeID)
		return missing + "\n" + m.vp.View()
	}
	descs := listSections(m.loc, m.cfg.DevMode)
	return paneHeaderStyle.Render(descs[pane.id].Header) + "\n" + m.vp.View()
}

// renderPaneContent flattens the active pane's rows for the viewport,
// applying the transient anchor flash.
func (m model) renderPaneContent() string {
	pane, ok := m.resolveActive()
	if !ok {
		return ""
	}
	lines := pane.lines(m)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.anchor != "" && line.anchor == m.highlightAnchor {
			out = append(out, flashStyle.Render(line.text))
			continue
		}
		out = append(out, line.style.Render(line.text))
	}
	return strings.Join(out, "\n")
}

func (m model) renderStatus() string {
	text := strings.ReplaceAll(m.status, "\n", " ")
	style := statusStyle
	if m.statusErr {
		style = statusErrStyle
	}
	limit := m.width - 4
	if limit < 0 {
		limit = 0
	}
	return style.Width(m.width).Render(truncate(text, limit))
}

func (m model) renderFooter() string {
	bindings := m.keys.HelpBindings(m.footerScope())
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, helpKeyStyle.Render(h.Key)+" "+helpDescStyle.Render(h.Desc))
	}
	return footerStyle.Width(m.width).Render(truncate(strings.Join(parts, "  ·  "), m.width))
}

// placeWithFooter pins status and footer to the bottom, padding every line to
// full width so resizes do not leave ghost cells behind.
func (m model) placeWithFooter(body, statusLine, footer string) string {
	lines := splitLines(body)
	contentHeight := m.height - 2
	if contentHeight < 0 {
		contentHeight = 0
	}
	if len(lines) > contentHeight {
		lines = lines[:contentHeight]
	}
	for len(lines) < contentHeight {
		lines = append(lines, "")
	}
	for i, line := range lines {
		lines[i] = padRight(line, m.width)
	}
	return strings.Join(lines, "\n") + "\n" + statusLine + "\n" + footer
}

// ---------------------------------------------------------------------------
// Modals
// ---------------------------------------------------------------------------

func (m model) renderPaletteModal() string {
	inner := paletteWidth - 6 // border and padding
	var b strings.Builder
	b.WriteString(paletteQueryStyle.Render(truncate("> "+m.paletteQuery+"▌", inner)))
	b.WriteString("\n\n")
	if len(m.paletteMatches) == 0 {
		b.WriteString(paneDimStyle.Render("No matching commands"))
		return modalStyle.Width(paletteWidth).Render(b.String())
	}
	end := m.paletteTop + m.palettePageSize
	if end > len(m.paletteMatches) {
		end = len(m.paletteMatches)
	}
	for i := m.paletteTop; i < end; i++ {
		match := m.paletteMatches[i]
		marker := "  "
		if i == m.paletteCursor {
			marker = "❯ "
		}
		line := marker + match.Command.Label
		switch {
		case !match.Enabled:
			reason := match.DisabledReason
			if reason != "" {
				line += "  (" + reason + ")"
			}
			line = paletteDisabledStyle.Render(truncate(line, inner))
		case i == m.paletteCursor:
			line = paletteSelStyle.Render(truncate(line, inner))
		default:
			line = truncate(line, inner)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return modalStyle.Width(paletteWidth).Render(b.String())
}

func (m model) renderHelpModal() string {
	descs := listSections(m.loc, m.cfg.DevMode)
	var b strings.Builder
	b.WriteString(paneHeaderStyle.Render("Sections"))
	b.WriteString("\n")
	for _, d := range descs {
		if d.Hidden {
			continue
		}
		b.WriteString(fmt.Sprintf("%d %s %-14s %s\n",
			int(d.ID)+1, d.Icon, d.Label, paneDimStyle.Render(d.Tooltip)))
	}
	b.WriteString("\n")
	b.WriteString(paneHeaderStyle.Render("Keys"))
	b.WriteString("\n")
	for _, scope := range []string{m.sectionScope(), scopeGlobal} {
		for _, bind := range m.keys.BindingsForScope(scope) {
			if len(bind.Keys) == 0 {
				continue
			}
			b.WriteString(fmt.Sprintf("%s %s\n",
				helpKeyStyle.Render(fmt.Sprintf("%-10s", bind.Keys[0])), bind.Help))
		}
	}
	return modalStyle.Render(strings.TrimRight(b.String(), "\n"))
}
