package main

// ---------------------------------------------------------------------------
// Overlay dispatch
//
// Overlays capture the keyboard while open. Precedence is the order below;
// the first open overlay wins and sections never see the key.
// ---------------------------------------------------------------------------

import tea "github.com/charmbracelet/bubbletea"

type overlayEntry struct {
	name            string
	guard           func(m model) bool
	scope           func(m model) string
	handler         func(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd)
	forFooter       bool
	forCommandScope bool
}

// overlayPrecedence is built per call to avoid init ordering with the model
// helpers it closes over.
func overlayPrecedence() []overlayEntry {
	return []overlayEntry{
		{
			name:  "palette",
			guard: func(m model) bool { return m.paletteOpen },
			scope: func(m model) string { return scopePalette },
			handler: func(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
				return m.updatePalette(msg)
			},
			forFooter: true,
		},
		{
			name:  "help",
			guard: func(m model) bool { return m.helpOpen },
			scope: func(m model) string { return scopeHelp },
			handler: func(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
				return m.updateHelp(msg)
			},
			forFooter: true,
		},
	}
}

// dispatchOverlayKey routes a key to the top open overlay. The bool reports
// whether an overlay consumed it.
func (m model) dispatchOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	for _, e := range overlayPrecedence() {
		if e.guard(m) {
			next, cmd := e.handler(m, msg)
			return next, cmd, true
		}
	}
	return m, nil, false
}

// activeOverlayScope is the key scope of the top open overlay, or "" when
// none is open. forFooter restricts to overlays that own the footer.
func (m model) activeOverlayScope(forFooter bool) string {
	for _, e := range overlayPrecedence() {
		if !e.guard(m) {
			continue
		}
		if forFooter && !e.forFooter {
			continue
		}
		return e.scope(m)
	}
	return ""
}

// sectionScope maps the active section to its key scope.
func (m model) sectionScope() string {
	id, ok := parseSectionID(m.activeID)
	if !ok {
		return scopeGlobal
	}
	switch id {
	case sectionWelcome:
		return scopeWelcome
	case sectionGeneral:
		return scopeGeneral
	case sectionAccount:
		return scopeAccount
	case sectionAdvanced:
		return scopeAdvanced
	case sectionExperimental:
		return scopeExperimental
	}
	return scopeGlobal
}

// footerScope picks whose bindings the footer shows.
func (m model) footerScope() string {
	if s := m.activeOverlayScope(true); s != "" {
		return s
	}
	return m.sectionScope()
}

// commandContextScope is the scope commands filter against: the section the
// palette was opened from, never the overlay's own scope.
func (m model) commandContextScope() string {
	for _, e := range overlayPrecedence() {
		if e.guard(m) && e.forCommandScope {
			return e.scope(m)
		}
	}
	return m.sectionScope()
}

func (m model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.isAction(scopeHelp, actionClose, msg) {
		m.helpOpen = false
	}
	return m, nil
}
