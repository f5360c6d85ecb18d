package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Destructive actions arm, then fire on a repeat press inside this window.
const confirmWindow = 2 * time.Second

const confirmReset = "state:reset"

func confirmTimerCmd(seq int) tea.Cmd {
	return tea.Tick(confirmWindow, func(time.Time) tea.Msg {
		return confirmExpiredMsg{seq: seq}
	})
}

// armResetConfirm arms the reset confirm and schedules its expiry.
func (m *model) armResetConfirm() tea.Cmd {
	m.confirmAction = confirmReset
	m.confirmSeq++
	key := m.primaryActionKey(scopeAdvanced, actionReset, "r")
	m.setStatusf("Press %s again to reset extension state.", key)
	return confirmTimerCmd(m.confirmSeq)
}

func (m *model) clearConfirm() {
	m.confirmAction = ""
}

// updateSection routes keys that no overlay or global binding consumed.
func (m model) updateSection(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id, ok := parseSectionID(m.activeID)
	if !ok {
		return m, nil
	}
	switch id {
	case sectionWelcome:
		return m.updateWelcome(msg)
	case sectionGeneral:
		return m.updateGeneral(msg)
	case sectionAccount:
		return m.updateAccount(msg)
	case sectionAdvanced:
		return m.updateAdvanced(msg)
	case sectionExperimental:
		return m, nil
	}
	return m, nil
}

func (m model) updateWelcome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.isAction(scopeWelcome, actionSelect, msg) {
		if m.account != "" {
			m.setStatusf("Already signed in as %s.", m.account)
			return m, nil
		}
		m.setStatus("Signing in…")
		return m, loginCmd(m.client)
	}
	return m, nil
}

func (m model) updateGeneral(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.isAction(scopeGeneral, actionNavigate, msg):
		m.generalCursor = moveBoundedCursor(m.generalCursor, len(settingsOrder), verticalDelta(msg.String()))
		m.syncViewport()
		return m, nil
	case m.isAction(scopeGeneral, actionToggle, msg):
		key := settingsOrder[m.generalCursor]
		return m, persistSettingCmd(m.client, key, !m.settings[key])
	}
	return m, nil
}

func (m model) updateAccount(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.isAction(scopeAccount, actionLogin, msg):
		m.setStatus("Signing in…")
		return m, loginCmd(m.client)
	case m.isAction(scopeAccount, actionForget, msg):
		if m.account == "" {
			m.setStatus("No stored session.")
			return m, nil
		}
		return m, clearSessionCmd()
	}
	return m, nil
}

func (m model) updateAdvanced(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.isAction(scopeAdvanced, actionReset, msg) {
		if m.confirmAction == confirmReset {
			m.clearConfirm()
			m.setStatus("Resetting extension state…")
			return m, resetStateCmd(m.client)
		}
		return m, m.armResetConfirm()
	}
	if m.confirmAction != "" {
		m.clearConfirm()
		m.setStatus("Cancelled.")
	}
	return m, nil
}
