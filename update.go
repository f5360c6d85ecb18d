package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/paneldeck/paneldeck/internal/host"
	"github.com/paneldeck/paneldeck/internal/secrets"
)

var errHostOffline = errors.New("host offline")

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeViewport()
		m.syncViewport()
		return m, m.noteResize(msg.Width)

	case resizeDebouncedMsg:
		m.applyResizeDebounce(msg)
		return m, nil

	case highlightExpiredMsg:
		m.applyHighlightExpiry(msg)
		return m, nil

	case confirmExpiredMsg:
		if msg.seq == m.confirmSeq && m.confirmAction != "" {
			m.confirmAction = ""
			m.setStatus("Cancelled.")
		}
		return m, nil

	case hostEventMsg:
		cmd := m.handleHostEvent(msg.event)
		if m.client == nil {
			return m, cmd
		}
		return m, tea.Batch(cmd, waitForHostEvent(m.client))

	case hostGoneMsg:
		m.client = nil
		m.setError("Host connection lost.")
		m.logWarn("host connection lost")
		m.syncViewport()
		return m, nil

	case loginDoneMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Sign-in failed: %v", msg.err))
			m.logWarn("sign-in failed", zap.Error(msg.err))
			return m, nil
		}
		m.account = msg.session.Account
		m.setStatusf("Signed in as %s.", msg.session.Account)
		m.syncViewport()
		return m, nil

	case settingSavedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Save failed: %v", msg.err))
			m.logWarn("setting persist failed", zap.String("key", msg.key), zap.Error(msg.err))
			return m, nil
		}
		// The local mirror flips only once the host has acknowledged.
		m.settings[msg.key] = msg.value
		state := m.loc("state.off")
		if msg.value {
			state = m.loc("state.on")
		}
		m.setStatusf("%s: %s.", m.loc(settingLabelKey(msg.key)), state)
		m.syncViewport()
		return m, nil

	case stateResetMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Reset failed: %v", msg.err))
			m.logWarn("state reset failed", zap.Error(msg.err))
			return m, nil
		}
		m.setStatus("Extension state reset.")
		return m, nil

	case sessionClearedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Forget session failed: %v", msg.err))
			m.logWarn("session clear failed", zap.Error(msg.err))
			return m, nil
		}
		m.account = ""
		m.setStatus("Session forgotten.")
		m.syncViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleHostEvent folds one inbound host message into the model. Repeated
// identical messages are harmless: navigate re-applies the same state.
func (m *model) handleHostEvent(ev host.Event) tea.Cmd {
	m.hostEvents++
	var cmd tea.Cmd
	switch ev.Kind {
	case host.EventNavigate:
		m.lastNavigate = ev.Target
		cmd = m.applyNavigate(ev.Target)
	default:
		m.logDebug("unhandled host event", zap.String("kind", ev.Kind))
	}
	m.syncViewport()
	return cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if next, cmd, handled := m.dispatchOverlayKey(msg); handled {
		return next, cmd
	}

	scope := m.sectionScope()
	switch {
	case m.isAction(scope, actionQuit, msg):
		return m, tea.Quit
	case m.isAction(scope, actionPalette, msg):
		m.openPalette()
		return m, nil
	case m.isAction(scope, actionHelp, msg):
		m.helpOpen = true
		return m, nil
	case m.isAction(scope, actionNextSection, msg):
		m.cycleSection(1)
		return m, nil
	case m.isAction(scope, actionPrevSection, msg):
		m.cycleSection(-1)
		return m, nil
	case m.isAction(scope, actionGoWelcome, msg):
		m.setActive(sectionWelcome.Slug())
		return m, nil
	case m.isAction(scope, actionGoGeneral, msg):
		m.setActive(sectionGeneral.Slug())
		return m, nil
	case m.isAction(scope, actionGoAccount, msg):
		m.setActive(sectionAccount.Slug())
		return m, nil
	case m.isAction(scope, actionGoAdvanced, msg):
		m.setActive(sectionAdvanced.Slug())
		return m, nil
	case m.isAction(scope, actionGoExtras, msg):
		m.setActive(sectionExperimental.Slug())
		return m, nil
	case m.isAction(scope, actionScrollUp, msg):
		m.vp.SetYOffset(m.vp.YOffset - pageStep(m.vp.Height))
		return m, nil
	case m.isAction(scope, actionScrollDown, msg):
		m.vp.SetYOffset(m.vp.YOffset + pageStep(m.vp.Height))
		return m, nil
	}

	return m.updateSection(msg)
}

// ---------------------------------------------------------------------------
// Key helpers
// ---------------------------------------------------------------------------

// isAction reports whether msg resolves to action in scope, with the global
// scope as fallback.
func (m model) isAction(scope string, action Action, msg tea.KeyMsg) bool {
	b := m.keys.Lookup(msg.String(), scope)
	return b != nil && b.Action == action
}

// primaryActionKey names the first bound key for an action, for prompts.
func (m model) primaryActionKey(scope string, action Action, fallback string) string {
	for _, b := range m.keys.BindingsForScope(scope) {
		if b.Action == action && len(b.Keys) > 0 {
			return b.Keys[0]
		}
	}
	return fallback
}

// verticalDelta maps a navigation key to a cursor movement.
func verticalDelta(keyName string) int {
	switch normalizeKeyName(keyName) {
	case "up", "k", "ctrl+p":
		return -1
	case "down", "j", "ctrl+n":
		return 1
	}
	return 0
}

// moveBoundedCursor clamps cursor+delta to [0, size).
func moveBoundedCursor(cursor, size, delta int) int {
	if size <= 0 {
		return 0
	}
	next := cursor + delta
	if next < 0 {
		next = 0
	}
	if next >= size {
		next = size - 1
	}
	return next
}

func pageStep(height int) int {
	step := height / 2
	if step < 1 {
		step = 1
	}
	return step
}

// ---------------------------------------------------------------------------
// Async host commands
// ---------------------------------------------------------------------------

func loginCmd(c hostClient) tea.Cmd {
	return func() tea.Msg {
		if c == nil {
			return loginDoneMsg{err: errHostOffline}
		}
		res, err := c.RequestLogin(context.Background())
		if err != nil {
			return loginDoneMsg{err: err}
		}
		sess := secrets.Session{Account: res.Account, Token: res.Token}
		if err := secrets.StoreSession(sess); err != nil {
			return loginDoneMsg{err: fmt.Errorf("store session: %w", err)}
		}
		return loginDoneMsg{session: sess}
	}
}

func persistSettingCmd(c hostClient, key string, value bool) tea.Cmd {
	return func() tea.Msg {
		if c == nil {
			return settingSavedMsg{key: key, value: value, err: errHostOffline}
		}
		return settingSavedMsg{key: key, value: value, err: c.SetSetting(context.Background(), key, value)}
	}
}

func resetStateCmd(c hostClient) tea.Cmd {
	return func() tea.Msg {
		if c == nil {
			return stateResetMsg{err: errHostOffline}
		}
		return stateResetMsg{err: c.ResetState(context.Background())}
	}
}

func clearSessionCmd() tea.Cmd {
	return func() tea.Msg {
		return sessionClearedMsg{err: secrets.ClearSession()}
	}
}
