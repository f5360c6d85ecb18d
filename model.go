package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/paneldeck/paneldeck/internal/config"
	"github.com/paneldeck/paneldeck/internal/host"
	"github.com/paneldeck/paneldeck/internal/locale"
	"github.com/paneldeck/paneldeck/internal/secrets"
)

const appName = "Paneldeck"

// hostClient is the slice of host.Client the UI consumes. Tests install
// fakes; a nil client means the channel never came up and the UI runs
// read-only.
type hostClient interface {
	Events() <-chan host.Event
	Done() <-chan struct{}
	RequestLogin(ctx context.Context) (host.LoginResult, error)
	SetSetting(ctx context.Context, key string, value bool) error
	ResetState(ctx context.Context) error
	Close() error
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

type hostEventMsg struct{ event host.Event }

type hostGoneMsg struct{}

type loginDoneMsg struct {
	session secrets.Session
	err     error
}

type settingSavedMsg struct {
	key   string
	value bool
	err   error
}

type stateResetMsg struct{ err error }

type sessionClearedMsg struct{ err error }

type confirmExpiredMsg struct{ seq int }

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

type model struct {
	cfg    config.Config
	logger *zap.Logger
	loc    locale.Func
	client hostClient

	// router state
	activeID        string
	compact         bool
	pendingWidth    int
	resizeSeq       int
	highlightAnchor string
	highlightSeq    int

	width  int
	height int
	ready  bool

	vp viewport.Model

	status    string
	statusErr bool

	// section state
	settings      map[string]bool
	generalCursor int
	account       string
	lastNavigate  string
	hostEvents    int

	// two-step confirm for destructive operations
	confirmAction string
	confirmSeq    int

	// palette state
	paletteOpen     bool
	paletteQuery    string
	paletteMatches  []CommandMatch
	paletteCursor   int
	paletteTop      int
	palettePageSize int
	lastCommandID   string

	helpOpen bool

	keys     *KeyRegistry
	commands *CommandRegistry

	configPath string
	logPath    string
}

func newModel(cfg config.Config, logger *zap.Logger, client hostClient, sess secrets.Session, configPath, logPath string) model {
	loc := locale.New(cfg.UI.Locale)

	keys := NewKeyRegistry()
	if err := keys.ApplyKeybindingConfig(cfg.Keybindings); err != nil {
		// Overrides apply all-or-nothing so a half-patched keymap never ships.
		if logger != nil {
			logger.Warn("keybinding overrides rejected, using defaults", zap.Error(err))
		}
		keys = NewKeyRegistry()
	}

	start := cfg.UI.Section
	if _, ok := parseSectionID(start); !ok {
		if start != "" && logger != nil {
			logger.Warn("unknown start section, using welcome", zap.String("section", start))
		}
		start = sectionWelcome.Slug()
	}

	m := model{
		cfg:      cfg,
		logger:   logger,
		loc:      loc,
		client:   client,
		activeID: start,
		settings: map[string]bool{
			settingTelemetry:   cfg.Settings.Telemetry,
			settingAutoUpdate:  cfg.Settings.Autoupdate,
			settingInlineHints: cfg.Settings.Inlinehints,
		},
		account:    sess.Account,
		vp:         viewport.New(0, 0),
		keys:       keys,
		commands:   NewCommandRegistry(),
		configPath: configPath,
		logPath:    logPath,
	}
	m.syncViewport()
	return m
}

func (m model) Init() tea.Cmd {
	if m.client == nil {
		return nil
	}
	return waitForHostEvent(m.client)
}

// waitForHostEvent delivers the next host message; the handler reissues it
// so the subscription stays live for the life of the connection.
func waitForHostEvent(c hostClient) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-c.Events():
			return hostEventMsg{event: ev}
		case <-c.Done():
			return hostGoneMsg{}
		}
	}
}

// ---------------------------------------------------------------------------
// Status line and logging helpers
// ---------------------------------------------------------------------------

func (m *model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *model) setStatusf(format string, args ...any) {
	m.setStatus(fmt.Sprintf(format, args...))
}

func (m *model) setError(msg string) {
	m.status = msg
	m.statusErr = true
}

func (m model) logDebug(msg string, fields ...zap.Field) {
	if m.logger != nil {
		m.logger.Debug(msg, fields...)
	}
}

func (m model) logWarn(msg string, fields ...zap.Field) {
	if m.logger != nil {
		m.logger.Warn(msg, fields...)
	}
}

// ---------------------------------------------------------------------------
// Viewport plumbing
// ---------------------------------------------------------------------------

// Header strip, blank spacer, status line, footer.
const chromeHeight = 4

func (m *model) resizeViewport() {
	h := m.height - chromeHeight
	if h < 1 {
		h = 1
	}
	m.vp.Width = m.width
	m.vp.Height = h
}

// syncViewport re-renders the active pane into the viewport, preserving the
// scroll offset.
func (m *model) syncViewport() {
	m.vp.SetContent(m.renderPaneContent())
}

// scrollToLine nudges the viewport the minimum distance that makes the line
// visible.
func (m *model) scrollToLine(idx int) {
	if idx < m.vp.YOffset {
		m.vp.SetYOffset(idx)
		return
	}
	bottom := m.vp.YOffset + m.vp.Height - 1
	if idx > bottom {
		m.vp.SetYOffset(idx - m.vp.Height + 1)
	}
}
