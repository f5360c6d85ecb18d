package main

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	tea "github.com/charmbracelet/bubbletea"
)

// Command is one palette entry. Execute receives the current model and
// returns the next one plus any follow-up command.
type Command struct {
	ID          string
	Label       string
	Description string
	Category    string
	Scopes      []string
	Enabled     func(m model) (bool, string)
	Execute     func(m model) (model, tea.Cmd, error)
}

type CommandMatch struct {
	Command        Command
	Score          int
	Distance       int
	Enabled        bool
	DisabledReason string
}

type CommandRegistry struct {
	commands []Command
	byID     map[string]*Command
}

func commandAlwaysEnabled(model) (bool, string) { return true, "" }

func commandNeedsHost(m model) (bool, string) {
	if m.client == nil {
		return false, "Host offline"
	}
	return true, ""
}

func NewCommandRegistry() *CommandRegistry {
	r := &CommandRegistry{}

	goCmd := func(id SectionID) func(m model) (model, tea.Cmd, error) {
		return func(m model) (model, tea.Cmd, error) {
			m.setActive(id.Slug())
			return m, nil, nil
		}
	}

	r.commands = []Command{
		{
			ID: "nav:welcome", Label: "Go to Welcome", Category: "Navigate",
			Description: "Open the welcome section",
			Enabled:     commandAlwaysEnabled, Execute: goCmd(sectionWelcome),
		},
		{
			ID: "nav:general", Label: "Go to General", Category: "Navigate",
			Description: "Open the general settings",
			Enabled:     commandAlwaysEnabled, Execute: goCmd(sectionGeneral),
		},
		{
			ID: "nav:account", Label: "Go to Account", Category: "Navigate",
			Description: "Open the account section",
			Enabled:     commandAlwaysEnabled, Execute: goCmd(sectionAccount),
		},
		{
			ID: "nav:advanced", Label: "Go to Advanced", Category: "Navigate",
			Description: "Open the advanced section",
			Enabled:     commandAlwaysEnabled, Execute: goCmd(sectionAdvanced),
		},
		{
			ID: "nav:experimental", Label: "Go to Experimental", Category: "Navigate",
			Description: "Open the experimental diagnostics",
			Enabled: func(m model) (bool, string) {
				if !m.cfg.DevMode {
					return false, "Dev mode only"
				}
				return true, ""
			},
			Execute: goCmd(sectionExperimental),
		},
		{
			ID: "nav:next", Label: "Next section", Category: "Navigate",
			Enabled: commandAlwaysEnabled,
			Execute: func(m model) (model, tea.Cmd, error) {
				m.cycleSection(1)
				return m, nil, nil
			},
		},
		{
			ID: "nav:prev", Label: "Previous section", Category: "Navigate",
			Enabled: commandAlwaysEnabled,
			Execute: func(m model) (model, tea.Cmd, error) {
				m.cycleSection(-1)
				return m, nil, nil
			},
		},
		{
			ID: "account:login", Label: "Sign in", Category: "Account",
			Description: "Run the host sign-in flow",
			Enabled:     commandNeedsHost,
			Execute: func(m model) (model, tea.Cmd, error) {
				m.setStatus("Signing in…")
				return m, loginCmd(m.client), nil
			},
		},
		{
			ID: "account:forget", Label: "Forget session", Category: "Account",
			Description: "Drop the stored sign-in token",
			Enabled: func(m model) (bool, string) {
				if m.account == "" {
					return false, "Not signed in"
				}
				return true, ""
			},
			Execute: func(m model) (model, tea.Cmd, error) {
				return m, clearSessionCmd(), nil
			},
		},
		{
			ID: "setting:telemetry", Label: "Toggle usage telemetry", Category: "Settings",
			Enabled: commandNeedsHost,
			Execute: toggleCmd(settingTelemetry),
		},
		{
			ID: "setting:autoupdate", Label: "Toggle automatic updates", Category: "Settings",
			Enabled: commandNeedsHost,
			Execute: toggleCmd(settingAutoUpdate),
		},
		{
			ID: "setting:inlinehints", Label: "Toggle inline hints", Category: "Settings",
			Enabled: commandNeedsHost,
			Execute: toggleCmd(settingInlineHints),
		},
		{
			ID: "state:reset", Label: "Reset extension state", Category: "Maintenance",
			Description: "Clear host caches and stored UI state",
			Enabled:     commandNeedsHost,
			Execute: func(m model) (model, tea.Cmd, error) {
				m.setActive(sectionAdvanced.Slug())
				cmd := m.armResetConfirm()
				return m, cmd, nil
			},
		},
		{
			ID: "app:help", Label: "Show keyboard help", Category: "Application",
			Enabled: commandAlwaysEnabled,
			Execute: func(m model) (model, tea.Cmd, error) {
				m.helpOpen = true
				return m, nil, nil
			},
		},
		{
			ID: "app:quit", Label: "Quit", Category: "Application",
			Enabled: commandAlwaysEnabled,
			Execute: func(m model) (model, tea.Cmd, error) {
				return m, tea.Quit, nil
			},
		},
	}

	r.byID = make(map[string]*Command, len(r.commands))
	for i := range r.commands {
		r.byID[r.commands[i].ID] = &r.commands[i]
	}
	return r
}

// toggleCmd flips a boolean setting through the host; the local mirror only
// changes once the host acknowledges.
func toggleCmd(key string) func(m model) (model, tea.Cmd, error) {
	return func(m model) (model, tea.Cmd, error) {
		next := !m.settings[key]
		return m, persistSettingCmd(m.client, key, next), nil
	}
}

func commandInScope(c Command, scope string) bool {
	if len(c.Scopes) == 0 {
		return true
	}
	for _, s := range c.Scopes {
		if s == scopeGlobal || s == scope {
			return true
		}
	}
	return false
}

func commandMatchScore(c Command, query string) (bool, int) {
	best := -1
	for _, field := range []string{c.Label, c.ID, c.Description} {
		if field == "" {
			continue
		}
		if ok, s := fuzzyMatchScore(field, query); ok && s > best {
			best = s
		}
	}
	if best < 0 {
		return false, 0
	}
	if strings.EqualFold(strings.TrimSpace(c.Label), strings.TrimSpace(query)) {
		best += 15
	}
	return true, best
}

// Search ranks commands for the palette: enabled before disabled, the most
// recently run command first among equals, then fuzzy score, then edit
// distance to the label so near-misses order sensibly.
func (r *CommandRegistry) Search(query, scope string, m model, lastCommandID string) []CommandMatch {
	q := strings.TrimSpace(query)
	out := make([]CommandMatch, 0, len(r.commands))
	for i := range r.commands {
		c := r.commands[i]
		if !commandInScope(c, scope) {
			continue
		}
		score, dist := 0, 0
		if q != "" {
			ok, s := commandMatchScore(c, q)
			if !ok {
				continue
			}
			score = s
			dist = levenshtein.ComputeDistance(strings.ToLower(q), strings.ToLower(c.Label))
		}
		enabled, reason := true, ""
		if c.Enabled != nil {
			enabled, reason = c.Enabled(m)
		}
		out = append(out, CommandMatch{
			Command: c, Score: score, Distance: dist,
			Enabled: enabled, DisabledReason: reason,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Enabled != b.Enabled {
			return a.Enabled
		}
		if lastCommandID != "" {
			am, bm := a.Command.ID == lastCommandID, b.Command.ID == lastCommandID
			if am != bm {
				return am
			}
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.Command.Label != b.Command.Label {
			return a.Command.Label < b.Command.Label
		}
		return a.Command.ID < b.Command.ID
	})
	return out
}

func (r *CommandRegistry) ExecuteByID(id, scope string, m model) (model, tea.Cmd, error) {
	c, ok := r.byID[id]
	if !ok {
		m.setError("Unknown command: " + id)
		return m, nil, nil
	}
	if !commandInScope(*c, scope) {
		m.setError("Command not available here: " + c.Label)
		return m, nil, nil
	}
	if c.Enabled != nil {
		if enabled, reason := c.Enabled(m); !enabled {
			if reason == "" {
				reason = "Command unavailable"
			}
			m.setError(reason)
			return m, nil, nil
		}
	}
	return c.Execute(m)
}

// ---------------------------------------------------------------------------
// Fuzzy matching
// ---------------------------------------------------------------------------

// fuzzyMatchScore reports whether query is a subsequence of label and a
// relevance score: prefix matches and consecutive runs rank higher, exact
// matches highest.
func fuzzyMatchScore(label, query string) (bool, int) {
	l := strings.ToLower(label)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true, 0
	}
	matchIdx := make([]int, 0, len(q))
	li := 0
	for qi := 0; qi < len(q); qi++ {
		found := false
		for ; li < len(l); li++ {
			if l[li] == q[qi] {
				matchIdx = append(matchIdx, li)
				li++
				found = true
				break
			}
		}
		if !found {
			return false, 0
		}
	}
	score := len(q)
	if len(matchIdx) > 0 && matchIdx[0] == 0 {
		score += 10
	}
	for i := 1; i < len(matchIdx); i++ {
		if matchIdx[i] == matchIdx[i-1]+1 {
			score += 3
		}
	}
	if strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(query)) {
		score += 20
	}
	return true, score
}

// ---------------------------------------------------------------------------
// Palette state
// ---------------------------------------------------------------------------

func (m *model) openPalette() {
	m.paletteOpen = true
	m.paletteQuery = ""
	m.paletteCursor = 0
	m.paletteTop = 0
	m.palettePageSize = 10
	m.rebuildPaletteMatches()
}

func (m *model) closePalette() {
	m.paletteOpen = false
	m.paletteQuery = ""
	m.paletteMatches = nil
	m.paletteCursor = 0
	m.paletteTop = 0
}

func (m *model) rebuildPaletteMatches() {
	m.paletteMatches = m.commands.Search(m.paletteQuery, m.commandContextScope(), *m, m.lastCommandID)
	if m.paletteCursor >= len(m.paletteMatches) {
		m.paletteCursor = len(m.paletteMatches) - 1
	}
	if m.paletteCursor < 0 {
		m.paletteCursor = 0
	}
	m.ensurePaletteCursorVisible()
}

func (m *model) ensurePaletteCursorVisible() {
	if m.palettePageSize <= 0 {
		m.palettePageSize = 10
	}
	if m.paletteCursor < m.paletteTop {
		m.paletteTop = m.paletteCursor
	}
	if m.paletteCursor >= m.paletteTop+m.palettePageSize {
		m.paletteTop = m.paletteCursor - m.palettePageSize + 1
	}
	if m.paletteTop < 0 {
		m.paletteTop = 0
	}
}

func (m model) executeSelectedCommand() (tea.Model, tea.Cmd) {
	if len(m.paletteMatches) == 0 {
		return m, nil
	}
	if m.paletteCursor >= len(m.paletteMatches) {
		m.paletteCursor = len(m.paletteMatches) - 1
	}
	match := m.paletteMatches[m.paletteCursor]
	if !match.Enabled {
		reason := match.DisabledReason
		if reason == "" {
			reason = "Command unavailable"
		}
		m.setError(reason)
		return m, nil
	}
	m.closePalette()
	next, cmd, err := match.Command.Execute(m)
	if err != nil {
		next.setError(err.Error())
		return next, nil
	}
	next.lastCommandID = match.Command.ID
	return next, cmd
}

func (m model) updatePalette(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.isAction(scopePalette, actionClose, msg):
		m.closePalette()
		return m, nil
	case m.isAction(scopePalette, actionSelect, msg):
		return m.executeSelectedCommand()
	case m.isAction(scopePalette, actionNavigate, msg):
		m.paletteCursor = moveBoundedCursor(m.paletteCursor, len(m.paletteMatches), verticalDelta(msg.String()))
		m.ensurePaletteCursorVisible()
		return m, nil
	}
	switch msg.Type {
	case tea.KeyBackspace:
		if m.paletteQuery != "" {
			m.paletteQuery = trimLastRune(m.paletteQuery)
			m.rebuildPaletteMatches()
		}
		return m, nil
	case tea.KeySpace:
		m.paletteQuery += " "
		m.rebuildPaletteMatches()
		return m, nil
	case tea.KeyRunes:
		m.paletteQuery += string(msg.Runes)
		m.rebuildPaletteMatches()
		return m, nil
	}
	return m, nil
}

func trimLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
