package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/paneldeck/paneldeck/internal/locale"
)

// SectionID enumerates the sections in display order.
type SectionID int

const (
	sectionWelcome SectionID = iota
	sectionGeneral
	sectionAccount
	sectionAdvanced
	sectionExperimental

	sectionCount // keep last
)

var sectionSlugs = [sectionCount]string{
	sectionWelcome:      "welcome",
	sectionGeneral:      "general",
	sectionAccount:      "account",
	sectionAdvanced:     "advanced",
	sectionExperimental: "experimental",
}

var sectionIcons = [sectionCount]string{
	sectionWelcome:      "✦",
	sectionGeneral:      "⚙",
	sectionAccount:      "◉",
	sectionAdvanced:     "⚒",
	sectionExperimental: "⚗",
}

// Slug returns the stable identifier used in navigation targets and config.
func (id SectionID) Slug() string {
	if id < 0 || id >= sectionCount {
		return ""
	}
	return sectionSlugs[id]
}

// parseSectionID maps a navigation target to a section.
func parseSectionID(target string) (SectionID, bool) {
	for id := SectionID(0); id < sectionCount; id++ {
		if sectionSlugs[id] == target {
			return id, true
		}
	}
	return 0, false
}

// SectionDescriptor describes one tab-strip entry.
type SectionDescriptor struct {
	ID      SectionID
	Slug    string
	Label   string
	Tooltip string
	Header  string
	Icon    string
	Hidden  bool
}

// listSections builds the descriptors in display order. The list is rebuilt
// on every render so a locale change takes effect immediately. Experimental
// stays hidden from the strip outside dev mode but remains routable.
func listSections(loc locale.Func, devMode bool) []SectionDescriptor {
	out := make([]SectionDescriptor, 0, int(sectionCount))
	for id := SectionID(0); id < sectionCount; id++ {
		slug := id.Slug()
		out = append(out, SectionDescriptor{
			ID:      id,
			Slug:    slug,
			Label:   loc("section." + slug + ".label"),
			Tooltip: loc("section." + slug + ".tooltip"),
			Header:  loc("section." + slug + ".header"),
			Icon:    sectionIcons[id],
			Hidden:  id == sectionExperimental && !devMode,
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Section bodies
// ---------------------------------------------------------------------------

// paneLine is one row of section content. A non-empty anchor makes the row a
// navigation target the host can point at.
type paneLine struct {
	anchor string
	text   string
	style  lipgloss.Style
}

// sectionPane is a renderable section body.
type sectionPane struct {
	id    SectionID
	lines func(m model) []paneLine
}

// sectionPanes is the closed dispatch table keyed by SectionID. Adding a
// section means a new enum value, slug, icon, catalog entries, and an entry
// here. Built as a function to avoid init ordering on the style vars.
func sectionPanes() map[SectionID]sectionPane {
	return map[SectionID]sectionPane{
		sectionWelcome:      {id: sectionWelcome, lines: welcomeLines},
		sectionGeneral:      {id: sectionGeneral, lines: generalLines},
		sectionAccount:      {id: sectionAccount, lines: accountLines},
		sectionAdvanced:     {id: sectionAdvanced, lines: advancedLines},
		sectionExperimental: {id: sectionExperimental, lines: experimentalLines},
	}
}

// anchorLineIndex finds the row carrying the given anchor.
func anchorLineIndex(lines []paneLine, anchor string) (int, bool) {
	for i, line := range lines {
		if line.anchor != "" && line.anchor == anchor {
			return i, true
		}
	}
	return 0, false
}

// Host-facing setting keys. They double as the anchor names of their rows,
// which is what inbound navigate targets point at.
const (
	settingTelemetry   = "telemetry"
	settingAutoUpdate  = "auto-update"
	settingInlineHints = "inline-hints"
)

var settingsOrder = []string{settingTelemetry, settingAutoUpdate, settingInlineHints}

func settingLabelKey(key string) string {
	switch key {
	case settingTelemetry:
		return "setting.telemetry"
	case settingAutoUpdate:
		return "setting.autoupdate"
	case settingInlineHints:
		return "setting.inlinehints"
	}
	return key
}

func welcomeLines(m model) []paneLine {
	loc := m.loc
	lines := []paneLine{
		{text: loc("welcome.intro"), style: paneDimStyle},
		{},
		{anchor: "get-started", text: loc("welcome.steps")},
		{text: "  1. " + loc("welcome.step.general")},
		{text: "  2. " + loc("welcome.step.signin")},
		{text: "  3. " + loc("welcome.step.palette")},
		{},
	}
	if m.account != "" {
		lines = append(lines, paneLine{text: loc("account.signedin") + " " + m.account, style: paneOkStyle})
	} else {
		lines = append(lines, paneLine{text: loc("account.signedout"), style: paneDimStyle})
	}
	lines = append(lines, paneLine{text: hostStatusText(m), style: paneDimStyle})
	return lines
}

func generalLines(m model) []paneLine {
	loc := m.loc
	lines := make([]paneLine, 0, len(settingsOrder)+1)
	for i, key := range settingsOrder {
		marker := "  "
		if i == m.generalCursor {
			marker = "❯ "
		}
		box, state := "[ ]", loc("state.off")
		if m.settings[key] {
			box, state = "[x]", loc("state.on")
		}
		lines = append(lines, paneLine{
			anchor: key,
			text:   fmt.Sprintf("%s%s %s (%s)", marker, box, loc(settingLabelKey(key)), state),
		})
	}
	lines = append(lines, paneLine{})
	lines = append(lines, paneLine{text: hostStatusText(m), style: paneDimStyle})
	return lines
}

func accountLines(m model) []paneLine {
	loc := m.loc
	var lines []paneLine
	if m.account != "" {
		lines = append(lines, paneLine{anchor: "session", text: loc("account.signedin") + " " + m.account, style: paneOkStyle})
	} else {
		lines = append(lines, paneLine{anchor: "session", text: loc("account.signedout"), style: paneDimStyle})
	}
	lines = append(lines, paneLine{})
	lines = append(lines, paneLine{text: hostStatusText(m), style: paneDimStyle})
	return lines
}

func advancedLines(m model) []paneLine {
	loc := m.loc
	return []paneLine{
		{anchor: "reset-state", text: loc("advanced.reset.title")},
		{text: "  " + loc("advanced.reset.desc"), style: paneDimStyle},
		{},
		{text: "config  " + m.configPath, style: paneDimStyle},
		{text: "log     " + m.logPath, style: paneDimStyle},
		{text: "host    " + m.cfg.Host.URL, style: paneDimStyle},
	}
}

func experimentalLines(m model) []paneLine {
	loc := m.loc
	last := m.lastNavigate
	if last == "" {
		last = "(none)"
	}
	return []paneLine{
		{text: fmt.Sprintf("%s: %s", loc("experimental.lastnav"), last)},
		{text: fmt.Sprintf("%s: %d", loc("experimental.events"), m.hostEvents)},
	}
}

func hostStatusText(m model) string {
	if m.client != nil {
		return m.loc("host.connected")
	}
	return m.loc("host.offline")
}
