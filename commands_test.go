package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// ---------------------------------------------------------------------------
// Fuzzy matching
// ---------------------------------------------------------------------------

func TestFuzzyMatchScoreSubsequence(t *testing.T) {
	tests := []struct {
		label string
		query string
		want  bool
	}{
		{"Go to General", "general", true},
		{"Go to General", "gtg", true},
		{"Go to General", "GENERAL", true},
		{"Go to General", "xyz", false},
		{"Go to General", "lareneg", false}, // order matters
		{"Quit", "", true},
		{"Sign in", "sign in", true},
	}
	for _, tt := range tests {
		ok, _ := fuzzyMatchScore(tt.label, tt.query)
		if ok != tt.want {
			t.Errorf("fuzzyMatchScore(%q, %q) = %v, want %v", tt.label, tt.query, ok, tt.want)
		}
	}
}

func TestFuzzyMatchScoreRanksPrefixAndExact(t *testing.T) {
	_, prefix := fuzzyMatchScore("Toggle inline hints", "to")
	_, scattered := fuzzyMatchScore("Go to Account", "to")
	if prefix <= scattered {
		t.Fatalf("prefix score %d must beat scattered score %d", prefix, scattered)
	}
	_, exact := fuzzyMatchScore("Quit", "quit")
	_, partial := fuzzyMatchScore("Quit something else", "quit")
	if exact <= partial {
		t.Fatalf("exact score %d must beat partial score %d", exact, partial)
	}
}

// ---------------------------------------------------------------------------
// Search
// ---------------------------------------------------------------------------

func TestSearchEmptyQueryListsEnabledFirst(t *testing.T) {
	m := newTestModel(t) // no host: account and setting commands disabled
	matches := m.commands.Search("", scopeWelcome, m, "")
	if len(matches) != 15 {
		t.Fatalf("got %d matches, want the full registry", len(matches))
	}
	if matches[0].Command.ID != "nav:account" {
		t.Fatalf("first = %s, want nav:account (alphabetical among enabled)", matches[0].Command.ID)
	}
	sawDisabled := false
	for i, match := range matches {
		if !match.Enabled {
			sawDisabled = true
		}
		if sawDisabled && match.Enabled {
			t.Fatalf("enabled command %s at %d after a disabled one", match.Command.ID, i)
		}
	}
	if !sawDisabled {
		t.Fatal("expected host-dependent commands to be disabled")
	}
}

func TestSearchMostRecentCommandFirst(t *testing.T) {
	m := newTestModel(t)
	matches := m.commands.Search("", scopeWelcome, m, "app:quit")
	if matches[0].Command.ID != "app:quit" {
		t.Fatalf("first = %s, want the most recently run command", matches[0].Command.ID)
	}
}

func TestSearchQueryFilters(t *testing.T) {
	m := newTestModel(t)
	matches := m.commands.Search("general", scopeWelcome, m, "")
	if len(matches) != 1 {
		t.Fatalf("got %d matches for %q, want 1", len(matches), "general")
	}
	if matches[0].Command.ID != "nav:general" {
		t.Fatalf("match = %s, want nav:general", matches[0].Command.ID)
	}
}

func TestSearchDistanceBreaksScoreTies(t *testing.T) {
	m, _ := newHostedModel(t) // host up so the toggles are enabled
	matches := m.commands.Search("to", scopeWelcome, m, "")
	if len(matches) < 3 {
		t.Fatalf("got %d matches, want at least the three toggles", len(matches))
	}
	// All three toggle labels start with "To"; the shortest label is the
	// closest edit distance and must list first.
	want := []string{"setting:inlinehints", "setting:telemetry", "setting:autoupdate"}
	for i, id := range want {
		if matches[i].Command.ID != id {
			t.Fatalf("matches[%d] = %s, want %s", i, matches[i].Command.ID, id)
		}
	}
}

func TestSearchDisabledCommandsCarryReason(t *testing.T) {
	m := newTestModel(t)
	matches := m.commands.Search("experimental", scopeWelcome, m, "")
	found := false
	for _, match := range matches {
		if match.Command.ID != "nav:experimental" {
			continue
		}
		found = true
		if match.Enabled {
			t.Fatal("nav:experimental must be disabled outside dev mode")
		}
		if match.DisabledReason != "Dev mode only" {
			t.Fatalf("reason = %q", match.DisabledReason)
		}
	}
	if !found {
		t.Fatal("nav:experimental missing from results")
	}
}

// ---------------------------------------------------------------------------
// Execution
// ---------------------------------------------------------------------------

func TestExecuteByIDNavigates(t *testing.T) {
	m := newTestModel(t)
	next, cmd, err := m.commands.ExecuteByID("nav:account", scopeWelcome, m)
	if err != nil {
		t.Fatalf("ExecuteByID: %v", err)
	}
	if cmd != nil {
		t.Fatal("navigation must not produce a command")
	}
	if next.activeID != "account" {
		t.Fatalf("activeID = %q, want account", next.activeID)
	}
}

func TestExecuteByIDUnknownSetsError(t *testing.T) {
	m := newTestModel(t)
	next, cmd, err := m.commands.ExecuteByID("nope", scopeWelcome, m)
	if err != nil || cmd != nil {
		t.Fatalf("unknown id: cmd=%v err=%v", cmd, err)
	}
	if !next.statusErr || !strings.Contains(next.status, "Unknown command") {
		t.Fatalf("status = %q err=%v", next.status, next.statusErr)
	}
}

func TestExecuteByIDDisabledSetsReason(t *testing.T) {
	m := newTestModel(t) // no host
	next, cmd, err := m.commands.ExecuteByID("setting:telemetry", scopeWelcome, m)
	if err != nil || cmd != nil {
		t.Fatalf("disabled command: cmd=%v err=%v", cmd, err)
	}
	if !next.statusErr || next.status != "Host offline" {
		t.Fatalf("status = %q", next.status)
	}
}

func TestToggleCommandWaitsForHostAck(t *testing.T) {
	m, fh := newHostedModel(t)
	next, cmd, err := m.commands.ExecuteByID("setting:telemetry", scopeWelcome, m)
	if err != nil {
		t.Fatalf("ExecuteByID: %v", err)
	}
	if next.settings[settingTelemetry] {
		t.Fatal("the mirror must not flip before the host acknowledges")
	}
	msg := runCmd(t, cmd)
	saved, ok := msg.(settingSavedMsg)
	if !ok {
		t.Fatalf("got %T, want settingSavedMsg", msg)
	}
	if saved.key != settingTelemetry || !saved.value || saved.err != nil {
		t.Fatalf("saved = %+v", saved)
	}
	if len(fh.setKeys) != 1 || fh.setKeys[0] != settingTelemetry || !fh.setValues[0] {
		t.Fatalf("host saw %v %v", fh.setKeys, fh.setValues)
	}
	got, _ := applyUpdate(t, next, saved)
	if !got.settings[settingTelemetry] {
		t.Fatal("the mirror must flip on acknowledgement")
	}
}

// ---------------------------------------------------------------------------
// Palette flow
// ---------------------------------------------------------------------------

func TestPaletteOpenTypeRun(t *testing.T) {
	m := newTestModel(t)
	got, _ := applyUpdate(t, m, typeMsg(tea.KeyCtrlP))
	if !got.paletteOpen {
		t.Fatal("ctrl+p must open the palette")
	}
	if len(got.paletteMatches) == 0 {
		t.Fatal("an empty query must list every command")
	}

	got, _ = applyUpdate(t, got, keyMsg("quit"))
	if got.paletteQuery != "quit" {
		t.Fatalf("query = %q", got.paletteQuery)
	}
	if len(got.paletteMatches) != 1 || got.paletteMatches[0].Command.ID != "app:quit" {
		t.Fatalf("matches = %d, want app:quit only", len(got.paletteMatches))
	}

	got, cmd := applyUpdate(t, got, typeMsg(tea.KeyEnter))
	if got.paletteOpen {
		t.Fatal("running a command must close the palette")
	}
	if got.lastCommandID != "app:quit" {
		t.Fatalf("lastCommandID = %q", got.lastCommandID)
	}
	if _, ok := runCmd(t, cmd).(tea.QuitMsg); !ok {
		t.Fatal("app:quit must return tea.Quit")
	}
}

func TestPaletteEscCloses(t *testing.T) {
	m := newTestModel(t)
	got, _ := applyUpdate(t, m, typeMsg(tea.KeyCtrlP))
	got, _ = applyUpdate(t, got, typeMsg(tea.KeyEsc))
	if got.paletteOpen {
		t.Fatal("esc must close the palette")
	}
	if got.paletteQuery != "" || got.paletteMatches != nil {
		t.Fatal("closing must reset the palette state")
	}
}

func TestPaletteBackspaceEditsQuery(t *testing.T) {
	m := newTestModel(t)
	got, _ := applyUpdate(t, m, typeMsg(tea.KeyCtrlP))
	got, _ = applyUpdate(t, got, keyMsg("qu"))
	got, _ = applyUpdate(t, got, typeMsg(tea.KeyBackspace))
	if got.paletteQuery != "q" {
		t.Fatalf("query = %q, want %q", got.paletteQuery, "q")
	}
	got, _ = applyUpdate(t, got, typeMsg(tea.KeyBackspace))
	got, _ = applyUpdate(t, got, typeMsg(tea.KeyBackspace))
	if got.paletteQuery != "" {
		t.Fatalf("query = %q, want empty after over-deleting", got.paletteQuery)
	}
}

func TestPaletteSpaceExtendsQuery(t *testing.T) {
	m := newTestModel(t)
	got, _ := applyUpdate(t, m, typeMsg(tea.KeyCtrlP))
	got, _ = applyUpdate(t, got, keyMsg("go"))
	got, _ = applyUpdate(t, got, typeMsg(tea.KeySpace))
	got, _ = applyUpdate(t, got, keyMsg("to"))
	if got.paletteQuery != "go to" {
		t.Fatalf("query = %q, want %q", got.paletteQuery, "go to")
	}
}

func TestPaletteDisabledSelectionStaysOpen(t *testing.T) {
	m := newTestModel(t) // no host
	got, _ := applyUpdate(t, m, typeMsg(tea.KeyCtrlP))
	got, _ = applyUpdate(t, got, keyMsg("telemetry"))
	if len(got.paletteMatches) == 0 || got.paletteMatches[0].Command.ID != "setting:telemetry" {
		t.Fatalf("expected setting:telemetry on top, got %d matches", len(got.paletteMatches))
	}
	got, cmd := applyUpdate(t, got, typeMsg(tea.KeyEnter))
	if cmd != nil {
		t.Fatal("a disabled command must not run")
	}
	if !got.paletteOpen {
		t.Fatal("the palette stays open so another command can be picked")
	}
	if !got.statusErr || got.status != "Host offline" {
		t.Fatalf("status = %q", got.status)
	}
}

func TestPaletteCursorNavigationClamps(t *testing.T) {
	m := newTestModel(t)
	got, _ := applyUpdate(t, m, typeMsg(tea.KeyCtrlP))
	total := len(got.paletteMatches)
	for i := 0; i < total+5; i++ {
		got, _ = applyUpdate(t, got, typeMsg(tea.KeyDown))
	}
	if got.paletteCursor != total-1 {
		t.Fatalf("cursor = %d, want clamp at %d", got.paletteCursor, total-1)
	}
	for i := 0; i < total+5; i++ {
		got, _ = applyUpdate(t, got, typeMsg(tea.KeyUp))
	}
	if got.paletteCursor != 0 {
		t.Fatalf("cursor = %d, want clamp at 0", got.paletteCursor)
	}
}

func TestPaletteWindowFollowsCursor(t *testing.T) {
	m := newTestModel(t)
	got, _ := applyUpdate(t, m, typeMsg(tea.KeyCtrlP))
	if len(got.paletteMatches) <= got.palettePageSize {
		t.Skip("registry fits on one page")
	}
	steps := got.palettePageSize + 1
	for i := 0; i < steps; i++ {
		got, _ = applyUpdate(t, got, typeMsg(tea.KeyDown))
	}
	if got.paletteTop == 0 {
		t.Fatal("window must scroll once the cursor passes the page")
	}
	if got.paletteCursor < got.paletteTop || got.paletteCursor >= got.paletteTop+got.palettePageSize {
		t.Fatalf("cursor %d outside window [%d,%d)", got.paletteCursor, got.paletteTop, got.paletteTop+got.palettePageSize)
	}
}

func TestPaletteNarrowingQueryClampsCursor(t *testing.T) {
	m := newTestModel(t)
	got, _ := applyUpdate(t, m, typeMsg(tea.KeyCtrlP))
	for i := 0; i < 5; i++ {
		got, _ = applyUpdate(t, got, typeMsg(tea.KeyDown))
	}
	got, _ = applyUpdate(t, got, keyMsg("general"))
	if len(got.paletteMatches) != 1 {
		t.Fatalf("matches = %d, want 1", len(got.paletteMatches))
	}
	if got.paletteCursor != 0 {
		t.Fatalf("cursor = %d, want clamped to the shorter list", got.paletteCursor)
	}
}
