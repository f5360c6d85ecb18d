package main

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

// ---------------------------------------------------------------------------
// View composition
// ---------------------------------------------------------------------------

func TestViewBeforeFirstSize(t *testing.T) {
	m := newModelForRender(t)
	m.ready = false
	if got := m.View(); !strings.Contains(got, "Loading") {
		t.Fatalf("unsized view = %q", got)
	}
}

func TestViewFillsTerminalHeight(t *testing.T) {
	m := newModelForRender(t)
	lines := strings.Split(m.View(), "\n")
	if len(lines) != m.height {
		t.Fatalf("view has %d lines, want %d", len(lines), m.height)
	}
}

func newModelForRender(t *testing.T) model {
	t.Helper()
	return newTestModel(t)
}

// ---------------------------------------------------------------------------
// Header strip
// ---------------------------------------------------------------------------

func TestHeaderShowsVisibleSections(t *testing.T) {
	m := newModelForRender(t)
	header := ansi.Strip(m.renderHeader())
	for _, label := range []string{"Welcome", "General", "Account", "Advanced"} {
		if !strings.Contains(header, label) {
			t.Errorf("header missing %q: %q", label, header)
		}
	}
	if strings.Contains(header, "Experimental") {
		t.Errorf("experimental must be hidden outside dev mode: %q", header)
	}
}

func TestHeaderShowsExperimentalInDevMode(t *testing.T) {
	m := newModelForRender(t)
	m.cfg.DevMode = true
	if header := ansi.Strip(m.renderHeader()); !strings.Contains(header, "Experimental") {
		t.Fatalf("dev mode header missing experimental: %q", header)
	}
}

func TestHeaderCompactDropsLabels(t *testing.T) {
	m := newModelForRender(t)
	m.compact = true
	header := ansi.Strip(m.renderHeader())
	if strings.Contains(header, "General") {
		t.Fatalf("compact header must be icon-only: %q", header)
	}
	if !strings.Contains(header, sectionIcons[sectionGeneral]) {
		t.Fatalf("compact header missing icon: %q", header)
	}
}

// ---------------------------------------------------------------------------
// Body and pane content
// ---------------------------------------------------------------------------

func TestBodyShowsActiveSectionHeader(t *testing.T) {
	m := newModelForRender(t)
	m.setActive("general")
	if body := ansi.Strip(m.renderBody()); !strings.Contains(body, "General Settings") {
		t.Fatalf("body missing section header: %q", body)
	}
}

func TestBodyUnknownSectionRendersFallback(t *testing.T) {
	m := newModelForRender(t)
	m.activeID = "no-such-section"
	m.syncViewport()
	if body := ansi.Strip(m.renderBody()); !strings.Contains(body, "Nothing to show") {
		t.Fatalf("unknown section body = %q", body)
	}
}

func TestPaneContentMatchesPaneLines(t *testing.T) {
	m := newModelForRender(t)
	m.setActive("general")
	pane, ok := m.resolveActive()
	if !ok {
		t.Fatal("general must resolve")
	}
	content := strings.Split(m.renderPaneContent(), "\n")
	if want := len(pane.lines(m)); len(content) != want {
		t.Fatalf("pane content has %d lines, want %d", len(content), want)
	}
}

func TestPaneContentEmptyForUnknownSection(t *testing.T) {
	m := newModelForRender(t)
	m.activeID = "no-such-section"
	if got := m.renderPaneContent(); got != "" {
		t.Fatalf("unknown section content = %q", got)
	}
}

// ---------------------------------------------------------------------------
// Status and footer
// ---------------------------------------------------------------------------

func TestStatusLineTruncatesToWidth(t *testing.T) {
	m := newModelForRender(t)
	m.width = 20
	m.setStatus(strings.Repeat("status ", 20))
	if got := ansi.Strip(m.renderStatus()); !strings.Contains(got, "…") {
		t.Fatalf("long status must be truncated: %q", got)
	}
}

func TestStatusLineFlattensNewlines(t *testing.T) {
	m := newModelForRender(t)
	m.setError("line one\nline two")
	if got := m.renderStatus(); strings.Contains(got, "\n") {
		t.Fatalf("status must stay a single line: %q", got)
	}
}

func TestFooterShowsSectionBindings(t *testing.T) {
	m := newModelForRender(t)
	m.setActive("general")
	if footer := ansi.Strip(m.renderFooter()); !strings.Contains(footer, "toggle") {
		t.Fatalf("general footer missing toggle hint: %q", footer)
	}
}

func TestFooterFollowsOverlayScope(t *testing.T) {
	m := newModelForRender(t)
	m.paletteOpen = true
	if footer := ansi.Strip(m.renderFooter()); !strings.Contains(footer, "run") {
		t.Fatalf("palette footer missing run hint: %q", footer)
	}
}

// ---------------------------------------------------------------------------
// Modals
// ---------------------------------------------------------------------------

func TestPaletteModalListsMatches(t *testing.T) {
	m := newModelForRender(t)
	m.openPalette()
	modal := ansi.Strip(m.renderPaletteModal())
	if !strings.Contains(modal, "Go to Welcome") {
		t.Fatalf("palette modal missing command: %q", modal)
	}
	if !strings.Contains(modal, "❯") {
		t.Fatalf("palette modal missing cursor marker: %q", modal)
	}
}

func TestPaletteModalEmptyQueryState(t *testing.T) {
	m := newModelForRender(t)
	m.openPalette()
	m.paletteQuery = "zzzzzz"
	m.rebuildPaletteMatches()
	if modal := ansi.Strip(m.renderPaletteModal()); !strings.Contains(modal, "No matching commands") {
		t.Fatalf("palette modal = %q", modal)
	}
}

func TestPaletteModalMarksDisabledCommands(t *testing.T) {
	m := newModelForRender(t)
	m.openPalette()
	m.paletteQuery = "Sign in"
	m.rebuildPaletteMatches()
	if modal := ansi.Strip(m.renderPaletteModal()); !strings.Contains(modal, "Host offline") {
		t.Fatalf("disabled command must show its reason: %q", modal)
	}
}

func TestHelpModalListsVisibleSectionsAndKeys(t *testing.T) {
	m := newModelForRender(t)
	modal := ansi.Strip(m.renderHelpModal())
	if !strings.Contains(modal, "Welcome") || !strings.Contains(modal, "Sections") {
		t.Fatalf("help modal missing sections: %q", modal)
	}
	if strings.Contains(modal, "Experimental") {
		t.Fatalf("help modal must skip hidden sections: %q", modal)
	}
	if !strings.Contains(modal, "quit") {
		t.Fatalf("help modal missing global keys: %q", modal)
	}
}

func TestViewOverlaysPaletteWhenOpen(t *testing.T) {
	m := newModelForRender(t)
	m.openPalette()
	if view := ansi.Strip(m.View()); !strings.Contains(view, "Go to Welcome") {
		t.Fatal("open palette must appear in the composed view")
	}
}
