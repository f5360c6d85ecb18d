package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Resize storms collapse into one compact-mode decision; anchor flashes fade
// after a fixed decay.
const (
	resizeDebounce = 100 * time.Millisecond
	highlightDecay = 1200 * time.Millisecond
	compactWidth   = 72 // columns below which the strip collapses to icons
)

type resizeDebouncedMsg struct{ seq int }

type highlightExpiredMsg struct{ seq int }

func resizeDebounceCmd(seq int) tea.Cmd {
	return tea.Tick(resizeDebounce, func(time.Time) tea.Msg {
		return resizeDebouncedMsg{seq: seq}
	})
}

func highlightDecayCmd(seq int) tea.Cmd {
	return tea.Tick(highlightDecay, func(time.Time) tea.Msg {
		return highlightExpiredMsg{seq: seq}
	})
}

// setActive switches the routed section. The id is not validated; an unknown
// id simply resolves to no pane. Empty ids are dropped.
func (m *model) setActive(id string) {
	if id == "" {
		return
	}
	changed := id != m.activeID
	m.activeID = id
	if changed {
		m.highlightAnchor = ""
		m.vp.GotoTop()
		m.syncViewport()
	}
}

// resolveActive returns the pane for the active id. The second return is
// false when the id does not resolve, in which case the body renders empty.
func (m model) resolveActive() (sectionPane, bool) {
	id, ok := parseSectionID(m.activeID)
	if !ok {
		return sectionPane{}, false
	}
	pane, ok := sectionPanes()[id]
	return pane, ok
}

// applyNavigate handles an inbound navigate message: section targets switch
// the strip, anchor targets scroll the active pane and flash the row, and
// anything else is dropped. Anchors resolve against the active section only,
// mirroring how the host composes targets today.
func (m *model) applyNavigate(target string) tea.Cmd {
	if target == "" {
		return nil
	}
	if _, ok := parseSectionID(target); ok {
		m.setActive(target)
		return nil
	}
	pane, ok := m.resolveActive()
	if !ok {
		m.logDebug("navigate target unmatched", zap.String("target", target))
		return nil
	}
	lines := pane.lines(*m)
	idx, ok := anchorLineIndex(lines, target)
	if !ok {
		m.logDebug("navigate target unmatched", zap.String("target", target))
		return nil
	}
	m.highlightAnchor = target
	m.highlightSeq++
	m.scrollToLine(idx)
	m.syncViewport()
	return highlightDecayCmd(m.highlightSeq)
}

// noteResize records the new width and schedules the debounced compact-mode
// decision. Only the newest tick is honored.
func (m *model) noteResize(width int) tea.Cmd {
	m.pendingWidth = width
	m.resizeSeq++
	return resizeDebounceCmd(m.resizeSeq)
}

// applyResizeDebounce folds the last observed width into compact mode.
func (m *model) applyResizeDebounce(msg resizeDebouncedMsg) {
	if msg.seq != m.resizeSeq {
		return
	}
	m.compact = m.pendingWidth < compactWidth
}

// applyHighlightExpiry clears the anchor flash once the newest timer fires.
// Ticks from superseded flashes are ignored so a re-sent navigate keeps its
// full decay window.
func (m *model) applyHighlightExpiry(msg highlightExpiredMsg) {
	if msg.seq != m.highlightSeq {
		return
	}
	m.highlightAnchor = ""
	m.syncViewport()
}

// cycleSection moves delta steps through the visible strip entries. Unknown
// or hidden active ids land on the first visible section.
func (m *model) cycleSection(delta int) {
	var visible []SectionDescriptor
	for _, d := range listSections(m.loc, m.cfg.DevMode) {
		if !d.Hidden {
			visible = append(visible, d)
		}
	}
	if len(visible) == 0 {
		return
	}
	at := -1
	for i, d := range visible {
		if d.Slug == m.activeID {
			at = i
			break
		}
	}
	if at < 0 {
		m.setActive(visible[0].Slug)
		return
	}
	n := len(visible)
	m.setActive(visible[(at+delta+n)%n].Slug)
}
