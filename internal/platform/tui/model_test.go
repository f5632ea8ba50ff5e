package tui

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/spikebeat/internal/core"
	"github.com/vovakirdan/spikebeat/internal/games/spikebeat"
)

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7}
}

// startedModel returns a model after Init; a fresh loop hands out generation 1.
func startedModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(spikebeat.New(), nil, testConfig())
	if cmd := m.Init(); cmd == nil {
		t.Fatal("Init did not schedule a tick")
	}
	t.Cleanup(m.game.Close)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return mm, cmd
}

func TestModelDropsStaleTicks(t *testing.T) {
	m := startedModel(t)

	if _, cmd := update(t, m, TickMsg{Gen: 99}); cmd != nil {
		t.Error("stale tick rescheduled itself")
	}
	if _, cmd := update(t, m, TickMsg{Gen: 1}); cmd == nil {
		t.Error("live tick did not schedule the next one")
	}
}

func TestModelBackAtHomeLeaves(t *testing.T) {
	m := startedModel(t)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	if !m.BackToMenu() {
		t.Fatal("Back on the level select did not leave")
	}
	if cmd != nil {
		t.Error("embedded model should not quit the program")
	}
	if m.loop.Running() {
		t.Error("loop still running after leaving")
	}
	if m.View() != "" {
		t.Error("view should be empty once left")
	}
}

func TestModelStandaloneBackQuits(t *testing.T) {
	m := startedModel(t)
	m.exitOnBack = true

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	if cmd == nil || !m.IsQuitting() {
		t.Error("standalone Back on the level select should quit")
	}
}

func TestModelBackWhilePlayingReturnsHome(t *testing.T) {
	m := startedModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, TickMsg{Gen: 1})
	if m.gameState.Phase != "playing" {
		t.Fatalf("phase = %q, want playing", m.gameState.Phase)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.BackToMenu() {
		t.Fatal("Back during a run should not leave the mode")
	}
	m, _ = update(t, m, TickMsg{Gen: 1})
	if m.gameState.Phase != "home" {
		t.Errorf("phase = %q, want home", m.gameState.Phase)
	}
}

func TestModelResizeKeepsRun(t *testing.T) {
	m := startedModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, TickMsg{Gen: 1})

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.game.State().Phase != "playing" {
		t.Error("resize reset the run")
	}
	if m.screen.Width() != 120 {
		t.Errorf("screen width = %d, want 120", m.screen.Width())
	}
}

func TestSessionMenuToGameAndBack(t *testing.T) {
	s := NewSessionModel(nil, testConfig(), "tester", log.New(io.Discard))

	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	s = next.(SessionModel)
	if s.gameModel == nil {
		t.Fatal("selecting a mode did not start it")
	}
	defer s.gameModel.game.Close()

	next, _ = s.Update(tea.KeyMsg{Type: tea.KeyEscape})
	s = next.(SessionModel)
	if s.gameModel != nil {
		t.Error("Back on the level select did not return to the menu")
	}
	if s.quitting {
		t.Error("session quit instead of returning to the menu")
	}
}

func TestSessionHistoryReturnsToMenu(t *testing.T) {
	s := NewSessionModel(nil, testConfig(), "tester", log.New(io.Discard))

	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s = next.(SessionModel)
	if s.history == nil {
		t.Fatal("Tab did not open the history")
	}
	if s.View() == "" {
		t.Error("history view is empty")
	}

	next, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEscape})
	s = next.(SessionModel)
	if s.history != nil || s.quitting {
		t.Error("Back from history did not return to the menu")
	}
	if cmd != nil {
		t.Error("returning from history should not quit the session")
	}
}
