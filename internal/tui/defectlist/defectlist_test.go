// ABOUTME: Tests for the defect list screen
// ABOUTME: Verifies row building, selection, and empty-state rendering

package defectlist

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sloobman/ControlSystem/internal/api"
)

func sampleDefects() []api.Defect {
	return []api.Defect{
		{ID: "d1", Title: "Crack in wall", Status: api.StatusOpen, Priority: api.PriorityHigh, Location: "Block A",
			AssignedTo: &api.User{Name: "Dima"}},
		{ID: "d2", Title: "Leaking pipe", Status: api.StatusInProgress, Priority: api.PriorityCritical, Location: "Block B"},
	}
}

func TestView_RendersRows(t *testing.T) {
	l := New(sampleDefects(), 100, 30)

	out := l.View()
	for _, want := range []string{"Crack in wall", "Leaking pipe", "Block A", "Dima"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestView_Empty(t *testing.T) {
	l := New(nil, 100, 30)

	if !strings.Contains(l.View(), "No defects") {
		t.Error("expected empty-state message")
	}
}

func TestSelected(t *testing.T) {
	l := New(sampleDefects(), 100, 30)

	d := l.Selected()
	if d == nil || d.ID != "d1" {
		t.Errorf("expected first defect selected, got %+v", d)
	}
}

func TestSelected_Empty(t *testing.T) {
	l := New(nil, 100, 30)

	if d := l.Selected(); d != nil {
		t.Errorf("expected nil selection for empty list, got %+v", d)
	}
}

func TestEnter_EmitsSelection(t *testing.T) {
	l := New(sampleDefects(), 100, 30)

	_, cmd := l.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on enter")
	}
	msg, ok := cmd().(SelectedMsg)
	if !ok {
		t.Fatalf("expected SelectedMsg, got %T", cmd())
	}
	if msg.ID != "d1" {
		t.Errorf("expected selection d1, got %s", msg.ID)
	}
}

func TestEnter_EmptyListNoSelection(t *testing.T) {
	l := New(nil, 100, 30)

	_, cmd := l.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command on enter with empty list")
	}
}

func TestSetDefects_ReplacesRows(t *testing.T) {
	l := New(sampleDefects(), 100, 30)

	l.SetDefects([]api.Defect{{ID: "d3", Title: "Broken window", Status: api.StatusOpen, Priority: api.PriorityLow}})

	out := l.View()
	if !strings.Contains(out, "Broken window") {
		t.Error("expected new row in view")
	}
	if strings.Contains(out, "Crack in wall") {
		t.Error("expected old rows to be gone")
	}
}
