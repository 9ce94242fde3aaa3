// ABOUTME: Tests for the defect detail screen
// ABOUTME: Verifies comment entry, status shortcuts, and navigation messages

package detail

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sloobman/ControlSystem/internal/api"
)

func sampleDefect() *api.Defect {
	return &api.Defect{
		ID: "d1", Title: "Crack in wall", Status: api.StatusOpen, Priority: api.PriorityHigh,
		Location:    "Block A",
		Description: "Vertical crack near the window",
		CreatedBy:   api.User{Name: "Sasha"},
		Comments:    []api.Comment{{Content: "scheduled for repair", Author: api.User{Name: "Dima"}}},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_RendersDefect(t *testing.T) {
	d := New(sampleDefect(), 100, 40)

	out := d.View()
	for _, want := range []string{"Crack in wall", "Block A", "Vertical crack", "Sasha", "scheduled for repair", "Comments (1)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestBack_EmitsBackMsg(t *testing.T) {
	d := New(sampleDefect(), 100, 40)

	_, cmd := d.Update(keyRunes("b"))
	if cmd == nil {
		t.Fatal("expected a command on b")
	}
	if _, ok := cmd().(BackMsg); !ok {
		t.Errorf("expected BackMsg, got %T", cmd())
	}
}

func TestStatusShortcut_EmitsChange(t *testing.T) {
	d := New(sampleDefect(), 100, 40)

	_, cmd := d.Update(keyRunes("3"))
	if cmd == nil {
		t.Fatal("expected a command on 3")
	}
	msg, ok := cmd().(StatusChangeMsg)
	if !ok {
		t.Fatalf("expected StatusChangeMsg, got %T", cmd())
	}
	if msg.Status != api.StatusResolved {
		t.Errorf("expected resolved, got %s", msg.Status)
	}
	if msg.ID != "d1" {
		t.Errorf("expected id d1, got %s", msg.ID)
	}
}

func TestStatusShortcut_SameStatusIsNoop(t *testing.T) {
	d := New(sampleDefect(), 100, 40) // status is open

	_, cmd := d.Update(keyRunes("1"))
	if cmd != nil {
		t.Error("expected no command when selecting the current status")
	}
}

func TestComment_SubmitFlow(t *testing.T) {
	d := New(sampleDefect(), 100, 40)

	// Enter comment mode, type, submit.
	model, _ := d.Update(keyRunes("c"))
	d = model.(*Detail)
	if !d.commenting {
		t.Fatal("expected comment mode after c")
	}

	for _, r := range "needs rework" {
		model, _ = d.Update(keyRunes(string(r)))
		d = model.(*Detail)
	}

	_, cmd := d.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on enter")
	}
	msg, ok := cmd().(CommentSubmittedMsg)
	if !ok {
		t.Fatalf("expected CommentSubmittedMsg, got %T", cmd())
	}
	if msg.Content != "needs rework" {
		t.Errorf("expected typed content, got %q", msg.Content)
	}
}

func TestComment_EscCancels(t *testing.T) {
	d := New(sampleDefect(), 100, 40)

	model, _ := d.Update(keyRunes("c"))
	d = model.(*Detail)

	model, cmd := d.Update(tea.KeyMsg{Type: tea.KeyEsc})
	d = model.(*Detail)
	if d.commenting {
		t.Error("expected comment mode to end on esc")
	}
	if cmd != nil {
		t.Error("expected no message on cancel")
	}
}

func TestComment_EmptySubmitIgnored(t *testing.T) {
	d := New(sampleDefect(), 100, 40)

	model, _ := d.Update(keyRunes("c"))
	d = model.(*Detail)

	_, cmd := d.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected empty comment to be dropped")
	}
}
