// ABOUTME: Render tests for the dashboard screen
// ABOUTME: Verifies metric blocks and priority breakdown appear in output

package dashboard

import (
	"strings"
	"testing"

	"github.com/sloobman/ControlSystem/internal/api"
)

func sampleStats() *api.DefectStats {
	return &api.DefectStats{
		Total: 12, Open: 5, InProgress: 3, Resolved: 2, Closed: 2,
		ByPriority: api.PriorityCounts{Low: 2, Medium: 5, High: 3, Critical: 2},
	}
}

func TestView_RendersMetrics(t *testing.T) {
	d := New(sampleStats(), 100, 30)

	out := d.View()
	for _, want := range []string{"Site Overview", "Open", "In progress", "Resolved", "Closed"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestView_RendersPriorityBreakdown(t *testing.T) {
	d := New(sampleStats(), 100, 30)

	out := d.View()
	for _, want := range []string{"low", "medium", "high", "critical"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected view to contain priority %q", want)
		}
	}
}

func TestView_NilStats(t *testing.T) {
	d := New(nil, 100, 30)

	out := d.View()
	if out == "" {
		t.Error("expected a placeholder view for missing stats")
	}
}

func TestUpdate_ReplacesStats(t *testing.T) {
	d := New(sampleStats(), 100, 30)

	d.Update(&api.DefectStats{Total: 99})
	if !strings.Contains(d.View(), "99") {
		t.Error("expected updated total in view")
	}
}
