package ui

import (
	"strings"
	"testing"

	"ploy/internal/driver"
)

func TestApplyEvents(t *testing.T) {
	files := []string{"src/a.ply", "src/b.ply"}
	m := newProgressModel("check", files, nil)

	m.applyEvent(driver.PhaseEvent{Path: "src/a.ply", Name: "parse", Status: driver.PhaseStart})
	if m.items[0].status != "parsing" {
		t.Fatalf("status = %q", m.items[0].status)
	}
	if got := m.percent(); got != 0.2 {
		t.Errorf("percent = %v, want 0.2", got)
	}

	m.applyEvent(driver.PhaseEvent{Path: "./src/a.ply", Status: driver.FileDone})
	m.applyEvent(driver.PhaseEvent{Path: "src/b.ply", Status: driver.FileDone, Failed: true})
	m.applyEvent(driver.PhaseEvent{Path: "elsewhere.ply", Status: driver.FileDone})

	if m.items[0].status != "ok" || m.items[1].status != "error" {
		t.Fatalf("items = %+v", m.items)
	}
	if m.finished() != 2 || m.failed != 1 || m.percent() != 1 {
		t.Errorf("finished=%d failed=%d percent=%v", m.finished(), m.failed, m.percent())
	}

	m.Update(doneMsg{})
	view := m.View()
	for _, want := range []string{"done: check (2/2), 1 failed", "src/a.ply", "error"} {
		if !strings.Contains(view, want) {
			t.Errorf("view misses %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a/very/long/path.ply", 10, "a/very/..."},
		{"日本語のパス", 7, "日本..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
