package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerBeginEnd(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("lex")
	tm.End(idx, "12 tokens")
	tm.End(99, "ignored")

	phases := tm.Phases()
	if len(phases) != 1 || phases[0].Name != "lex" || phases[0].Note != "12 tokens" {
		t.Fatalf("phases = %+v", phases)
	}
	if !strings.Contains(tm.Summary(), "// 12 tokens") {
		t.Errorf("summary misses note:\n%s", tm.Summary())
	}
}

func TestTimerAddMerge(t *testing.T) {
	a, b := NewTimer(), NewTimer()
	a.Add("parse", 2*time.Millisecond)
	b.Add("parse", 3*time.Millisecond)
	b.Add("lower", time.Millisecond)
	a.Merge(b)
	a.Merge(a)

	r := a.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %+v", r.Phases)
	}
	if r.Phases[0].DurationMS != 5 || r.Phases[1].Name != "lower" {
		t.Errorf("report = %+v", r)
	}
	if r.TotalMS != 6 {
		t.Errorf("total = %v, want 6", r.TotalMS)
	}
}

func TestTimerConcurrentAdd(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() { tm.Add("file", time.Millisecond) })
	}
	wg.Wait()
	if got := tm.Report().TotalMS; got != 8 {
		t.Errorf("total = %v, want 8", got)
	}
}

func TestEmptyReport(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Errorf("empty report = %+v", r)
	}
}
