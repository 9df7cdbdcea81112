package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeNode, false},
		{LevelError, ScopeFile, true},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%v.ShouldEmit(%v) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel(DETAIL) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if f, err := ParseFormat("chrome"); err != nil || f != FormatChrome {
		t.Fatalf("ParseFormat(chrome) = %v, %v", f, err)
	}
	if formatFor("out.ndjson") != FormatNDJSON || formatFor("out.json") != FormatChrome || formatFor("out.log") != FormatText {
		t.Fatal("formatFor picked the wrong format")
	}
}

func TestStartSpanNests(t *testing.T) {
	ring := NewRingTracer(16, LevelDebug)
	ctx := WithTracer(context.Background(), ring)

	ctx, outer := StartSpan(ctx, ScopeDriver, "check")
	_, inner := StartSpan(ctx, ScopePass, "parse")
	inner.WithExtra("tokens", "12").End("ok")
	outer.End("")

	evs := ring.Snapshot()
	if len(evs) != 4 {
		t.Fatalf("got %d events, want 4", len(evs))
	}
	if evs[1].ParentID != outer.ID() || evs[1].Name != "parse" {
		t.Errorf("inner begin = %+v, want parent %d", evs[1], outer.ID())
	}
	if evs[2].Kind != KindSpanEnd || evs[2].Extra["tokens"] != "12" || evs[2].Detail != "ok" {
		t.Errorf("inner end = %+v", evs[2])
	}
	if evs[3].SpanID != outer.ID() {
		t.Errorf("last event should close the outer span")
	}
}

func TestFilteredSpanIsInert(t *testing.T) {
	ring := NewRingTracer(16, LevelPhase)
	ctx := WithTracer(context.Background(), ring)
	ctx2, s := StartSpan(ctx, ScopeNode, "scopes")
	s.End("")
	if ctx2 != ctx {
		t.Error("filtered span must not change the context")
	}
	if n := len(ring.Snapshot()); n != 0 {
		t.Errorf("got %d events, want 0", n)
	}
}

func TestRingWraps(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(ring, ScopeDriver, name, "", 0)
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Name)
	}
	if got := strings.Join(names, ""); got != "cde" {
		t.Errorf("snapshot = %q, want %q", got, "cde")
	}
}

func TestChromeStreamIsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelDebug, FormatChrome)
	s := Begin(st, ScopeDriver, "check", 0)
	Point(st, ScopeFile, "file:a.ply", "cached", s.ID())
	s.End("")
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		TraceEvents []struct {
			Name  string `json:"name"`
			Phase string `json:"ph"`
		} `json:"traceEvents"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	var phases string
	for _, ev := range doc.TraceEvents {
		phases += ev.Phase
	}
	if phases != "BiE" {
		t.Errorf("phases = %q, want BiE", phases)
	}
}

func TestMultiTracerFansOut(t *testing.T) {
	var buf bytes.Buffer
	mt := NewMultiTracer(LevelDebug, NewStreamTracer(&buf, LevelDebug, FormatNDJSON), NewRingTracer(8, LevelDebug))
	Point(mt, ScopePass, "lex", "", 0)
	if err := mt.Close(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"name":"lex"`) {
		t.Errorf("stream output = %q", buf.String())
	}
	if r := mt.Ring(); r == nil || len(r.Snapshot()) != 1 {
		t.Error("ring should hold the event")
	}
}

func TestNopContext(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("empty context should yield Nop")
	}
	_, s := StartSpan(context.Background(), ScopeDriver, "x")
	s.End("")
	if s.ID() != 0 {
		t.Error("span under Nop must have id 0")
	}
}

func TestHeartbeatStopNil(t *testing.T) {
	var h *Heartbeat
	h.Stop()
	if StartHeartbeat(Nop, 1) != nil {
		t.Error("heartbeat under Nop should be nil")
	}
}
