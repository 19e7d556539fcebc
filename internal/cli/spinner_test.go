package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerModel(t *testing.T) {
	m := spinnerModel{message: "Shortening..."}
	if cmd := m.Init(); cmd == nil {
		t.Fatal("Init() returned nil, want a tick")
	}

	next, cmd := m.Update(spinnerTickMsg{})
	m = next.(spinnerModel)
	if m.frame != 1 {
		t.Errorf("frame after tick = %d, want 1", m.frame)
	}
	if cmd == nil {
		t.Error("tick did not schedule another tick")
	}
	if !strings.Contains(m.View(), "Shortening...") {
		t.Errorf("View() = %q, want the message", m.View())
	}

	next, cmd = m.Update(spinnerStopMsg{})
	m = next.(spinnerModel)
	if !m.done || cmd == nil {
		t.Error("stop did not finish the model")
	}
	if m.View() != "" {
		t.Errorf("View() after stop = %q, want empty", m.View())
	}
	if _, cmd := m.Update(spinnerTickMsg{}); cmd != nil {
		t.Error("tick after stop scheduled another tick")
	}
}

func TestSpinnerModelFramesWrap(t *testing.T) {
	m := spinnerModel{frame: len(spinnerFrames) - 1}
	next, _ := m.Update(spinnerTickMsg{})
	if got := next.(spinnerModel).frame; got != 0 {
		t.Errorf("frame = %d, want 0", got)
	}
}

func TestSpinnerBasic(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerTo(context.Background(), &buf, "Testing...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if s.Cancelled() {
		t.Error("Cancelled() = true after a plain Stop, want false")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var buf bytes.Buffer
	s := newSpinnerTo(ctx, &buf, "Testing with context...")
	s.Start()

	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	s := newSpinnerTo(ctx, &buf, "Testing with timeout...")
	s.Start()

	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerTo(context.Background(), &buf, "Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerTo(context.Background(), &buf, "never started")
	s.Stop()
	if buf.Len() != 0 {
		t.Errorf("spinner wrote %q without starting", buf.String())
	}
}
