package timer

import (
	"testing"
	"time"
)

// fakeClock returns an engine whose clock is the returned pointer; tests
// advance time by mutating it.
func fakeClock(t *testing.T) (*Engine, *time.Time) {
	t.Helper()
	now := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	e := NewWithClock(func() time.Time { return now })
	return e, &now
}

// ============================================================
// Start / Pause / Reset
// ============================================================

func TestStartAnchorsTarget(t *testing.T) {
	e, now := fakeClock(t)
	e.Start()

	s := e.State()
	if !s.Running {
		t.Fatal("expected running after start")
	}
	if s.Target == nil {
		t.Fatal("expected target to be set")
	}
	want := now.Add(25 * time.Minute)
	if !s.Target.Equal(want) {
		t.Fatalf("expected target %v, got %v", want, s.Target)
	}
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	e, now := fakeClock(t)
	e.Start()
	first := *e.State().Target

	*now = now.Add(3 * time.Minute)
	e.Start()
	if !e.State().Target.Equal(first) {
		t.Fatal("second start should not move the target")
	}
}

func TestPauseFreezesRemaining(t *testing.T) {
	e, now := fakeClock(t)
	e.Start()

	*now = now.Add(10 * time.Minute)
	e.Pause()

	s := e.State()
	if s.Running {
		t.Fatal("expected idle after pause")
	}
	if s.Target != nil {
		t.Fatal("pause should clear the target")
	}
	if s.Remaining != 15*60 {
		t.Fatalf("expected 900s remaining, got %d", s.Remaining)
	}

	// Time passing while paused changes nothing.
	*now = now.Add(time.Hour)
	if e.State().Remaining != 15*60 {
		t.Fatal("remaining drifted while paused")
	}
}

func TestStartPauseImmediatelyKeepsFullDuration(t *testing.T) {
	e, _ := fakeClock(t)
	e.Start()
	e.Pause()
	if got := e.State().Remaining; got != 25*60 {
		t.Fatalf("expected 1500s, got %d", got)
	}
}

func TestResumeAfterPause(t *testing.T) {
	e, now := fakeClock(t)
	e.Start()
	*now = now.Add(5 * time.Minute)
	e.Pause()

	*now = now.Add(2 * time.Hour)
	e.Start()
	*now = now.Add(10 * time.Minute)
	e.Tick()
	if got := e.State().Remaining; got != 10*60 {
		t.Fatalf("expected 600s after resume, got %d", got)
	}
}

func TestReset(t *testing.T) {
	e, now := fakeClock(t)
	e.Start()
	*now = now.Add(7 * time.Minute)
	e.Tick()
	e.Reset()

	s := e.State()
	if s.Running || s.Target != nil {
		t.Fatal("reset should stop the countdown")
	}
	if s.Remaining != 25*60 {
		t.Fatalf("expected full duration, got %d", s.Remaining)
	}
	if s.Mode != ModeFocus {
		t.Fatalf("reset should keep the mode, got %v", s.Mode)
	}
}

// ============================================================
// Ticking and completion
// ============================================================

func TestTickRecomputesFromTarget(t *testing.T) {
	e, now := fakeClock(t)
	e.Start()

	// A single tick after a long gap lands on the right value; per-tick
	// decrementing would be far behind.
	*now = now.Add(13*time.Minute + 37*time.Second)
	if done := e.Tick(); done {
		t.Fatal("countdown should not have completed")
	}
	if got := e.State().Remaining; got != 25*60-(13*60+37) {
		t.Fatalf("expected %d, got %d", 25*60-(13*60+37), got)
	}
}

func TestTickWhileIdleIsNoop(t *testing.T) {
	e, now := fakeClock(t)
	*now = now.Add(time.Hour)
	if e.Tick() {
		t.Fatal("idle engine should not advance")
	}
	if e.State().Remaining != 25*60 {
		t.Fatal("idle remaining should be untouched")
	}
}

func TestFocusCompletionAdvancesToBreak(t *testing.T) {
	e, now := fakeClock(t)
	e.Start()
	*now = now.Add(25 * time.Minute)

	if done := e.Tick(); !done {
		t.Fatal("expected completion")
	}
	s := e.State()
	if s.Mode != ModeBreak {
		t.Fatalf("expected break mode, got %v", s.Mode)
	}
	if s.Running {
		t.Fatal("next period must not auto-start")
	}
	if s.Remaining != 5*60 {
		t.Fatalf("expected full break duration, got %d", s.Remaining)
	}
	if s.CompletedFocus != 1 {
		t.Fatalf("expected 1 completed focus cycle, got %d", s.CompletedFocus)
	}
}

func TestBreakCompletionDoesNotCountAsFocus(t *testing.T) {
	e, now := fakeClock(t)
	e.SwitchMode()
	e.Start()
	*now = now.Add(5 * time.Minute)

	if done := e.Tick(); !done {
		t.Fatal("expected completion")
	}
	s := e.State()
	if s.Mode != ModeFocus {
		t.Fatalf("expected focus mode, got %v", s.Mode)
	}
	if s.CompletedFocus != 0 {
		t.Fatalf("break completion must not increment the counter, got %d", s.CompletedFocus)
	}
}

func TestOvershootStillCompletesOnce(t *testing.T) {
	e, now := fakeClock(t)
	e.Start()
	*now = now.Add(3 * time.Hour)

	if done := e.Tick(); !done {
		t.Fatal("expected completion")
	}
	if e.Tick() {
		t.Fatal("idle engine must not complete again")
	}
	if got := e.State().CompletedFocus; got != 1 {
		t.Fatalf("expected exactly 1 completion, got %d", got)
	}
}

// ============================================================
// Mode switching
// ============================================================

func TestSwitchModeSkipsWithoutCredit(t *testing.T) {
	e, now := fakeClock(t)
	e.Start()
	*now = now.Add(20 * time.Minute)
	e.Tick()
	e.SwitchMode()

	s := e.State()
	if s.Mode != ModeBreak {
		t.Fatalf("expected break, got %v", s.Mode)
	}
	if s.Running {
		t.Fatal("switch should leave the engine idle")
	}
	if s.Remaining != 5*60 {
		t.Fatalf("expected full break duration, got %d", s.Remaining)
	}
	if s.CompletedFocus != 0 {
		t.Fatal("manual skip must not count as a completed focus cycle")
	}
}

// ============================================================
// Duration settings
// ============================================================

func TestSetFocusMinutesIdleRefreshesCountdown(t *testing.T) {
	e, _ := fakeClock(t)
	e.SetFocusMinutes(50)
	if got := e.State().Remaining; got != 50*60 {
		t.Fatalf("expected 3000s, got %d", got)
	}
}

func TestSetFocusMinutesRunningKeepsAnchor(t *testing.T) {
	e, now := fakeClock(t)
	e.Start()
	*now = now.Add(time.Minute)
	e.SetFocusMinutes(50)
	e.Tick()
	if got := e.State().Remaining; got != 24*60 {
		t.Fatalf("running countdown should keep its anchor, got %d", got)
	}

	// The new duration applies from the next period on.
	*now = now.Add(24 * time.Minute)
	e.Tick()
	e.SwitchMode()
	if got := e.State().Remaining; got != 50*60 {
		t.Fatalf("expected new focus duration, got %d", got)
	}
}

func TestSetBreakMinutesOnlyTouchesBreakCountdown(t *testing.T) {
	e, _ := fakeClock(t)
	e.SetBreakMinutes(15)
	if got := e.State().Remaining; got != 25*60 {
		t.Fatal("focus countdown should be untouched by break setting")
	}
	e.SwitchMode()
	if got := e.State().Remaining; got != 15*60 {
		t.Fatalf("expected 900s, got %d", got)
	}
}

func TestDurationClamping(t *testing.T) {
	e, _ := fakeClock(t)
	e.SetFocusMinutes(0)
	if got := e.State().FocusMinutes; got != MinMinutes {
		t.Fatalf("expected clamp to %d, got %d", MinMinutes, got)
	}
	e.SetFocusMinutes(500)
	if got := e.State().FocusMinutes; got != MaxMinutes {
		t.Fatalf("expected clamp to %d, got %d", MaxMinutes, got)
	}
}

// ============================================================
// Restore
// ============================================================

func TestRestoreRunningRecomputesFromTarget(t *testing.T) {
	e, now := fakeClock(t)
	target := now.Add(10 * time.Minute)
	e.Restore(State{
		Mode:         ModeFocus,
		Running:      true,
		FocusMinutes: 25,
		BreakMinutes: 5,
		Remaining:    25 * 60, // stale, target wins
		Target:       &target,
	})
	if got := e.State().Remaining; got != 10*60 {
		t.Fatalf("expected 600s recomputed from target, got %d", got)
	}
}

func TestRestoreExpiredTargetHitsZero(t *testing.T) {
	e, now := fakeClock(t)
	target := now.Add(-time.Minute)
	e.Restore(State{Mode: ModeFocus, Running: true, FocusMinutes: 25, BreakMinutes: 5, Target: &target})
	if got := e.State().Remaining; got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	// The next tick performs the advance.
	if done := e.Tick(); !done {
		t.Fatal("expected advance on first tick after restore")
	}
	if e.State().Mode != ModeBreak {
		t.Fatal("expected break mode")
	}
}

func TestRestoreSanitizes(t *testing.T) {
	e, _ := fakeClock(t)
	stray := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	e.Restore(State{Mode: "lunch", FocusMinutes: 0, BreakMinutes: 999, Target: &stray})

	s := e.State()
	if s.Mode != ModeFocus {
		t.Fatalf("unknown mode should fall back to focus, got %v", s.Mode)
	}
	if s.FocusMinutes != MinMinutes || s.BreakMinutes != MaxMinutes {
		t.Fatalf("expected clamped durations, got %d/%d", s.FocusMinutes, s.BreakMinutes)
	}
	if s.Target != nil {
		t.Fatal("idle restore should drop any stray target")
	}
	if s.Remaining != MinMinutes*60 {
		t.Fatalf("expected refreshed countdown, got %d", s.Remaining)
	}
}
