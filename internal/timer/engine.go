// Package timer implements the focus/break countdown as a wall-clock-anchored
// state machine. Remaining time is always recomputed from an absolute target
// instant, so missed ticks, suspends and restarts self-correct instead of
// accumulating drift.
package timer

import (
	"math"
	"time"
)

// Mode is the active countdown period.
type Mode string

const (
	ModeFocus Mode = "focus"
	ModeBreak Mode = "break"
)

const (
	DefaultFocusMinutes = 25
	DefaultBreakMinutes = 5

	// Configured durations are clamped to this range.
	MinMinutes = 1
	MaxMinutes = 90
)

// State is the full serializable engine state. Target is persisted so a
// restart mid-countdown resumes exactly.
type State struct {
	Mode           Mode       `json:"mode"`
	Running        bool       `json:"running"`
	FocusMinutes   int        `json:"focusMinutes"`
	BreakMinutes   int        `json:"breakMinutes"`
	Remaining      int        `json:"remainingSeconds"`
	Target         *time.Time `json:"target,omitempty"`
	CompletedFocus int        `json:"completedFocusCycles"`
}

// DefaultState returns an idle focus period at the default durations.
func DefaultState() State {
	return State{
		Mode:         ModeFocus,
		FocusMinutes: DefaultFocusMinutes,
		BreakMinutes: DefaultBreakMinutes,
		Remaining:    DefaultFocusMinutes * 60,
	}
}

// Engine owns one user's countdown. Not safe for concurrent use; the
// owning session serializes access.
type Engine struct {
	state State
	now   func() time.Time
}

func New() *Engine {
	return &Engine{state: DefaultState(), now: time.Now}
}

// NewWithClock injects the time source, for tests.
func NewWithClock(now func() time.Time) *Engine {
	return &Engine{state: DefaultState(), now: now}
}

// State returns a copy of the current engine state.
func (e *Engine) State() State {
	return e.state
}

// Restore replaces the engine state, sanitizing durations and refreshing
// the cached countdown when a target is pending.
func (e *Engine) Restore(s State) {
	if s.Mode != ModeBreak {
		s.Mode = ModeFocus
	}
	s.FocusMinutes = clampMinutes(s.FocusMinutes)
	s.BreakMinutes = clampMinutes(s.BreakMinutes)
	if !s.Running {
		s.Target = nil
	}
	e.state = s
	if e.state.Running && e.state.Target != nil {
		e.state.Remaining = e.remainingFromTarget()
	} else if e.state.Remaining <= 0 {
		e.state.Remaining = e.durationFor(e.state.Mode)
	}
}

// Start anchors the countdown at now + remaining. No-op while running.
func (e *Engine) Start() {
	if e.state.Running {
		return
	}
	if e.state.Remaining <= 0 {
		e.state.Remaining = e.durationFor(e.state.Mode)
	}
	target := e.now().Add(time.Duration(e.state.Remaining) * time.Second)
	e.state.Target = &target
	e.state.Running = true
}

// Pause freezes the countdown at its current value. No-op while idle.
func (e *Engine) Pause() {
	if !e.state.Running {
		return
	}
	e.state.Remaining = e.remainingFromTarget()
	e.state.Target = nil
	e.state.Running = false
}

// Reset stops the countdown and restores the full duration for the
// current mode.
func (e *Engine) Reset() {
	e.state.Running = false
	e.state.Target = nil
	e.state.Remaining = e.durationFor(e.state.Mode)
}

// Tick recomputes the countdown from the target instant. On reaching zero
// the mode flips and the engine goes idle at the new mode's full duration;
// the next period never auto-starts, so an unattended session cannot loop.
// Returns true when the tick crossed zero and advanced the mode.
func (e *Engine) Tick() bool {
	if !e.state.Running || e.state.Target == nil {
		return false
	}
	e.state.Remaining = e.remainingFromTarget()
	if e.state.Remaining > 0 {
		return false
	}
	if e.state.Mode == ModeFocus {
		e.state.CompletedFocus++
	}
	e.advance()
	return true
}

// SwitchMode skips to the other mode immediately. Behaves like the
// zero-crossing advance except the focus cycle counter is untouched:
// a manual skip is a cancel, not a completion.
func (e *Engine) SwitchMode() {
	e.advance()
}

func (e *Engine) advance() {
	if e.state.Mode == ModeFocus {
		e.state.Mode = ModeBreak
	} else {
		e.state.Mode = ModeFocus
	}
	e.state.Running = false
	e.state.Target = nil
	e.state.Remaining = e.durationFor(e.state.Mode)
}

// SetFocusMinutes updates the focus duration. While idle in focus mode the
// displayed countdown refreshes immediately; a running period keeps its
// anchor until it elapses or is reset.
func (e *Engine) SetFocusMinutes(minutes int) {
	e.state.FocusMinutes = clampMinutes(minutes)
	if !e.state.Running && e.state.Mode == ModeFocus {
		e.state.Remaining = e.state.FocusMinutes * 60
	}
}

// SetBreakMinutes is the break-mode counterpart of SetFocusMinutes.
func (e *Engine) SetBreakMinutes(minutes int) {
	e.state.BreakMinutes = clampMinutes(minutes)
	if !e.state.Running && e.state.Mode == ModeBreak {
		e.state.Remaining = e.state.BreakMinutes * 60
	}
}

func (e *Engine) durationFor(mode Mode) int {
	if mode == ModeBreak {
		return e.state.BreakMinutes * 60
	}
	return e.state.FocusMinutes * 60
}

func (e *Engine) remainingFromTarget() int {
	secs := int(math.Round(e.state.Target.Sub(e.now()).Seconds()))
	if secs < 0 {
		return 0
	}
	return secs
}

func clampMinutes(minutes int) int {
	if minutes < MinMinutes {
		return MinMinutes
	}
	if minutes > MaxMinutes {
		return MaxMinutes
	}
	return minutes
}
