// Package animator walks a displayed risk value toward a target value one
// unit per tick, so the gauge moves smoothly instead of jumping.
package animator

import (
	"sync"
	"time"

	"github.com/secmon-lab/medpredict/pkg/domain/model"
	"github.com/secmon-lab/medpredict/pkg/domain/types"
)

// DefaultInterval is the delay between two ticks
const DefaultInterval = 20 * time.Millisecond

// Animator owns one AnimationState. It is Idle when displayed == target and
// Animating while a tick timer is installed.
//
// The state is mutated only by SetTarget and by ticks, both under mu. Every
// installed timer gets a generation number; a tick whose generation is no
// longer current was cancelled and is discarded.
type Animator struct {
	mu        sync.Mutex
	displayed types.RiskValue
	target    types.RiskValue
	direction types.Direction
	timer     Timer
	gen       uint64
	closed    bool

	interval  time.Duration
	scheduler Scheduler
	onTick    func(model.AnimationState)
}

// Option configures an Animator
type Option func(*Animator)

// WithInterval sets the tick interval
func WithInterval(d time.Duration) Option {
	return func(a *Animator) {
		if d > 0 {
			a.interval = d
		}
	}
}

// WithScheduler replaces the time.Ticker based scheduler
func WithScheduler(s Scheduler) Option {
	return func(a *Animator) {
		if s != nil {
			a.scheduler = s
		}
	}
}

// WithOnTick registers an observer called after every tick with the new state.
// It runs outside the lock and must not block for long.
func WithOnTick(fn func(model.AnimationState)) Option {
	return func(a *Animator) {
		a.onTick = fn
	}
}

// New creates an Idle animator displaying initial. The caller owns the
// animator and must call Close when done with it.
func New(initial types.RiskValue, opts ...Option) *Animator {
	a := &Animator{
		displayed: initial,
		target:    initial,
		interval:  DefaultInterval,
		scheduler: TickerScheduler{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetTarget retargets the animation. Any running timer is cancelled first;
// a new walk starts from the current displayed value. Setting a target equal
// to the displayed value leaves the animator Idle.
func (a *Animator) SetTarget(target types.RiskValue) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}

	a.stopLocked()
	a.target = target
	a.direction = types.DirectionOf(a.displayed, target)
	if a.direction == types.DirectionNone {
		return
	}

	gen := a.gen
	a.timer = a.scheduler.Every(a.interval, func() {
		a.tick(gen)
	})
}

// State returns a snapshot of the animation state
func (a *Animator) State() model.AnimationState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stateLocked()
}

// Displayed returns the value currently presented
func (a *Animator) Displayed() types.RiskValue {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.displayed
}

// Running reports whether a tick timer is installed
func (a *Animator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timer != nil
}

// Close cancels any pending tick. No tick is applied after Close returns.
func (a *Animator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopLocked()
	a.direction = types.DirectionNone
	a.closed = true
}

func (a *Animator) tick(gen uint64) {
	a.mu.Lock()
	if a.closed || a.timer == nil || gen != a.gen {
		a.mu.Unlock()
		return
	}

	a.displayed += types.RiskValue(a.direction)
	if a.displayed == a.target {
		a.stopLocked()
		a.direction = types.DirectionNone
	}
	state := a.stateLocked()
	onTick := a.onTick
	a.mu.Unlock()

	if onTick != nil {
		onTick(state)
	}
}

// stopLocked cancels the installed timer and invalidates its in-flight ticks
func (a *Animator) stopLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.gen++
}

func (a *Animator) stateLocked() model.AnimationState {
	return model.AnimationState{
		Displayed: a.displayed,
		Target:    a.target,
		Direction: a.direction,
		Running:   a.timer != nil,
	}
}
