// Package player provides a silent playback clock. It follows a track's
// position in wall-clock time so lyrics can be played back without
// decoding any audio.
package player

import (
	"sync"
	"time"
)

// Interface defines the player contract for dependency injection and testing.
type Interface interface {
	Play(from time.Duration)
	Stop()
	Pause()
	Resume()
	Toggle()
	State() State
	Position() time.Duration
	Duration() time.Duration
	Seek(delta time.Duration)
	SeekTo(pos time.Duration)
	Finished() bool
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)

// Player advances a playback position at a fixed speed.
type Player struct {
	mu       sync.Mutex
	state    State
	duration time.Duration
	speed    float64
	now      func() time.Time

	// Position at the last state change, and when it happened
	base    time.Duration
	started time.Time
}

// Option configures a Player.
type Option func(*Player)

// WithSpeed sets the playback speed. Non-positive values are ignored.
func WithSpeed(speed float64) Option {
	return func(p *Player) {
		if speed > 0 {
			p.speed = speed
		}
	}
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Player) {
		p.now = now
	}
}

// New creates a stopped player for a track of the given duration. A zero
// duration means the length is unknown and playback never finishes.
func New(duration time.Duration, opts ...Option) *Player {
	p := &Player{
		duration: max(duration, 0),
		speed:    1,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play starts playback at from.
func (p *Player) Play(from time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base = p.clamp(from)
	p.started = p.now()
	p.state = Playing
}

// Stop stops playback and rewinds to the start.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = Stopped
	p.base = 0
}

// Pause pauses playback.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Playing {
		return
	}
	p.base = p.position()
	p.state = Paused
}

// Resume resumes paused playback.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Paused {
		return
	}
	p.started = p.now()
	p.state = Playing
}

// Toggle toggles between playing and paused states.
func (p *Player) Toggle() {
	switch p.State() {
	case Playing:
		p.Pause()
	case Paused:
		p.Resume()
	case Stopped:
		// Nothing to toggle when stopped
	}
}

// State returns the current playback state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position()
}

// Duration returns the track duration, or 0 when unknown.
func (p *Player) Duration() time.Duration {
	return p.duration
}

// Speed returns the playback speed.
func (p *Player) Speed() float64 {
	return p.speed
}

// Seek moves the playback position by delta.
func (p *Player) Seek(delta time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Stopped {
		return
	}
	p.seekTo(p.position() + delta)
}

// SeekTo moves the playback position to pos.
func (p *Player) SeekTo(pos time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Stopped {
		return
	}
	p.seekTo(pos)
}

// Finished reports whether playback reached the end of a track of known
// duration.
func (p *Player) Finished() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == Playing && p.duration > 0 && p.position() >= p.duration
}

func (p *Player) seekTo(pos time.Duration) {
	p.base = p.clamp(pos)
	p.started = p.now()
}

func (p *Player) position() time.Duration {
	if p.state != Playing {
		return p.base
	}
	elapsed := float64(p.now().Sub(p.started)) * p.speed
	return p.clamp(p.base + time.Duration(elapsed))
}

func (p *Player) clamp(pos time.Duration) time.Duration {
	pos = max(pos, 0)
	if p.duration > 0 {
		pos = min(pos, p.duration)
	}
	return pos
}
