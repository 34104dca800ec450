package player

import (
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestPlayer(duration time.Duration, opts ...Option) (*Player, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	opts = append(opts, WithClock(clock.now))
	return New(duration, opts...), clock
}

func TestPlayer_StateTransitions(t *testing.T) {
	t.Run("Stopped to Playing via Play", func(t *testing.T) {
		p, _ := newTestPlayer(time.Minute)
		if p.State() != Stopped {
			t.Fatalf("initial state = %v, want Stopped", p.State())
		}

		p.Play(0)

		if p.State() != Playing {
			t.Errorf("state after Play = %v, want Playing", p.State())
		}
	})

	t.Run("Playing to Paused and back", func(t *testing.T) {
		p, _ := newTestPlayer(time.Minute)
		p.Play(0)

		p.Pause()
		if p.State() != Paused {
			t.Errorf("state after Pause = %v, want Paused", p.State())
		}

		p.Resume()
		if p.State() != Playing {
			t.Errorf("state after Resume = %v, want Playing", p.State())
		}
	})

	t.Run("Stop rewinds", func(t *testing.T) {
		p, clock := newTestPlayer(time.Minute)
		p.Play(0)
		clock.advance(5 * time.Second)
		p.Pause()

		p.Stop()

		if p.State() != Stopped {
			t.Errorf("state after Stop = %v, want Stopped", p.State())
		}
		if p.Position() != 0 {
			t.Errorf("Position() = %v, want 0", p.Position())
		}
	})
}

func TestPlayer_Toggle(t *testing.T) {
	p, _ := newTestPlayer(time.Minute)

	p.Toggle()
	if p.State() != Stopped {
		t.Errorf("state after Toggle = %v, want Stopped", p.State())
	}

	p.Play(0)
	p.Toggle()
	if p.State() != Paused {
		t.Errorf("state after Toggle = %v, want Paused", p.State())
	}
	p.Toggle()
	if p.State() != Playing {
		t.Errorf("state after Toggle = %v, want Playing", p.State())
	}
}

func TestPlayer_NoOpTransitions(t *testing.T) {
	p, _ := newTestPlayer(time.Minute)

	p.Pause()
	p.Resume()
	p.Seek(time.Second)
	p.SeekTo(10 * time.Second)

	if p.State() != Stopped {
		t.Errorf("state = %v, want Stopped", p.State())
	}
	if p.Position() != 0 {
		t.Errorf("Position() = %v, want 0", p.Position())
	}
}

func TestPlayer_PositionFollowsClock(t *testing.T) {
	p, clock := newTestPlayer(time.Minute)
	p.Play(2 * time.Second)

	clock.advance(1500 * time.Millisecond)
	if got := p.Position(); got != 3500*time.Millisecond {
		t.Errorf("Position() = %v, want 3.5s", got)
	}

	// Paused time does not count
	p.Pause()
	clock.advance(10 * time.Second)
	if got := p.Position(); got != 3500*time.Millisecond {
		t.Errorf("Position() while paused = %v, want 3.5s", got)
	}

	p.Resume()
	clock.advance(500 * time.Millisecond)
	if got := p.Position(); got != 4*time.Second {
		t.Errorf("Position() after resume = %v, want 4s", got)
	}
}

func TestPlayer_Speed(t *testing.T) {
	p, clock := newTestPlayer(0, WithSpeed(2))
	p.Play(0)

	clock.advance(3 * time.Second)

	if got := p.Position(); got != 6*time.Second {
		t.Errorf("Position() = %v, want 6s", got)
	}
	if p.Speed() != 2 {
		t.Errorf("Speed() = %v, want 2", p.Speed())
	}

	if New(0, WithSpeed(-1)).Speed() != 1 {
		t.Error("non-positive speed should be ignored")
	}
}

func TestPlayer_Seek(t *testing.T) {
	p, clock := newTestPlayer(time.Minute)
	p.Play(10 * time.Second)
	clock.advance(time.Second)

	p.Seek(5 * time.Second)
	if got := p.Position(); got != 16*time.Second {
		t.Errorf("Position() after Seek(+5s) = %v, want 16s", got)
	}

	p.Seek(-time.Hour)
	if got := p.Position(); got != 0 {
		t.Errorf("Position() after Seek(-1h) = %v, want 0", got)
	}

	p.SeekTo(2 * time.Minute)
	if got := p.Position(); got != time.Minute {
		t.Errorf("Position() after SeekTo past end = %v, want 1m", got)
	}
}

func TestPlayer_Finished(t *testing.T) {
	p, clock := newTestPlayer(10 * time.Second)
	p.Play(0)

	clock.advance(9 * time.Second)
	if p.Finished() {
		t.Error("Finished() = true before the end")
	}

	clock.advance(5 * time.Second)
	if !p.Finished() {
		t.Error("Finished() = false after the end")
	}
	if got := p.Position(); got != 10*time.Second {
		t.Errorf("Position() = %v, want clamped to 10s", got)
	}

	// Unknown duration never finishes
	u, uclock := newTestPlayer(0)
	u.Play(0)
	uclock.advance(time.Hour)
	if u.Finished() {
		t.Error("Finished() = true for unknown duration")
	}
}
