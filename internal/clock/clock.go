// Package clock provides the song position every other component reads.
package clock

import (
	"sync"
	"time"
)

const (
	MinSpeed = 0.1
	MaxSpeed = 5.0
)

// ClampSpeed limits a playback speed multiplier to the supported range.
func ClampSpeed(speed float64) float64 {
	if speed < MinSpeed {
		return MinSpeed
	}
	if speed > MaxSpeed {
		return MaxSpeed
	}
	return speed
}

// SongClock tracks the position in a song in seconds of song time. Wall
// time is scaled by the speed multiplier while playing. The position is
// only moved backwards by Seek.
type SongClock struct {
	mu sync.Mutex

	now      func() time.Time
	speed    float64
	playing  bool
	anchor   time.Time // Wall time when position was last recorded
	position float64
}

func New(speed float64) *SongClock {
	return &SongClock{now: time.Now, speed: ClampSpeed(speed)}
}

// NewWithSource uses now instead of the wall clock.
func NewWithSource(speed float64, now func() time.Time) *SongClock {
	return &SongClock{now: now, speed: ClampSpeed(speed)}
}

func (c *SongClock) advance() {
	t := c.now()
	if c.playing {
		c.position += t.Sub(c.anchor).Seconds() * c.speed
	}
	c.anchor = t
}

// Play starts or resumes the clock.
func (c *SongClock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advance()
	c.playing = true
}

func (c *SongClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advance()
	c.playing = false
}

func (c *SongClock) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Seek moves to position, which may be before the start of the song.
func (c *SongClock) Seek(position float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advance()
	c.position = position
}

// SetSpeed changes the multiplier from now on and returns the clamped value.
func (c *SongClock) SetSpeed(speed float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advance()
	c.speed = ClampSpeed(speed)
	return c.speed
}

func (c *SongClock) Speed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

// Position is the current song time in seconds.
func (c *SongClock) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advance()
	return c.position
}
