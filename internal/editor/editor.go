// Package editor records notes for a new beatmap.
package editor

import (
	"fmt"
	"math"

	"git.lost.host/meutraa/keytap/internal/difficulty"
	"git.lost.host/meutraa/keytap/internal/game"
)

// Notes snap to sixteenths, four per beat.
const snapDivisor = 4

// Editor collects notes placed while a song plays. The zero value is not
// usable, create one with New.
type Editor struct {
	bpm      float64
	offsetMs float64
	notes    []game.Note
}

func New(bpm, offsetMs float64) (*Editor, error) {
	if bpm <= 0 || math.IsNaN(bpm) || math.IsInf(bpm, 0) {
		return nil, fmt.Errorf("bpm must be positive, got %v", bpm)
	}
	return &Editor{bpm: bpm, offsetMs: offsetMs}, nil
}

func (e *Editor) BPM() float64 { return e.bpm }

// Snap rounds a song time to the nearest sixteenth of a beat.
func (e *Editor) Snap(t float64) float64 {
	sixteenth := 60 / e.bpm / snapDivisor
	return math.Round(t/sixteenth) * sixteenth
}

// RawTime applies the map offset to a clock position.
func (e *Editor) RawTime(position float64) float64 {
	return position + e.offsetMs/1000
}

// AddNote places a note on lane at the snapped raw time of position.
func (e *Editor) AddNote(lane int, position float64) (game.Note, error) {
	if !game.ValidLane(lane) {
		return game.Note{}, fmt.Errorf("%w: %v", difficulty.ErrInvalidLane, lane)
	}
	t := e.Snap(e.RawTime(position))
	if t < 0 {
		t = 0
	}
	n := game.Note{Lane: lane, Time: t}
	e.notes = append(e.notes, n)
	return n, nil
}

func (e *Editor) Notes() []game.Note {
	out := make([]game.Note, len(e.notes))
	copy(out, e.notes)
	return out
}

// Clear removes every placed note.
func (e *Editor) Clear() {
	e.notes = nil
}

// Publish builds the beatmap from the placed notes, with the editor's
// timing and a fresh difficulty rating.
func (e *Editor) Publish(meta game.Metadata) (*game.Beatmap, error) {
	stars, err := difficulty.Rate(e.notes)
	if nil != err {
		return nil, err
	}
	meta.BPM = e.bpm
	meta.OffsetMs = e.offsetMs
	meta.DifficultyStars = stars
	return &game.Beatmap{Metadata: meta, Notes: e.Notes()}, nil
}
