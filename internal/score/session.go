package score

import (
	"math"

	"git.lost.host/meutraa/keytap/internal/game"
)

const (
	DefaultApproachTime = 0.6  // Seconds before its time that a note is shown
	DefaultMissTimeout  = 0.15 // Seconds after its time that a shown note is missed
	DefaultEndDelay     = 1.0  // Seconds after the last note that the play ends

	basePoints = 300
)

type Stats struct {
	Combo          int
	MaxCombo       int
	Score          int
	TotalHits      int // Judged notes, misses included
	AccuracyPoints float64
	Greats         int
	Goods          int
	OKs            int
	Misses         int
}

// Accuracy is a percentage, 100 before anything has been judged.
func (s Stats) Accuracy() float64 {
	if s.TotalHits == 0 {
		return 100
	}
	return s.AccuracyPoints / float64(s.TotalHits) * 100
}

func (s *Stats) count(tier game.Tier) {
	switch tier {
	case game.Great:
		s.Greats++
	case game.Good:
		s.Goods++
	case game.OK:
		s.OKs++
	case game.Miss:
		s.Misses++
	}
}

type Option func(*Session)

func WithApproachTime(seconds float64) Option {
	return func(s *Session) { s.approachTime = seconds }
}

func WithMissTimeout(seconds float64) Option {
	return func(s *Session) { s.missTimeout = seconds }
}

func WithEndDelay(seconds float64) Option {
	return func(s *Session) { s.endDelay = seconds }
}

// Session judges one play of a note schedule. It must be driven from a
// single goroutine, and song time passed to Tick must not go backwards:
// a caller that seeks backwards starts a new Session.
type Session struct {
	notes  []game.Note
	states []game.NoteState

	approachTime float64
	missTimeout  float64
	endDelay     float64

	stats    Stats
	inputs   []game.Input
	lastTick float64
	ended    bool
	result   Result
}

func NewSession(notes []game.Note, opts ...Option) *Session {
	s := &Session{
		notes:        game.SortedNotes(notes),
		approachTime: DefaultApproachTime,
		missTimeout:  DefaultMissTimeout,
		endDelay:     DefaultEndDelay,
		lastTick:     math.Inf(-1),
	}
	s.states = make([]game.NoteState, len(s.notes))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notes are in schedule order, the order State indexes.
func (s *Session) Notes() []game.Note {
	return s.notes
}

func (s *Session) State(index int) game.NoteState {
	return s.states[index]
}

func (s *Session) Stats() Stats {
	return s.stats
}

// Inputs returns every key event the session received.
func (s *Session) Inputs() []game.Input {
	return s.inputs
}

func (s *Session) Ended() bool {
	return s.ended
}

// Result is only valid once the session has ended.
func (s *Session) Result() (Result, bool) {
	return s.result, s.ended
}

func (s *Session) endTime() float64 {
	last := 0.0
	if len(s.notes) > 0 {
		last = s.notes[len(s.notes)-1].Time
	}
	return last + s.endDelay
}

// Tick advances the session to songTime: notes inside the approach time
// are shown, shown notes past the miss timeout are missed, and the session
// ends once the last note is far enough behind. It returns how many notes
// were missed. A songTime earlier than a previous tick is ignored.
func (s *Session) Tick(songTime float64) int {
	if s.ended || songTime < s.lastTick {
		return 0
	}
	s.lastTick = songTime

	for i, n := range s.notes {
		if s.states[i] == game.Pending && n.Time-songTime <= s.approachTime {
			s.states[i] = game.Shown
		}
	}

	missed := 0
	for i, n := range s.notes {
		if s.states[i] == game.Shown && songTime-n.Time > s.missTimeout {
			s.states[i] = game.Missed
			s.stats.Combo = 0
			s.stats.TotalHits++
			s.stats.count(game.Miss)
			missed++
		}
	}

	if songTime >= s.endTime() {
		s.finish()
	}
	return missed
}

// OnKeyEvent judges a key press against the shown notes of its lane. The
// first shown note in schedule order within the hit window is taken. When
// there is none the press is ignored and the boolean is false.
func (s *Session) OnKeyEvent(lane int, songTime float64) (game.Judgement, bool) {
	if s.ended {
		return game.Judgement{}, false
	}
	s.inputs = append(s.inputs, game.Input{Lane: lane, Time: songTime})

	for i, n := range s.notes {
		if s.states[i] != game.Shown || n.Lane != lane {
			continue
		}
		judgement, ok := game.Judge(math.Abs(songTime - n.Time))
		if !ok {
			continue
		}

		s.states[i] = game.Hit
		s.stats.Combo++
		if s.stats.Combo > s.stats.MaxCombo {
			s.stats.MaxCombo = s.stats.Combo
		}
		s.stats.Score += int(math.Round(basePoints * (1 + float64(s.stats.Combo)/10)))
		s.stats.TotalHits++
		s.stats.AccuracyPoints += judgement.Weight
		s.stats.count(judgement.Tier)
		return judgement, true
	}
	return game.Judgement{}, false
}

func (s *Session) finish() {
	s.ended = true
	acc := s.stats.Accuracy()
	s.result = Result{
		Rank:     game.RankFor(acc, s.stats.Misses),
		Score:    s.stats.Score,
		Accuracy: acc,
		MaxCombo: s.stats.MaxCombo,
		Greats:   s.stats.Greats,
		Goods:    s.stats.Goods,
		OKs:      s.stats.OKs,
		Misses:   s.stats.Misses,
		Inputs:   s.inputs,

		ApproachTime: s.approachTime,
	}
}
