package score

import (
	"sort"

	"git.lost.host/meutraa/keytap/internal/game"
)

// Replay judges recorded inputs against notes as if they had been played
// live, ticking the session at every input before judging it.
func Replay(notes []game.Note, inputs []game.Input, opts ...Option) Result {
	ins := make([]game.Input, len(inputs))
	copy(ins, inputs)
	sort.SliceStable(ins, func(i, j int) bool {
		return ins[i].Time < ins[j].Time
	})

	s := NewSession(notes, opts...)
	for _, in := range ins {
		s.Tick(in.Time)
		s.OnKeyEvent(in.Lane, in.Time)
	}
	s.Tick(s.endTime())

	result, _ := s.Result()
	return result
}

// Rejudge replays a stored result with the session settings it was played
// with.
func Rejudge(notes []game.Note, r *Result) Result {
	var opts []Option
	if r.ApproachTime > 0 {
		opts = append(opts, WithApproachTime(r.ApproachTime))
	}
	return Replay(notes, r.Inputs, opts...)
}
