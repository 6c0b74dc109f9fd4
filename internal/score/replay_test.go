package score

import (
	"sort"
	"testing"

	"git.lost.host/meutraa/keytap/internal/game"
	"git.lost.host/meutraa/keytap/internal/testdata"
)

func TestReplayPerfectPlay(t *testing.T) {
	b, err := testdata.Beatmap()
	if nil != err {
		t.Fatal("unable to parse beatmap", err)
	}
	inputs := make([]game.Input, len(b.Notes))
	for i, n := range b.Notes {
		inputs[i] = game.Input{Lane: n.Lane, Time: n.Time}
	}

	result := Replay(b.Notes, inputs)
	if result.Rank != game.RankSS || result.Greats != len(b.Notes) || result.MaxCombo != len(b.Notes) {
		t.Errorf("perfect play scored %+v", result)
	}
}

var replayTests = []struct {
	name     string
	inputs   []game.Input
	expected Result
}{
	{
		name:     "no inputs",
		inputs:   nil,
		expected: Result{Rank: game.RankF, Misses: 3},
	},
	{
		name: "out of order inputs",
		inputs: []game.Input{
			{Lane: 2, Time: 3.05},
			{Lane: 0, Time: 1},
			{Lane: 1, Time: 1.88},
		},
		expected: Result{Rank: game.RankC, Score: 330 + 360 + 390, MaxCombo: 3, Greats: 2, Goods: 1},
	},
	{
		name: "stray presses are ignored",
		inputs: []game.Input{
			{Lane: 7, Time: 0.5},
			{Lane: 0, Time: 1},
			{Lane: 0, Time: 1.01},
			{Lane: 1, Time: 2},
			{Lane: 2, Time: 3},
			{Lane: 40, Time: 3},
		},
		expected: Result{Rank: game.RankSS, Score: 330 + 360 + 390, MaxCombo: 3, Greats: 3},
	},
	{
		name: "miss in the middle",
		inputs: []game.Input{
			{Lane: 0, Time: 1},
			{Lane: 2, Time: 3},
		},
		expected: Result{Rank: game.RankD, Score: 330 + 330, MaxCombo: 1, Greats: 2, Misses: 1},
	},
}

func TestReplay(t *testing.T) {
	notes := []game.Note{{Lane: 0, Time: 1}, {Lane: 1, Time: 2}, {Lane: 2, Time: 3}}
	for _, test := range replayTests {
		r := Replay(notes, test.inputs)
		e := test.expected
		if r.Rank != e.Rank || r.Score != e.Score || r.MaxCombo != e.MaxCombo ||
			r.Greats != e.Greats || r.Goods != e.Goods || r.OKs != e.OKs || r.Misses != e.Misses {
			t.Log("Test    ", test.name)
			t.Log("Result  ", r)
			t.Log("Expected", e)
			t.Fail()
		}
		if len(r.Inputs) != len(test.inputs) {
			t.Errorf("%v: recorded %v inputs, expected %v", test.name, len(r.Inputs), len(test.inputs))
		}
	}
}

func TestReplayMatchesLiveSession(t *testing.T) {
	b, err := testdata.Beatmap()
	if nil != err {
		t.Fatal(err)
	}

	// A live loop delivers the presses of a frame, then ticks
	s := NewSession(b.Notes)
	offsets := []float64{0.02, -0.12, 0.05, 0.19, -0.3, 0.01, 0, -0.08, 0.04, 0.06, 0.5, -0.01}
	var pending []game.Input
	for i, n := range s.Notes() {
		pending = append(pending, game.Input{Lane: n.Lane, Time: n.Time + offsets[i]})
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Time < pending[j].Time })
	for frame := 0; !s.Ended(); frame++ {
		now := float64(frame) / 1000
		for len(pending) > 0 && pending[0].Time <= now {
			s.OnKeyEvent(pending[0].Lane, pending[0].Time)
			pending = pending[1:]
		}
		s.Tick(now)
	}
	live, _ := s.Result()

	replayed := Replay(b.Notes, live.Inputs)
	if replayed.Score != live.Score || replayed.Rank != live.Rank || replayed.Misses != live.Misses ||
		replayed.Greats != live.Greats || replayed.Goods != live.Goods || replayed.OKs != live.OKs {
		t.Log("Live    ", live)
		t.Log("Replayed", replayed)
		t.Fail()
	}
}

// liveSession plays presses through a 240 Hz frame loop, delivering the
// presses of a frame before ticking it.
func liveSession(notes []game.Note, presses []game.Input, opts ...Option) Result {
	s := NewSession(notes, opts...)
	for frame := 0; !s.Ended(); frame++ {
		now := float64(frame) / 240
		for len(presses) > 0 && presses[0].Time <= now {
			s.OnKeyEvent(presses[0].Lane, presses[0].Time)
			presses = presses[1:]
		}
		s.Tick(now)
	}
	r, _ := s.Result()
	return r
}

func TestRejudgeUsesPlayedApproachTime(t *testing.T) {
	notes := []game.Note{{Lane: 0, Time: 1}}
	// Early enough to hit with the default approach time, but the note
	// is not shown yet with a short one
	presses := []game.Input{{Lane: 0, Time: 0.75}}

	live := liveSession(notes, presses, WithApproachTime(0.2))
	if live.Misses != 1 || live.Score != 0 || live.ApproachTime != 0.2 {
		t.Fatalf("live play %+v", live)
	}

	rejudged := Rejudge(notes, &live)
	if rejudged.Score != live.Score || rejudged.Rank != live.Rank || rejudged.Misses != live.Misses {
		t.Log("Live    ", live)
		t.Log("Rejudged", rejudged)
		t.Fail()
	}

	// Replaying with the default approach time does not reproduce it
	if Replay(notes, live.Inputs).Score == live.Score {
		t.Error("default approach time should judge the early press")
	}
}

func TestRejudgeOlderRecords(t *testing.T) {
	notes := []game.Note{{Lane: 0, Time: 1}}
	r := Result{Inputs: []game.Input{{Lane: 0, Time: 0.75}}}
	if got := Rejudge(notes, &r); got.OKs != 1 || got.ApproachTime != DefaultApproachTime {
		t.Errorf("record without approach time rejudged to %+v", got)
	}
}
