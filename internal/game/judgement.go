package game

type Tier uint8

const (
	Great Tier = iota
	Good
	OK
	Miss
)

func (t Tier) String() string {
	switch t {
	case Great:
		return "Great"
	case Good:
		return "Good"
	case OK:
		return "OK"
	case Miss:
		return "Miss"
	}
	return "?"
}

type Judgement struct {
	Tier   Tier
	Window float64 // Largest absolute offset in seconds that still earns this tier
	Weight float64 // Accuracy points earned
}

// Judgements are ordered from tightest to loosest window. Miss has no
// window, it is assigned by timeout.
var Judgements = []Judgement{
	{Tier: Great, Window: 0.10, Weight: 1},
	{Tier: Good, Window: 0.20, Weight: 1.0 / 3},
	{Tier: OK, Window: 0.30, Weight: 1.0 / 6},
	{Tier: Miss, Window: -1, Weight: 0},
}

// HitWindow is the loosest offset at which a key press can hit a note.
func HitWindow() float64 {
	return Judgements[len(Judgements)-2].Window
}

// Judge classifies an absolute offset. The boolean is false when the offset
// is outside every hit window.
func Judge(abs float64) (Judgement, bool) {
	for i := 0; i < len(Judgements)-1; i++ {
		if abs <= Judgements[i].Window {
			return Judgements[i], true
		}
	}
	return Judgement{}, false
}
