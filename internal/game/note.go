package game

// LaneCount is the number of input lanes, one per bound key.
const LaneCount = 30

type Note struct {
	Lane int     `json:"lane"` // The input lane, 0-25 are A-Z
	Time float64 `json:"time"` // Seconds from the start of the song
}

// ValidLane reports whether lane has a key and a lane profile entry.
func ValidLane(lane int) bool {
	return lane >= 0 && lane < LaneCount
}

// NoteState is owned by a play session, never by the note itself.
type NoteState uint8

const (
	Pending NoteState = iota
	Shown
	Hit
	Missed
)

func (s NoteState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Shown:
		return "shown"
	case Hit:
		return "hit"
	case Missed:
		return "missed"
	}
	return "unknown"
}

// Terminal reports whether no further transition is possible.
func (s NoteState) Terminal() bool {
	return s == Hit || s == Missed
}
