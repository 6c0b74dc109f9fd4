package difficulty

import (
	"fmt"

	"git.lost.host/meutraa/keytap/internal/game"
)

// FingerCount covers both hands, thumbs excluded. Finger 0 is the left
// pinky, finger 7 the right pinky.
const FingerCount = 8

// Lane order is A-Z then , . ; /
var (
	laneToFinger = [game.LaneCount]int{
		0, 3, 2, 2, 2, 3, 3, 4, 5, 4, // a b c d e f g h i j
		5, 6, 4, 4, 6, 7, 0, 3, 1, 3, // k l m n o p q r s t
		4, 3, 1, 1, 4, 0, // u v w x y z
		5, 6, 7, 7, // , . ; /
	}

	// Top row 0, home row 1, bottom row 2. The inner index column is
	// staggered half a row.
	laneToRow = [game.LaneCount]float64{
		1, 2.5, 2, 1, 0, 1, 1.5, 1.5, 0, 1, // a b c d e f g h i j
		1, 1, 2, 2.5, 0, 0, 0, 0, 1, 0.5, // k l m n o p q r s t
		0, 2, 0, 2, 0.5, 2, // u v w x y z
		2, 2, 1, 2, // , . ; /
	}
)

func init() {
	for lane, finger := range laneToFinger {
		if finger < 0 || finger >= FingerCount {
			panic(fmt.Sprintf("lane %v is assigned to finger %v", lane, finger))
		}
	}
}

// Position is where a lane sits under the hands.
type Position struct {
	Finger int
	Row    float64
}

// LanePosition looks up the finger and row of a lane.
func LanePosition(lane int) (Position, error) {
	if !game.ValidLane(lane) {
		return Position{}, fmt.Errorf("%w: %v", ErrInvalidLane, lane)
	}
	return Position{Finger: laneToFinger[lane], Row: laneToRow[lane]}, nil
}
