// Package difficulty rates how hard a beatmap is to play.
//
// The rating follows a strain model: every note adds to an overall strain
// and to the strain of the finger that plays it, both decaying
// exponentially with the time between notes. Row changes on a finger, and
// hand movements between rows, cost extra. The strain at each note is
// collected and the peaks are summed with geometrically falling weights.
package difficulty

import (
	"errors"
	"math"
	"sort"

	"git.lost.host/meutraa/keytap/internal/game"
)

var ErrInvalidLane = errors.New("lane has no position")

const (
	decayRate = 0.125 // Fraction of strain left after one second

	overallIncrement    = 1.0
	individualIncrement = 2.0
	rowChangePenalty    = 0.5
	handMovePenalty     = 0.5

	peakWeightFalloff = 0.9
	starMultiplier    = 0.018
)

// Rate computes the difficulty stars of a set of notes. The notes may be
// in any order. A lane without a position is rejected before any strain is
// computed.
func Rate(notes []game.Note) (float64, error) {
	if len(notes) == 0 {
		return 0, nil
	}

	sorted := game.SortedNotes(notes)
	positions := make([]Position, len(sorted))
	for i, n := range sorted {
		pos, err := LanePosition(n.Lane)
		if nil != err {
			return 0, err
		}
		positions[i] = pos
	}

	strains := noteStrains(sorted, positions)
	return weightedPeaks(strains) * starMultiplier, nil
}

// The first note only seeds the finger history, its strain stays 0.
func noteStrains(notes []game.Note, positions []Position) []float64 {
	var (
		overall      float64
		individual   [FingerCount]float64
		lastRow      [FingerCount]float64
		lastFinger   = positions[0].Finger
		strainAtNote = make([]float64, len(notes))
	)
	lastRow[lastFinger] = positions[0].Row

	for i := 1; i < len(notes); i++ {
		pos := positions[i]
		f := pos.Finger

		// delta is never negative on sorted input, a chord decays by 1
		decay := math.Pow(decayRate, notes[i].Time-notes[i-1].Time)
		overall *= decay
		individual[f] *= decay

		overall += overallIncrement
		individual[f] += individualIncrement

		if pos.Row != lastRow[f] {
			individual[f] += rowChangePenalty
			if math.Trunc(pos.Row) != math.Trunc(lastRow[lastFinger]) {
				overall += handMovePenalty
			}
		}

		lastRow[f] = pos.Row
		lastFinger = f
		strainAtNote[i] = overall + individual[f]
	}
	return strainAtNote
}

func weightedPeaks(strains []float64) float64 {
	peaks := make([]float64, len(strains))
	copy(peaks, strains)
	sort.Sort(sort.Reverse(sort.Float64Slice(peaks)))

	sum := 0.0
	weight := 1.0
	for _, s := range peaks {
		sum += s * weight
		weight *= peakWeightFalloff
	}
	return sum
}
