package game

type Rank string

const (
	RankSS Rank = "SS"
	RankS  Rank = "S"
	RankA  Rank = "A"
	RankB  Rank = "B"
	RankC  Rank = "C"
	RankD  Rank = "D"
	RankF  Rank = "F"
)

// RankFor grades a finished play from its accuracy percentage and miss count.
func RankFor(accuracy float64, misses int) Rank {
	switch {
	case accuracy == 100:
		return RankSS
	case accuracy >= 90 && misses == 0:
		return RankS
	case accuracy >= 90:
		return RankA
	case accuracy >= 80:
		return RankB
	case accuracy >= 70:
		return RankC
	case accuracy >= 60:
		return RankD
	}
	return RankF
}
