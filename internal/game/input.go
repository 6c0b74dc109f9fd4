package game

// Input is a key press on a lane at a song time in seconds.
type Input struct {
	Lane int     `json:"lane"`
	Time float64 `json:"time"`
}
