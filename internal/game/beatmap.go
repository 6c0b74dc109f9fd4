package game

import (
	"sort"
)

type Metadata struct {
	SongName           string  `json:"songName"`
	Artist             string  `json:"artist"`
	DifficultyName     string  `json:"difficultyName"`
	AudioFileName      string  `json:"audioFileName"`
	BackgroundFileName string  `json:"backgroundFileName"`
	PreviewTime        float64 `json:"previewTime"`
	BPM                float64 `json:"bpm"`
	SongLength         float64 `json:"songLength"` // In seconds
	OffsetMs           float64 `json:"offsetMs"`

	// Written by the difficulty estimator when the map is published
	DifficultyStars float64 `json:"difficultyStars"`
}

type Beatmap struct {
	Metadata Metadata `json:"metadata"`
	Notes    []Note   `json:"notes"`

	// Where the beatmap was loaded from, empty for unsaved maps
	Path string `json:"-"`
}

// SortedNotes returns a copy of the notes ordered by time. Notes sharing a
// timestamp keep their original order.
func SortedNotes(notes []Note) []Note {
	sorted := make([]Note, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})
	return sorted
}

// LastNoteTime is the latest scheduled time, 0 for an empty map.
func (b *Beatmap) LastNoteTime() float64 {
	last := 0.0
	for _, n := range b.Notes {
		if n.Time > last {
			last = n.Time
		}
	}
	return last
}
