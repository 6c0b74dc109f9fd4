package score

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"sort"
	"time"

	"git.lost.host/meutraa/keytap/internal/game"
)

// Store keeps the results of finished plays.
type Store interface {
	Init() error
	Deinit()

	// Save a finished play of the beatmap
	Save(beatmap *game.Beatmap, result *Result) error

	// Load previous plays of the beatmap, best score first
	Load(beatmap *game.Beatmap) ([]Result, error)
}

type Result struct {
	ID       string    `json:"id"`
	Beatmap  string    `json:"beatmap"` // Checksum of the played beatmap
	Rank     game.Rank `json:"rank"`
	Score    int       `json:"score"`
	Accuracy float64   `json:"accuracy"`
	MaxCombo int       `json:"maxCombo"`
	Greats   int       `json:"greats"`
	Goods    int       `json:"goods"`
	OKs      int       `json:"oks"`
	Misses   int       `json:"misses"`
	Speed    float64   `json:"speed"`
	Date     time.Time `json:"date"`

	// Needed to replay the inputs, 0 in records that predate it
	ApproachTime float64 `json:"approachTime,omitempty"`

	Inputs []game.Input `json:"inputs,omitempty"`
}

// Checksum identifies a beatmap by its names and note schedule, so that
// renaming the file keeps its scores.
func Checksum(b *game.Beatmap) string {
	data, _ := json.Marshal(struct {
		Song       string
		Difficulty string
		Notes      []game.Note
	}{b.Metadata.SongName, b.Metadata.DifficultyName, b.Notes})
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// SortByScore orders results for a leaderboard, best first. Equal scores
// keep the earlier play first.
func SortByScore(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Date.Before(results[j].Date)
	})
}

type InputsCompact struct {
	Lane  int
	Times []float64
}

func compactInputs(inputs []game.Input) []InputsCompact {
	laneCount := 0
	for _, i := range inputs {
		if i.Lane >= laneCount {
			laneCount = i.Lane + 1
		}
	}
	ins := make([]InputsCompact, laneCount)
	for lane := range ins {
		ins[lane] = InputsCompact{Lane: lane, Times: []float64{}}
	}
	for _, i := range inputs {
		if i.Lane < 0 {
			continue
		}
		ins[i.Lane].Times = append(ins[i.Lane].Times, i.Time)
	}
	return ins
}

func uncompactInputs(inputs []InputsCompact) []game.Input {
	ins := []game.Input{}
	for _, i := range inputs {
		for _, t := range i.Times {
			ins = append(ins, game.Input{Lane: i.Lane, Time: t})
		}
	}
	return ins
}
