// Package testdata holds a small published beatmap shared by tests.
package testdata

import (
	_ "embed"
	"encoding/json"

	"git.lost.host/meutraa/keytap/internal/game"
)

//go:embed beatmap.json
var data []byte

// Beatmap returns the parsed fixture, without its difficulty rating applied.
func Beatmap() (*game.Beatmap, error) {
	var b game.Beatmap
	if err := json.Unmarshal(data, &b); nil != err {
		return nil, err
	}
	return &b, nil
}

// Raw is the fixture document as it is stored on disk.
func Raw() []byte {
	out := make([]byte, len(data))
	copy(out, data)
	return out
}
