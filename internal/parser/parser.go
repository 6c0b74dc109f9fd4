package parser

import (
	"errors"

	"git.lost.host/meutraa/keytap/internal/game"
)

var ErrInvalidBeatmap = errors.New("invalid beatmap")

type Parser interface {
	// Parse a single beatmap document
	Parse(file string) (*game.Beatmap, error)

	// Discover every beatmap below a directory, easiest first
	Discover(dir string) ([]*game.Beatmap, error)

	// Write rates the beatmap and stores it in dir, returning the path
	Write(dir string, beatmap *game.Beatmap) (string, error)
}
