package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.lost.host/meutraa/keytap/internal/difficulty"
	"git.lost.host/meutraa/keytap/internal/game"
	"github.com/charmbracelet/log"
)

type DefaultParser struct{}

func (p *DefaultParser) Parse(file string) (*game.Beatmap, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, err
	}

	var b game.Beatmap
	if err := json.Unmarshal(data, &b); nil != err {
		return nil, fmt.Errorf("%w: %v: %v", ErrInvalidBeatmap, file, err)
	}
	if err := validate(&b); nil != err {
		return nil, fmt.Errorf("%v: %w", file, err)
	}
	b.Path = file
	return &b, nil
}

// validate rejects maps that would hand the game a partial note schedule.
func validate(b *game.Beatmap) error {
	for i, n := range b.Notes {
		if !game.ValidLane(n.Lane) {
			return fmt.Errorf("%w: note %v has lane %v", ErrInvalidBeatmap, i, n.Lane)
		}
		if n.Time < 0 {
			return fmt.Errorf("%w: note %v has time %v", ErrInvalidBeatmap, i, n.Time)
		}
	}
	if b.Metadata.DifficultyStars < 0 {
		return fmt.Errorf("%w: negative difficulty %v", ErrInvalidBeatmap, b.Metadata.DifficultyStars)
	}
	return nil
}

// Discover walks dir for .json beatmaps. Files that do not parse are
// skipped, as are score records.
func (p *DefaultParser) Discover(dir string) ([]*game.Beatmap, error) {
	beatmaps := []*game.Beatmap{}
	if err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		if info.IsDir() || filepath.Ext(info.Name()) != ".json" || strings.HasPrefix(info.Name(), "score_") {
			return nil
		}
		b, err := p.Parse(path)
		if nil != err {
			log.Warn("skipping beatmap", "file", path, "err", err)
			return nil
		}
		beatmaps = append(beatmaps, b)
		return nil
	}); nil != err {
		return nil, fmt.Errorf("unable to walk beatmap directory: %w", err)
	}

	sort.SliceStable(beatmaps, func(i, j int) bool {
		return beatmaps[i].Metadata.DifficultyStars < beatmaps[j].Metadata.DifficultyStars
	})
	return beatmaps, nil
}

// FileName is the document name a beatmap is published under.
func FileName(m *game.Metadata) string {
	return strings.ReplaceAll(m.SongName, " ", "_") + "_" + strings.ReplaceAll(m.DifficultyName, " ", "_") + ".json"
}

func (p *DefaultParser) Write(dir string, b *game.Beatmap) (string, error) {
	stars, err := difficulty.Rate(b.Notes)
	if nil != err {
		return "", fmt.Errorf("unable to rate beatmap: %w", err)
	}
	b.Metadata.DifficultyStars = stars
	if nil == b.Notes {
		b.Notes = []game.Note{}
	}

	if err := os.MkdirAll(dir, 0o755); nil != err {
		return "", fmt.Errorf("unable to create beatmap directory: %w", err)
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if nil != err {
		return "", err
	}
	path := filepath.Join(dir, FileName(&b.Metadata))
	if err := os.WriteFile(path, data, 0o644); nil != err {
		return "", fmt.Errorf("unable to write beatmap: %w", err)
	}
	b.Path = path
	log.Info("published beatmap", "path", path, "stars", fmt.Sprintf("%.2f", stars))
	return path, nil
}
