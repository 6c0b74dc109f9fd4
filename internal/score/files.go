package score

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.lost.host/meutraa/keytap/internal/game"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const scoresFolder = "Scores"

// FileStore writes one JSON document per play into a Scores folder next
// to the beatmap.
type FileStore struct{}

func (s *FileStore) Init() error { return nil }

func (s *FileStore) Deinit() {}

func (s *FileStore) folder(b *game.Beatmap) (string, error) {
	if b.Path == "" {
		return "", fmt.Errorf("beatmap %q has not been saved", b.Metadata.SongName)
	}
	return filepath.Join(filepath.Dir(b.Path), scoresFolder), nil
}

func (s *FileStore) Save(b *game.Beatmap, result *Result) error {
	folder, err := s.folder(b)
	if nil != err {
		return err
	}
	if err := os.MkdirAll(folder, 0o755); nil != err {
		return fmt.Errorf("unable to create score folder: %w", err)
	}
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.Date.IsZero() {
		result.Date = time.Now()
	}
	result.Beatmap = Checksum(b)

	data, err := json.MarshalIndent(result, "", "  ")
	if nil != err {
		return fmt.Errorf("unable to marshal score: %w", err)
	}
	file := filepath.Join(folder, "score_"+result.ID+".json")
	if err := os.WriteFile(file, data, 0o644); nil != err {
		return fmt.Errorf("unable to write score: %w", err)
	}
	return nil
}

// Load returns the plays of this beatmap found in its score folder.
// Unreadable files are skipped.
func (s *FileStore) Load(b *game.Beatmap) ([]Result, error) {
	results := []Result{}
	folder, err := s.folder(b)
	if nil != err {
		return results, nil
	}
	files, err := filepath.Glob(filepath.Join(folder, "score_*.json"))
	if nil != err {
		return nil, fmt.Errorf("unable to list scores: %w", err)
	}

	sum := Checksum(b)
	for _, file := range files {
		data, err := os.ReadFile(file)
		if nil != err {
			log.Warn("unable to read score file", "file", file, "err", err)
			continue
		}
		var r Result
		if err := json.Unmarshal(data, &r); nil != err {
			log.Warn("failed to parse score file", "file", file, "err", err)
			continue
		}
		// Several difficulties can share a folder
		if r.Beatmap != "" && r.Beatmap != sum {
			continue
		}
		results = append(results, r)
	}
	SortByScore(results)
	return results, nil
}
