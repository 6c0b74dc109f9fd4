// Package config loads player settings and parses the command line.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"git.lost.host/meutraa/keytap/internal/clock"
	"git.lost.host/meutraa/keytap/internal/game"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "KEYTAP_"

// DefaultKeys binds A-Z to lanes 0-25 and , . ; / to lanes 26-29.
const DefaultKeys = "abcdefghijklmnopqrstuvwxyz,.;/"

type Settings struct {
	// Keys holds one rune per lane, in lane order.
	Keys string `koanf:"keys"`

	// ApproachTime is how long before its time a note is shown, in seconds.
	ApproachTime float64 `koanf:"approach_time"`

	// Speed is the playback speed multiplier.
	Speed float64 `koanf:"speed"`

	// OffsetMs shifts every input, for audio latency.
	OffsetMs float64 `koanf:"offset_ms"`

	// StartDelay is the wait before the song starts, in seconds.
	StartDelay float64 `koanf:"start_delay"`

	// ScoreStore selects where results go: "sqlite" or "files".
	ScoreStore string `koanf:"score_store"`
	ScoreDB    string `koanf:"score_db"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	LogFile  string `koanf:"log_file"`
}

func dataDir() string {
	dir, err := os.UserConfigDir()
	if nil != err {
		return "."
	}
	return filepath.Join(dir, "keytap")
}

// Default settings, before any file or environment is applied.
func Default() *Settings {
	dir := dataDir()
	return &Settings{
		Keys:         DefaultKeys,
		ApproachTime: 0.6,
		Speed:        1,
		OffsetMs:     0,
		StartDelay:   1,
		ScoreStore:   "sqlite",
		ScoreDB:      filepath.Join(dir, "scores.db"),
		LogLevel:     "info",
		LogFile:      filepath.Join(dir, "keytap.log"),
	}
}

// Load layers settings, lowest precedence first:
//  1. defaults
//  2. YAML file named by KEYTAP_CONFIG, if set
//  3. environment, KEYTAP_APPROACH_TIME -> approach_time
func Load() (*Settings, error) {
	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	s := *Default()
	if err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) Validate() error {
	keys := []rune(s.Keys)
	if len(keys) != game.LaneCount {
		return fmt.Errorf("%w: keys must bind %v lanes, got %v", ErrInvalidConfig, game.LaneCount, len(keys))
	}
	seen := map[rune]bool{}
	for _, r := range keys {
		if seen[r] {
			return fmt.Errorf("%w: key %q is bound twice", ErrInvalidConfig, r)
		}
		seen[r] = true
	}
	for name, v := range map[string]float64{
		"approach time": s.ApproachTime,
		"speed":         s.Speed,
		"offset":        s.OffsetMs,
		"start delay":   s.StartDelay,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %v must be a finite number", ErrInvalidConfig, name)
		}
	}
	if s.ApproachTime <= 0 {
		return fmt.Errorf("%w: approach time must be positive", ErrInvalidConfig)
	}
	if s.Speed < clock.MinSpeed || s.Speed > clock.MaxSpeed {
		return fmt.Errorf("%w: speed %v outside [%v, %v]", ErrInvalidConfig, s.Speed, clock.MinSpeed, clock.MaxSpeed)
	}
	if s.StartDelay < 0 {
		return fmt.Errorf("%w: start delay must not be negative", ErrInvalidConfig)
	}
	switch s.ScoreStore {
	case "sqlite", "files":
	default:
		return fmt.Errorf("%w: unknown score store %q", ErrInvalidConfig, s.ScoreStore)
	}
	return nil
}

// KeyLane returns the lane bound to r, letters match in either case.
func (s *Settings) KeyLane(r rune) (int, bool) {
	lower := []rune(strings.ToLower(string(r)))[0]
	for i, c := range []rune(s.Keys) {
		if c == r || c == lower {
			return i, true
		}
	}
	return -1, false
}

// LaneKey is the key bound to lane, '?' when there is none.
func (s *Settings) LaneKey(lane int) rune {
	keys := []rune(s.Keys)
	if lane < 0 || lane >= len(keys) {
		return '?'
	}
	return keys[lane]
}
