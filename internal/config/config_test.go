package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KEYTAP_CONFIG", "")
	s, err := Load()
	if nil != err {
		t.Fatal(err)
	}
	d := Default()
	if s.Keys != d.Keys || s.ApproachTime != 0.6 || s.Speed != 1 || s.ScoreStore != "sqlite" {
		t.Errorf("loaded %+v", s)
	}
}

func TestLoadLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keytap.yaml")
	doc := "approach_time: 0.8\nspeed: 1.5\nscore_store: files\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); nil != err {
		t.Fatal(err)
	}
	t.Setenv("KEYTAP_CONFIG", path)
	t.Setenv("KEYTAP_SPEED", "2")

	s, err := Load()
	if nil != err {
		t.Fatal(err)
	}
	if s.ApproachTime != 0.8 {
		t.Errorf("approach time %v, expected the file's 0.8", s.ApproachTime)
	}
	if s.Speed != 2 {
		t.Errorf("speed %v, expected the environment's 2", s.Speed)
	}
	if s.ScoreStore != "files" || s.LogLevel != "debug" {
		t.Errorf("loaded %+v", s)
	}
	if s.Keys != DefaultKeys {
		t.Errorf("keys %q lost their default", s.Keys)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("KEYTAP_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); !errors.Is(err, ErrLoadConfig) {
		t.Errorf("missing file: %v", err)
	}

	t.Setenv("KEYTAP_CONFIG", "")
	t.Setenv("KEYTAP_SPEED", "12")
	if _, err := Load(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("speed 12: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*Settings){
		"short keys":     func(s *Settings) { s.Keys = "abc" },
		"duplicate key":  func(s *Settings) { s.Keys = "aacdefghijklmnopqrstuvwxyz,.;/" },
		"zero approach":  func(s *Settings) { s.ApproachTime = 0 },
		"slow":           func(s *Settings) { s.Speed = 0.05 },
		"fast":           func(s *Settings) { s.Speed = 5.5 },
		"negative delay": func(s *Settings) { s.StartDelay = -1 },
		"unknown store":  func(s *Settings) { s.ScoreStore = "cloud" },
		"nan approach":   func(s *Settings) { s.ApproachTime = math.NaN() },
		"nan speed":      func(s *Settings) { s.Speed = math.NaN() },
		"nan offset":     func(s *Settings) { s.OffsetMs = math.NaN() },
		"infinite delay": func(s *Settings) { s.StartDelay = math.Inf(1) },
	}
	for name, modify := range tests {
		s := Default()
		modify(s)
		if err := s.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%v: expected ErrInvalidConfig, got %v", name, err)
		}
	}
	if err := Default().Validate(); nil != err {
		t.Errorf("defaults are invalid: %v", err)
	}
}

func TestKeyLane(t *testing.T) {
	s := Default()
	tests := map[rune]int{'a': 0, 'A': 0, 'z': 25, 'Q': 16, ',': 26, '.': 27, ';': 28, '/': 29}
	for r, expected := range tests {
		lane, ok := s.KeyLane(r)
		if !ok || lane != expected {
			t.Errorf("KeyLane(%q) = %v, %v, expected %v", r, lane, ok, expected)
		}
		if expected != 0 && expected != 16 && s.LaneKey(expected) != r {
			t.Errorf("LaneKey(%v) = %q, expected %q", expected, s.LaneKey(expected), r)
		}
	}
	for _, r := range []rune{'1', ' ', '[', 'é'} {
		if _, ok := s.KeyLane(r); ok {
			t.Errorf("%q is bound", r)
		}
	}
	if s.LaneKey(30) != '?' || s.LaneKey(-1) != '?' {
		t.Error("unbound lanes have keys")
	}
}

func TestParse(t *testing.T) {
	dir := t.TempDir()
	beatmap := filepath.Join(dir, "map.json")
	if err := os.WriteFile(beatmap, []byte("{}"), 0o644); nil != err {
		t.Fatal(err)
	}

	c, err := Parse(Default(), []string{"--speed", "1.5", "play", beatmap})
	if nil != err {
		t.Fatal(err)
	}
	if c.Name != "play" || c.Beatmap != beatmap || c.Settings.Speed != 1.5 || c.Settings.ApproachTime != 0.6 {
		t.Errorf("parsed %+v %+v", c, c.Settings)
	}

	c, err = Parse(Default(), []string{"record", dir, "--song", "Paper Lanterns", "--length", "95", "--bpm", "128"})
	if nil != err {
		t.Fatal(err)
	}
	if c.Name != "record" || c.SongName != "Paper Lanterns" || c.DifficultyName != "Normal" || c.BPM != 128 || c.SongLength != 95 {
		t.Errorf("parsed %+v", c)
	}

	c, err = Parse(Default(), []string{"scores", "--verify", beatmap})
	if nil != err || !c.Verify {
		t.Errorf("parsed %+v, %v", c, err)
	}

	if _, err := Parse(Default(), []string{"--speed", "9", "play", beatmap}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("speed 9: %v", err)
	}
	if _, err := Parse(Default(), []string{"play", filepath.Join(dir, "missing.json")}); nil == err {
		t.Error("accepted a missing beatmap")
	}
	if _, err := Parse(Default(), []string{"record", dir, "--song", "x", "--length", "0"}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero length: %v", err)
	}
}
