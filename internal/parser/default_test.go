package parser

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"git.lost.host/meutraa/keytap/internal/difficulty"
	"git.lost.host/meutraa/keytap/internal/game"
	"git.lost.host/meutraa/keytap/internal/testdata"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); nil != err {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); nil != err {
		t.Fatal(err)
	}
}

func TestParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lanterns.json")
	writeFile(t, path, testdata.Raw())

	p := DefaultParser{}
	b, err := p.Parse(path)
	if nil != err {
		t.Fatal(err)
	}
	if b.Metadata.SongName != "Paper Lanterns" || b.Metadata.BPM != 120 || len(b.Notes) != 12 {
		t.Errorf("parsed %+v", b.Metadata)
	}
	if b.Notes[7] != (game.Note{Lane: 28, Time: 3.75}) {
		t.Errorf("note 7 is %v", b.Notes[7])
	}
	if b.Path != path {
		t.Errorf("path %v", b.Path)
	}
}

var invalidTests = map[string]string{
	"syntax":         `{"metadata": {`,
	"lane too large": `{"metadata": {}, "notes": [{"lane": 30, "time": 1}]}`,
	"negative lane":  `{"metadata": {}, "notes": [{"lane": -1, "time": 1}]}`,
	"negative time":  `{"metadata": {}, "notes": [{"lane": 1, "time": -0.5}]}`,
	"negative stars": `{"metadata": {"difficultyStars": -1}, "notes": []}`,
}

func TestParseInvalid(t *testing.T) {
	dir := t.TempDir()
	p := DefaultParser{}
	for name, doc := range invalidTests {
		path := filepath.Join(dir, name+".json")
		writeFile(t, path, []byte(doc))
		if _, err := p.Parse(path); !errors.Is(err, ErrInvalidBeatmap) {
			t.Errorf("%v: expected ErrInvalidBeatmap, got %v", name, err)
		}
	}
	if _, err := p.Parse(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}
}

func TestWrite(t *testing.T) {
	b, err := testdata.Beatmap()
	if nil != err {
		t.Fatal(err)
	}
	b.Metadata.DifficultyName = "Very Hard"
	expected, err := difficulty.Rate(b.Notes)
	if nil != err {
		t.Fatal(err)
	}

	dir := filepath.Join(t.TempDir(), "Beatmaps")
	p := DefaultParser{}
	path, err := p.Write(dir, b)
	if nil != err {
		t.Fatal(err)
	}
	if filepath.Base(path) != "Paper_Lanterns_Very_Hard.json" {
		t.Errorf("published as %v", path)
	}

	back, err := p.Parse(path)
	if nil != err {
		t.Fatal(err)
	}
	if back.Metadata.DifficultyStars != expected || expected <= 0 {
		t.Errorf("stored stars %v, expected %v", back.Metadata.DifficultyStars, expected)
	}
	if len(back.Notes) != len(b.Notes) {
		t.Errorf("stored %v notes, expected %v", len(back.Notes), len(b.Notes))
	}
}

func TestWriteEmptyMap(t *testing.T) {
	b := &game.Beatmap{Metadata: game.Metadata{SongName: "Silence", DifficultyName: "Easy", DifficultyStars: 3}}
	p := DefaultParser{}
	path, err := p.Write(t.TempDir(), b)
	if nil != err {
		t.Fatal(err)
	}
	back, err := p.Parse(path)
	if nil != err {
		t.Fatal(err)
	}
	if back.Metadata.DifficultyStars != 0 || back.Notes == nil || len(back.Notes) != 0 {
		t.Errorf("empty map stored as %+v", back)
	}
}

func TestWriteRejectsInvalidLane(t *testing.T) {
	b := &game.Beatmap{Metadata: game.Metadata{SongName: "x", DifficultyName: "y"}, Notes: []game.Note{{Lane: 99, Time: 1}}}
	p := DefaultParser{}
	dir := t.TempDir()
	if _, err := p.Write(dir, b); !errors.Is(err, difficulty.ErrInvalidLane) {
		t.Errorf("expected ErrInvalidLane, got %v", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("wrote %v", entries)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	p := DefaultParser{}
	names := []string{"Hard", "Easy", "Normal"}
	notes := [][]game.Note{
		{{Lane: 0, Time: 0}, {Lane: 15, Time: 0.1}, {Lane: 25, Time: 0.2}, {Lane: 29, Time: 0.3}},
		{},
		{{Lane: 0, Time: 0}, {Lane: 1, Time: 1}},
	}
	for i, name := range names {
		b := &game.Beatmap{Metadata: game.Metadata{SongName: "Song", DifficultyName: name}, Notes: notes[i]}
		if _, err := p.Write(filepath.Join(dir, "song"), b); nil != err {
			t.Fatal(err)
		}
	}
	writeFile(t, filepath.Join(dir, "song", "broken.json"), []byte("nope"))
	writeFile(t, filepath.Join(dir, "song", "Scores", "score_1.json"), []byte(`{"score": 5}`))
	writeFile(t, filepath.Join(dir, "song", "cover.png"), []byte{0x89})

	beatmaps, err := p.Discover(dir)
	if nil != err {
		t.Fatal(err)
	}
	if len(beatmaps) != 3 {
		t.Fatalf("discovered %v beatmaps", len(beatmaps))
	}
	previous := math.Inf(-1)
	for i, expected := range []string{"Easy", "Normal", "Hard"} {
		b := beatmaps[i]
		if b.Metadata.DifficultyName != expected {
			t.Errorf("position %v is %v, expected %v", i, b.Metadata.DifficultyName, expected)
		}
		if b.Metadata.DifficultyStars < previous {
			t.Errorf("not sorted by stars at %v", i)
		}
		previous = b.Metadata.DifficultyStars
	}
}

func TestDiscoverMissingDirectory(t *testing.T) {
	p := DefaultParser{}
	if _, err := p.Discover(filepath.Join(t.TempDir(), "nothing")); nil == err {
		t.Error("expected an error for a missing directory")
	}
}
