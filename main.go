package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"git.lost.host/meutraa/keytap/internal/config"
	"git.lost.host/meutraa/keytap/internal/difficulty"
	"git.lost.host/meutraa/keytap/internal/game"
	"git.lost.host/meutraa/keytap/internal/parser"
	"git.lost.host/meutraa/keytap/internal/render"
	"git.lost.host/meutraa/keytap/internal/score"
	"git.lost.host/meutraa/keytap/internal/theme"
	"github.com/charmbracelet/log"
)

func main() {
	if err := run(os.Args[1:]); nil != err {
		log.Fatal(err)
	}
}

func run(args []string) error {
	settings, err := config.Load()
	if nil != err {
		return err
	}
	cmd, err := config.Parse(settings, args)
	if nil != err {
		return err
	}

	// Only the raw-mode screens need the log kept off the terminal
	if cmd.Name != "play" && cmd.Name != "record" {
		cmd.Settings.LogFile = ""
	}
	closer, err := config.SetupLogger(cmd.Settings)
	if nil != err {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Ensure our Default implementations are used as interfaces
	var psr parser.Parser = &parser.DefaultParser{}

	switch cmd.Name {
	case "rate":
		return rate(psr, cmd)
	case "publish":
		return publish(psr, cmd)
	case "browse":
		return browse(psr, cmd)
	case "scores":
		return scores(psr, cmd)
	case "play":
		return play(ctx, psr, cmd)
	case "record":
		return record(ctx, psr, cmd)
	}
	return fmt.Errorf("unknown command %q", cmd.Name)
}

func rate(psr parser.Parser, cmd *config.Command) error {
	b, err := psr.Parse(cmd.Beatmap)
	if nil != err {
		return err
	}
	stars, err := difficulty.Rate(b.Notes)
	if nil != err {
		return err
	}
	fmt.Printf("%.2f stars  %v notes  (stored %.2f)\n", stars, len(b.Notes), b.Metadata.DifficultyStars)
	return nil
}

func publish(psr parser.Parser, cmd *config.Command) error {
	b, err := psr.Parse(cmd.Beatmap)
	if nil != err {
		return err
	}
	dir := cmd.Directory
	if dir == "" {
		dir = filepath.Dir(cmd.Beatmap)
	}
	path, err := psr.Write(dir, b)
	if nil != err {
		return err
	}
	fmt.Printf("%.2f stars  %v\n", b.Metadata.DifficultyStars, path)
	return nil
}

func browse(psr parser.Parser, cmd *config.Command) error {
	beatmaps, err := psr.Discover(cmd.Directory)
	if nil != err {
		return err
	}
	if len(beatmaps) == 0 {
		return errors.New("no beatmaps found")
	}
	for i, b := range beatmaps {
		m := b.Metadata
		fmt.Printf("%3v) %5.1f★  %-28v %-20v %-12v %v  BPM %v\n",
			i, m.DifficultyStars, m.SongName, m.Artist, m.DifficultyName, formatTime(m.SongLength), int(m.BPM+0.5))
	}
	return nil
}

func formatTime(seconds float64) string {
	s := int(seconds)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

func newStore(s *config.Settings) (score.Store, error) {
	switch s.ScoreStore {
	case "files":
		return &score.FileStore{}, nil
	default:
		if err := os.MkdirAll(filepath.Dir(s.ScoreDB), 0o755); nil != err {
			return nil, fmt.Errorf("unable to create score directory: %w", err)
		}
		return &score.DBStore{Path: s.ScoreDB}, nil
	}
}

func scores(psr parser.Parser, cmd *config.Command) error {
	b, err := psr.Parse(cmd.Beatmap)
	if nil != err {
		return err
	}
	store, err := newStore(cmd.Settings)
	if nil != err {
		return err
	}
	if err := store.Init(); nil != err {
		return err
	}
	defer store.Deinit()

	results, err := store.Load(b)
	if nil != err {
		return err
	}
	th := &theme.DefaultTheme{}
	fmt.Printf("%v - %v [%v]\n", b.Metadata.Artist, b.Metadata.SongName, b.Metadata.DifficultyName)
	for i, r := range results {
		c := th.RankColor(r.Rank)
		line := fmt.Sprintf("%3v) \033[38;2;%v;%v;%vm%-2v\033[0m %9v  %6.2f%%  x%-4v %v/%v/%v/%v  %v",
			i+1, c.R, c.G, c.B, r.Rank, r.Score, r.Accuracy, r.MaxCombo,
			r.Greats, r.Goods, r.OKs, r.Misses, r.Date.Local().Format("2006-01-02 15:04"))
		if cmd.Verify {
			line += "  " + verify(b, &r)
		}
		fmt.Println(line)
	}
	return nil
}

// verify replays the stored inputs of a result against the beatmap.
func verify(b *game.Beatmap, r *score.Result) string {
	if len(r.Inputs) == 0 {
		return "no inputs"
	}
	replayed := score.Rejudge(b.Notes, r)
	if replayed.Score != r.Score || replayed.Rank != r.Rank {
		log.Warn("result does not reproduce", "id", r.ID, "stored", r.Score, "replayed", replayed.Score)
		return fmt.Sprintf("✗ replays to %v", replayed.Score)
	}
	return "✓"
}

func play(ctx context.Context, psr parser.Parser, cmd *config.Command) error {
	b, err := psr.Parse(cmd.Beatmap)
	if nil != err {
		return err
	}
	store, err := newStore(cmd.Settings)
	if nil != err {
		return err
	}
	if err := store.Init(); nil != err {
		return err
	}
	defer store.Deinit()

	p := &Program{
		Renderer: &render.DefaultRenderer{},
		Theme:    &theme.DefaultTheme{},
	}
	result, err := p.Run(ctx, cmd.Settings, b)
	if nil != err {
		return err
	}
	if nil == result {
		log.Info("play abandoned", "beatmap", b.Path)
		return nil
	}

	if err := store.Save(b, result); nil != err {
		log.Error("unable to save score", "err", err)
	}
	c := p.Theme.RankColor(result.Rank)
	fmt.Printf("Rank: \033[38;2;%v;%v;%vm%v\033[0m\nScore: %v\nAccuracy: %.2f%%\nMax combo: %v\nGreat: %v\nGood: %v\nOK: %v\nMiss: %v\n",
		c.R, c.G, c.B, result.Rank, result.Score, result.Accuracy, result.MaxCombo,
		result.Greats, result.Goods, result.OKs, result.Misses)
	return nil
}

func record(ctx context.Context, psr parser.Parser, cmd *config.Command) error {
	r := &Recorder{
		Renderer: &render.DefaultRenderer{},
		Theme:    &theme.DefaultTheme{},
	}
	meta := game.Metadata{
		SongName:           cmd.SongName,
		Artist:             cmd.Artist,
		DifficultyName:     cmd.DifficultyName,
		AudioFileName:      cmd.AudioFileName,
		BackgroundFileName: cmd.Background,
		PreviewTime:        cmd.PreviewTime,
		SongLength:         cmd.SongLength,
	}
	b, err := r.Run(ctx, cmd.Settings, meta, cmd.BPM)
	if nil != err {
		return err
	}
	if nil == b {
		log.Info("recording discarded")
		return nil
	}
	path, err := psr.Write(cmd.Directory, b)
	if nil != err {
		return err
	}
	fmt.Printf("%v notes  %.2f stars  %v\n", len(b.Notes), b.Metadata.DifficultyStars, path)
	return nil
}
