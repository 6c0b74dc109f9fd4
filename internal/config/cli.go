package config

import (
	"fmt"
	"strconv"

	"gopkg.in/alecthomas/kingpin.v2"
)

const version = "0.3.0"

// Command is the parsed command line. Settings already carry any flag
// overrides.
type Command struct {
	Name     string
	Settings *Settings

	Beatmap   string // rate, publish, play, scores
	Directory string // browse, record output, publish output

	// record
	SongName       string
	Artist         string
	DifficultyName string
	AudioFileName  string
	Background     string
	PreviewTime    float64
	SongLength     float64
	BPM            float64

	// scores
	Verify bool
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Parse reads args, without the program name, on top of settings.
func Parse(settings *Settings, args []string) (*Command, error) {
	s := *settings
	c := &Command{Settings: &s}

	app := kingpin.New("keytap", "Keyboard rhythm game: record, rate and play beatmaps")
	app.Version(version)
	app.Flag("speed", "Playback speed").Default(fmtFloat(s.Speed)).Short('r').Float64Var(&s.Speed)
	app.Flag("approach", "Seconds a note is shown before its time").Default(fmtFloat(s.ApproachTime)).Short('a').Float64Var(&s.ApproachTime)
	app.Flag("offset", "Global input offset in ms").Default(fmtFloat(s.OffsetMs)).Short('o').Float64Var(&s.OffsetMs)
	app.Flag("delay", "Seconds before the song starts").Default(fmtFloat(s.StartDelay)).Short('d').Float64Var(&s.StartDelay)
	app.Flag("keys", "Keys for lanes 0-29").Default(s.Keys).Short('k').StringVar(&s.Keys)
	app.Flag("store", "Score store: sqlite or files").Default(s.ScoreStore).EnumVar(&s.ScoreStore, "sqlite", "files")
	app.Flag("scores", "Score database").Default(s.ScoreDB).StringVar(&s.ScoreDB)
	app.Flag("log-level", "Log level").Default(s.LogLevel).EnumVar(&s.LogLevel, "debug", "info", "warn", "error")
	app.Flag("log-file", "Log file, empty for stderr").Default(s.LogFile).StringVar(&s.LogFile)

	rate := app.Command("rate", "Print the difficulty of a beatmap")
	rate.Arg("beatmap", "Beatmap file").Required().ExistingFileVar(&c.Beatmap)

	publish := app.Command("publish", "Re-rate a beatmap and write it under its published name")
	publish.Arg("beatmap", "Beatmap file").Required().ExistingFileVar(&c.Beatmap)
	publish.Flag("out", "Output directory, defaults to the beatmap's").StringVar(&c.Directory)

	browse := app.Command("browse", "List beatmaps, easiest first")
	browse.Arg("directory", "Beatmap directory").Required().ExistingDirVar(&c.Directory)

	play := app.Command("play", "Play a beatmap")
	play.Arg("beatmap", "Beatmap file").Required().ExistingFileVar(&c.Beatmap)

	record := app.Command("record", "Record a new beatmap by playing along")
	record.Arg("directory", "Output directory").Required().StringVar(&c.Directory)
	record.Flag("song", "Song name").Required().StringVar(&c.SongName)
	record.Flag("artist", "Artist").StringVar(&c.Artist)
	record.Flag("difficulty", "Difficulty name").Default("Normal").StringVar(&c.DifficultyName)
	record.Flag("audio", "Audio file name").StringVar(&c.AudioFileName)
	record.Flag("background", "Background file name").StringVar(&c.Background)
	record.Flag("preview", "Preview time in seconds").Default("0").Float64Var(&c.PreviewTime)
	record.Flag("length", "Song length in seconds").Required().Float64Var(&c.SongLength)
	record.Flag("bpm", "Beats per minute").Default("120").Float64Var(&c.BPM)

	scores := app.Command("scores", "Show the leaderboard of a beatmap")
	scores.Arg("beatmap", "Beatmap file").Required().ExistingFileVar(&c.Beatmap)
	scores.Flag("verify", "Replay stored inputs and flag results that do not reproduce").BoolVar(&c.Verify)

	name, err := app.Parse(args)
	if nil != err {
		return nil, err
	}
	c.Name = name

	if err := s.Validate(); nil != err {
		return nil, err
	}
	if c.Name == "record" && (c.SongLength <= 0 || c.BPM <= 0) {
		return nil, fmt.Errorf("%w: record needs a positive length and bpm", ErrInvalidConfig)
	}
	return c, nil
}
