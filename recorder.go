package main

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"git.lost.host/meutraa/keytap/internal/clock"
	"git.lost.host/meutraa/keytap/internal/config"
	"git.lost.host/meutraa/keytap/internal/editor"
	"git.lost.host/meutraa/keytap/internal/game"
	"git.lost.host/meutraa/keytap/internal/input"
	"git.lost.host/meutraa/keytap/internal/render"
	"git.lost.host/meutraa/keytap/internal/theme"
	"github.com/charmbracelet/log"
)

// Recorder places notes on the lanes pressed while the song clock runs.
type Recorder struct {
	Renderer render.Renderer
	Theme    theme.Theme

	editor *editor.Editor
	clock  *clock.SongClock
	events <-chan input.Event
	length float64

	width, height int
	quit          bool
	lastBeat      int
}

// Run records until the song length is reached, returning nil when the
// player quits first.
func (r *Recorder) Run(ctx context.Context, s *config.Settings, meta game.Metadata, bpm float64) (*game.Beatmap, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ed, err := editor.New(bpm, s.OffsetMs)
	if nil != err {
		return nil, err
	}
	r.editor = ed
	r.length = meta.SongLength
	r.lastBeat = -1
	r.clock = clock.New(s.Speed)
	r.clock.Seek(-s.StartDelay)

	// The editor applies the offset itself
	r.events, err = input.Listen(ctx, s, r.clock, 0)
	if nil != err {
		return nil, err
	}
	if err := r.Renderer.Init(); nil != err {
		return nil, err
	}
	r.width, r.height = r.Renderer.Size()
	r.clock.Play()

	finished := false
	r.Renderer.RenderLoop(framePeriod, func(time.Duration) bool {
		select {
		case <-ctx.Done():
			r.quit = true
		default:
		}
		r.Update()
		r.Render()
		finished = r.clock.Position() >= r.length
		return !r.quit && !finished
	})
	if err := r.Renderer.Deinit(); nil != err {
		log.Warn("unable to restore terminal", "err", err)
	}
	if !finished {
		return nil, nil
	}
	return r.editor.Publish(meta)
}

func (r *Recorder) Update() {
	for i := len(r.events); i > 0; i-- {
		ev, ok := <-r.events
		if !ok {
			r.quit = true
			break
		}
		switch ev.Kind {
		case input.Quit:
			r.quit = true
		case input.Pause:
			if r.clock.Playing() {
				r.clock.Pause()
			} else {
				r.clock.Play()
			}
		case input.Press:
			if ev.Time < 0 || !r.clock.Playing() {
				continue
			}
			n, err := r.editor.AddNote(ev.Lane, ev.Time)
			if nil != err {
				log.Warn("unable to place note", "err", err)
				continue
			}
			log.Debug("placed note", "lane", n.Lane, "time", n.Time)
		}
	}
}

func formatPosition(t float64) string {
	if t < 0 {
		t = 0
	}
	ms := int(t * 1000)
	return fmt.Sprintf("%02d:%02d.%03d", ms/60000, ms/1000%60, ms%1000)
}

func (r *Recorder) Render() {
	position := r.clock.Position()
	r.Renderer.Fill(2, 2, fmt.Sprintf("%v / %v", formatPosition(position), formatPosition(r.length)))
	r.Renderer.Fill(3, 2, fmt.Sprintf("Notes: %-6v BPM %v", len(r.editor.Notes()), r.editor.BPM()))
	r.Renderer.Fill(uint16(r.height-1), 2, "keys place notes, space pauses, esc discards")

	// Visual metronome, one flash per beat
	raw := r.editor.RawTime(position)
	if raw < 0 {
		return
	}
	beat := int(math.Floor(raw / (60 / r.editor.BPM())))
	if beat != r.lastBeat {
		r.lastBeat = beat
		c := r.Theme.TierColor(game.Great)
		mark := strings.Repeat("●", 1+beat%4)
		r.Renderer.AddDecoration(uint16(r.width/2-2), uint16(r.height/2),
			fmt.Sprintf("\033[38;2;%v;%v;%vm%-4v\033[0m", c.R, c.G, c.B, mark), 30)
	}
}
