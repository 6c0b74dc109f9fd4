package main

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"git.lost.host/meutraa/keytap/internal/clock"
	"git.lost.host/meutraa/keytap/internal/config"
	"git.lost.host/meutraa/keytap/internal/game"
	"git.lost.host/meutraa/keytap/internal/input"
	"git.lost.host/meutraa/keytap/internal/render"
	"git.lost.host/meutraa/keytap/internal/score"
	"git.lost.host/meutraa/keytap/internal/theme"
	"github.com/charmbracelet/log"
)

const framePeriod = time.Second / 240

// The on-screen keyboard, in the default binding
var keyboardRows = [...]string{"qwertyuiop", "asdfghjkl;", "zxcvbnm,./"}

// laneRows lays the lanes out as the physical keyboard rows.
func laneRows() [][]int {
	rows := make([][]int, len(keyboardRows))
	for i, row := range keyboardRows {
		for _, r := range row {
			rows[i] = append(rows[i], strings.IndexRune(config.DefaultKeys, r))
		}
	}
	return rows
}

type Program struct {
	Renderer render.Renderer
	Theme    theme.Theme

	settings *config.Settings
	beatmap  *game.Beatmap
	clock    *clock.SongClock
	session  *score.Session
	events   <-chan input.Event
	offset   float64 // Added to the clock to give song time

	width, height int
	rows          [][]int
	quit          bool
	lastPosition  float64
}

func (p *Program) newSession() {
	p.session = score.NewSession(p.beatmap.Notes, score.WithApproachTime(p.settings.ApproachTime))
}

func (p *Program) Init(ctx context.Context, s *config.Settings, b *game.Beatmap) error {
	p.settings = s
	p.beatmap = b
	p.rows = laneRows()
	p.newSession()

	p.offset = s.OffsetMs / 1000
	p.clock = clock.New(s.Speed)
	p.clock.Seek(-s.StartDelay)
	p.lastPosition = -s.StartDelay + p.offset

	events, err := input.Listen(ctx, s, p.clock, p.offset)
	if nil != err {
		return err
	}
	p.events = events

	if err := p.Renderer.Init(); nil != err {
		return err
	}
	p.width, p.height = p.Renderer.Size()
	log.Info("playing", "beatmap", b.Path, "notes", len(b.Notes), "speed", p.clock.Speed())
	return nil
}

// Run plays the beatmap until it ends or the player quits. The result is
// nil when the play was abandoned.
func (p *Program) Run(ctx context.Context, s *config.Settings, b *game.Beatmap) (*score.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := p.Init(ctx, s, b); nil != err {
		return nil, err
	}
	p.clock.Play()

	p.Renderer.RenderLoop(framePeriod, func(time.Duration) bool {
		select {
		case <-ctx.Done():
			p.quit = true
		default:
		}
		p.Update()
		p.Render()
		return !p.quit && !p.session.Ended()
	})
	if err := p.Renderer.Deinit(); nil != err {
		log.Warn("unable to restore terminal", "err", err)
	}

	result, ok := p.session.Result()
	if !ok {
		return nil, nil
	}
	result.Speed = p.clock.Speed()
	return &result, nil
}

// Update applies the key presses that arrived since the last frame, then
// advances the session to the current song time.
func (p *Program) Update() {
	for i := len(p.events); i > 0; i-- {
		ev, ok := <-p.events
		if !ok {
			p.quit = true
			break
		}
		switch ev.Kind {
		case input.Quit:
			p.quit = true
		case input.Pause:
			if p.clock.Playing() {
				p.clock.Pause()
			} else {
				p.clock.Play()
			}
		case input.Press:
			judgement, hit := p.session.OnKeyEvent(ev.Lane, ev.Time)
			if hit {
				p.showJudgement(judgement.Tier)
			}
		}
	}

	// Key presses are stamped with the same offset
	position := p.clock.Position() + p.offset
	if position < p.lastPosition {
		// Judgements made after position no longer apply
		log.Info("song time moved back, restarting session", "from", p.lastPosition, "to", position)
		p.newSession()
	}
	p.lastPosition = position

	if missed := p.session.Tick(position); missed > 0 {
		p.showJudgement(game.Miss)
	}
}

func (p *Program) showJudgement(tier game.Tier) {
	c := p.Theme.TierColor(tier)
	text := fmt.Sprintf("\033[38;2;%v;%v;%vm%-6v\033[0m", c.R, c.G, c.B, tier)
	p.Renderer.AddDecoration(uint16(p.width/2-3), uint16(p.height/2-4), text, 120)
}

// progress of the closest shown note on each lane, -1 when there is none.
func (p *Program) laneProgress(position float64) [game.LaneCount]float64 {
	var progress [game.LaneCount]float64
	for i := range progress {
		progress[i] = -1
	}
	for i, n := range p.session.Notes() {
		if p.session.State(i) != game.Shown || !game.ValidLane(n.Lane) {
			continue
		}
		v := 1 - (n.Time-position)/p.settings.ApproachTime
		if v > progress[n.Lane] {
			progress[n.Lane] = math.Max(v, 0)
		}
	}
	return progress
}

func (p *Program) Render() {
	position := p.lastPosition
	progress := p.laneProgress(position)

	top := p.height/2 - 2
	for i, row := range p.rows {
		// Each row is staggered like a real keyboard
		col := p.width/2 - len(row)*2 + i*2
		for j, lane := range row {
			cell := p.Theme.RenderKey(p.settings.LaneKey(lane), progress[lane])
			p.Renderer.Fill(uint16(top+i*2), uint16(col+j*4), cell)
		}
	}

	stats := p.session.Stats()
	p.Renderer.Fill(2, 2, fmt.Sprintf("Combo: %-6v", stats.Combo))
	p.Renderer.Fill(3, 2, fmt.Sprintf("Score: %-9v", stats.Score))
	p.Renderer.Fill(4, 2, fmt.Sprintf("Accuracy: %6.2f%%", stats.Accuracy()))

	length := p.beatmap.Metadata.SongLength
	if length <= 0 {
		length = p.beatmap.LastNoteTime() + score.DefaultEndDelay
	}
	if length > 0 && p.width > 0 {
		done := int(math.Max(0, math.Min(1, position/length)) * float64(p.width))
		p.Renderer.Fill(1, 1, strings.Repeat("━", done)+strings.Repeat(" ", p.width-done))
	}
	if !p.clock.Playing() {
		p.Renderer.Fill(uint16(p.height-1), 2, "Paused - space to resume, esc to quit")
	} else {
		p.Renderer.Fill(uint16(p.height-1), 2, strings.Repeat(" ", 40))
	}
}
