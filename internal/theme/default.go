package theme

import (
	"fmt"
	"image/color"
	"strings"

	"git.lost.host/meutraa/keytap/internal/game"
)

type DefaultTheme struct{}

var (
	white = color.RGBA{255, 255, 255, 255}

	tierColors = map[game.Tier]color.RGBA{
		game.Great: {64, 128, 255, 255},
		game.Good:  {64, 220, 64, 255},
		game.OK:    {236, 195, 0, 255},
		game.Miss:  {236, 30, 0, 255},
	}

	rankColors = map[game.Rank]color.RGBA{
		game.RankSS: {255, 153, 255, 255}, // pink
		game.RankS:  {255, 255, 153, 255}, // yellow
		game.RankA:  {102, 255, 255, 255}, // cyan
		game.RankB:  {102, 204, 255, 255}, // blue
		game.RankC:  {204, 204, 204, 255}, // gray
		game.RankD:  {255, 153, 153, 255}, // red
		game.RankF:  {160, 160, 160, 255}, // dark gray
	}

	// An approaching note closes in on its key
	approachSyms = [...]string{"·", "∘", "○", "◎", "◉"}
)

func (t *DefaultTheme) TierColor(tier game.Tier) color.RGBA {
	c, ok := tierColors[tier]
	if !ok {
		return white
	}
	return c
}

func (t *DefaultTheme) RankColor(rank game.Rank) color.RGBA {
	c, ok := rankColors[rank]
	if !ok {
		return white
	}
	return c
}

func (t *DefaultTheme) RenderKey(key rune, progress float64) string {
	k := strings.ToUpper(string(key))
	if progress < 0 {
		return fmt.Sprintf("[%v ]", k)
	}
	if progress > 1 {
		progress = 1
	}
	sym := approachSyms[int(progress*float64(len(approachSyms)-1))]
	c := getApproachColor(progress)
	return fmt.Sprintf("[%v\033[38;2;%v;%v;%vm%v\033[0m]", k, c.R, c.G, c.B, sym)
}

// Fades from gray to white as the note arrives
func getApproachColor(progress float64) color.RGBA {
	v := uint8(106 + progress*149)
	return color.RGBA{v, v, v, 255}
}
