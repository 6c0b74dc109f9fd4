package theme

import (
	"image/color"

	"git.lost.host/meutraa/keytap/internal/game"
)

type Theme interface {
	TierColor(tier game.Tier) color.RGBA
	RankColor(rank game.Rank) color.RGBA
	// RenderKey draws a key cell, progress runs from 0 when a note
	// appears to 1 at its time, negative when no note is coming.
	RenderKey(key rune, progress float64) string
}
