// Package input turns key presses into timestamped lane events.
package input

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/eiannone/keyboard"
)

type Kind uint8

const (
	Press Kind = iota // A key bound to a lane
	Pause             // Space
	Quit              // Escape or Ctrl-C
)

type Event struct {
	Kind Kind
	Lane int
	Time float64 // Song time of the press, offset applied
}

// Binding maps a typed rune to its lane.
type Binding interface {
	KeyLane(r rune) (int, bool)
}

// Clock is read when a key arrives to stamp it.
type Clock interface {
	Position() float64
}

// Translate converts one keyboard event. Keys without a meaning return
// false.
func Translate(ev keyboard.KeyEvent, b Binding, c Clock, offset float64) (Event, bool) {
	switch ev.Key {
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return Event{Kind: Quit}, true
	case keyboard.KeySpace:
		return Event{Kind: Pause, Time: c.Position() + offset}, true
	}
	if ev.Rune == 0 {
		return Event{}, false
	}
	lane, ok := b.KeyLane(ev.Rune)
	if !ok {
		return Event{}, false
	}
	return Event{Kind: Press, Lane: lane, Time: c.Position() + offset}, true
}

// Listen reads the keyboard until ctx is done. offset is in seconds and
// is added to every timestamp.
func Listen(ctx context.Context, b Binding, c Clock, offset float64) (<-chan Event, error) {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, fmt.Errorf("unable to open keyboard: %w", err)
	}

	events := make(chan Event, 128)
	go func() {
		defer close(events)
		defer func() {
			if err := keyboard.Close(); nil != err {
				log.Warn("unable to close keyboard", "err", err)
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-keys:
				if !ok {
					return
				}
				if nil != ev.Err {
					log.Error("keyboard read failed", "err", ev.Err)
					return
				}
				e, ok := Translate(ev, b, c, offset)
				if !ok {
					log.Debug("unbound key", "rune", string(ev.Rune), "key", ev.Key)
					continue
				}
				select {
				case events <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events, nil
}
