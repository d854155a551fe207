package viewer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Sentry-Sense/internal/sim"
)

const (
	panelWidth     = 320
	eventMax       = 60
	lineHeight     = 11
	recentHighlite = 3 // how many latest entries to highlight
)

// EventEntry is a single line in the event panel.
type EventEntry struct {
	Tick     int
	Label    string
	Category string
	Message  string
}

// EventPanel is a ring buffer of recent sim events rendered on-screen.
type EventPanel struct {
	entries []EventEntry
	head    int
	count   int
	synced  int // SimLog entries already consumed
}

// NewEventPanel creates a panel with a fixed capacity.
func NewEventPanel() *EventPanel {
	return &EventPanel{entries: make([]EventEntry, eventMax)}
}

// Add appends an entry, overwriting the oldest once full.
func (ep *EventPanel) Add(tick int, label, category, msg string) {
	ep.entries[ep.head] = EventEntry{Tick: tick, Label: label, Category: category, Message: msg}
	ep.head = (ep.head + 1) % eventMax
	if ep.count < eventMax {
		ep.count++
	}
}

// Sync pulls SimLog entries recorded since the last call. Per-tick move
// entries are skipped.
func (ep *EventPanel) Sync(log *sim.SimLog) {
	entries := log.Entries()
	for _, e := range entries[ep.synced:] {
		if e.Category == "move" {
			continue
		}
		msg := e.Key
		if e.Value != "" {
			msg = e.Key + " " + e.Value
		}
		ep.Add(e.Tick, e.Label, e.Category, msg)
	}
	ep.synced = len(entries)
}

// Recent returns entries in chronological order (oldest first).
func (ep *EventPanel) Recent() []EventEntry {
	result := make([]EventEntry, ep.count)
	for i := 0; i < ep.count; i++ {
		idx := (ep.head - ep.count + i + eventMax) % eventMax
		result[i] = ep.entries[idx]
	}
	return result
}

func categoryColor(cat string) color.RGBA {
	switch cat {
	case "state":
		return color.RGBA{R: 90, G: 200, B: 90, A: 255}
	case "vision":
		return color.RGBA{R: 230, G: 190, B: 60, A: 255}
	case "path":
		return color.RGBA{R: 80, G: 150, B: 230, A: 255}
	case "audit":
		return color.RGBA{R: 230, G: 60, B: 60, A: 255}
	default:
		return color.RGBA{R: 150, G: 150, B: 150, A: 255}
	}
}

// Draw renders the panel on the right side of the screen.
func (ep *EventPanel) Draw(screen *ebiten.Image, panelX int, panelH int) {
	// Panel background.
	vector.FillRect(screen, float32(panelX), 0, float32(panelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	// Left separator line.
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)

	// Title bar.
	vector.FillRect(screen, float32(panelX), 0, float32(panelWidth), 16, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+panelWidth), 16, 1.0, color.RGBA{R: 50, G: 80, B: 50, A: 200}, false)

	entries := ep.Recent()

	// Newest at the bottom.
	maxVisible := (panelH - 24) / lineHeight
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}
	visible := entries[startIdx:]

	y := 20
	for i, e := range visible {
		if i >= len(visible)-recentHighlite {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(panelWidth-4), float32(lineHeight), color.RGBA{R: 30, G: 40, B: 30, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, categoryColor(e.Category), false)
		line := fmt.Sprintf("%4d [%s] %s", e.Tick, e.Label, e.Message)
		ebitenutil.DebugPrintAt(screen, line, panelX+12, y)
		y += lineHeight
	}
}
