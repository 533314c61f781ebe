// Package paint maps the events of one day to a single paint descriptor:
// nothing, a solid fill, a diagonal two-tone split, or an equal-arc wheel.
package paint

import (
	"sidequest/internal/model"
)

// Fallback is painted for events whose category has been deleted.
const Fallback = "#eeeeee"

// SplitAngle is the divide angle of a two-tone split, in degrees.
const SplitAngle = 45

// Kind discriminates the paint descriptor variants.
type Kind int

const (
	None Kind = iota
	Solid
	Split
	Wheel
)

// Wedge is one contiguous arc of a Wheel paint.
type Wedge struct {
	Color string
	Start float64 // degrees from angle 0
	Sweep float64 // degrees, 360/N
}

// Paint describes how to fill one day cell.
type Paint struct {
	Kind Kind
	// Colors holds the distinct category colors in first-appearance order
	// among the day's events. Solid uses Colors[0]; Split uses both halves.
	Colors []string
	Angle  int     // divide angle in degrees, set for Split
	Wedges []Wedge // populated for Wheel only
}

// Lookup resolves a category id; the bool is false for dangling references.
type Lookup func(id string) (model.Category, bool)

// Compose builds the paint descriptor for one day's events. Events are
// deduplicated by category first, keeping the order categories were first
// referenced among these events, so the result is deterministic.
func Compose(events []model.TrackerEvent, byID Lookup) Paint {
	if len(events) == 0 {
		return Paint{Kind: None}
	}

	seen := make(map[string]struct{}, len(events))
	var colors []string
	for _, ev := range events {
		if _, ok := seen[ev.CategoryID]; ok {
			continue
		}
		seen[ev.CategoryID] = struct{}{}
		color := Fallback
		if cat, ok := byID(ev.CategoryID); ok {
			color = cat.Color
		}
		colors = append(colors, color)
	}

	switch len(colors) {
	case 1:
		return Paint{Kind: Solid, Colors: colors}
	case 2:
		return Paint{Kind: Split, Colors: colors, Angle: SplitAngle}
	default:
		wedges := make([]Wedge, len(colors))
		sweep := 360.0 / float64(len(colors))
		for i, color := range colors {
			wedges[i] = Wedge{Color: color, Start: float64(i) * sweep, Sweep: sweep}
		}
		return Paint{Kind: Wheel, Colors: colors, Wedges: wedges}
	}
}
