package router

import (
	"fmt"
	"strings"
	"time"
)

// TransitionKind selects how the presentation layer animates between two entries.
type TransitionKind int

const (
	TransitionNone  TransitionKind = iota // Swap immediately
	TransitionFade                        // Cross-fade the outgoing and incoming entry
	TransitionSlide                       // Slide horizontally, direction-aware
)

func (k TransitionKind) String() string {
	switch k {
	case TransitionNone:
		return "none"
	case TransitionFade:
		return "fade"
	case TransitionSlide:
		return "slide"
	default:
		return "unknown"
	}
}

// ParseTransitionKind parses the names produced by String.
func ParseTransitionKind(raw string) (TransitionKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none":
		return TransitionNone, nil
	case "fade":
		return TransitionFade, nil
	case "slide":
		return TransitionSlide, nil
	default:
		return TransitionNone, fmt.Errorf("unknown transition %q", raw)
	}
}

// Transition describes an animation between two entries. The animation itself is
// driven by the presentation layer.
type Transition struct {
	Kind     TransitionKind
	Duration time.Duration
}

// NoTransition swaps entries without animation.
var NoTransition = Transition{}

// Fade returns a cross-fade lasting d.
func Fade(d time.Duration) Transition {
	return Transition{Kind: TransitionFade, Duration: d}
}

// Slide returns a horizontal slide lasting d.
func Slide(d time.Duration) Transition {
	return Transition{Kind: TransitionSlide, Duration: d}
}

// Animated reports whether the transition takes any time.
func (t Transition) Animated() bool {
	return t.Kind != TransitionNone && t.Duration > 0
}

// Direction is the direction of the last stack operation.
type Direction int

const (
	DirectionNone     Direction = iota // Initial state, restoration or reset
	DirectionForward                   // Navigate or Replace
	DirectionBackward                  // Back
)

func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionBackward:
		return "backward"
	default:
		return "none"
	}
}
