package session

import "time"

const DefaultZoom = 1.2

// Timing holds the named settle waits applied after page-changing actions.
type Timing struct {
	NavigateSettle    time.Duration
	InteractionSettle time.Duration
	BackSettle        time.Duration
}

type Config struct {
	Headless           bool
	ProfilePath        string
	FullPageScreenshot bool
	Zoom               float64
	Timing             Timing
}

func DefaultConfig() Config {
	return Config{
		Headless: true,
		Zoom:     DefaultZoom,
		Timing: Timing{
			NavigateSettle:    2 * time.Second,
			InteractionSettle: 3 * time.Second,
			BackSettle:        3 * time.Second,
		},
	}
}
