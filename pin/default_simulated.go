//go:build !linux || nogpio

package pin

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Off-target builds (or -tags nogpio) fall back to one process-wide
// simulator so the demo binary runs anywhere.
var (
	simOnce sync.Once
	sim     *Simulator
)

func defaultProvider() Provider {
	simOnce.Do(func() {
		log.Debug().Msg("GPIO will be simulated")
		sim = NewSimulator(simulatedLines)
	})
	return sim
}

const simulatedLines = 32
