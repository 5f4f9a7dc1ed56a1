package harvester

import (
	"time"

	"github.com/sentinelworks/sentinel/model"
)

// HarvestedDataSink receives each harvested record as soon as it is drafted,
// so a slow target cannot hold back persistence of already-collected posts.
type HarvestedDataSink interface {
	Push(post *model.RawPost) error
}

const (
	// Bounded fan-out across targets. Each in-flight target owns an isolated
	// browser, so this is also the browser process cap.
	MaxConcurrentTargets = 5

	MinScrollCycles = 1
	MaxScrollCycles = 50

	// Adaptive stop: quit scrolling after this many consecutive cycles with
	// zero new unique drafts.
	NoGrowthStopThreshold = 3

	DefaultNavigationTimeout = 60 * time.Second
	DefaultMaxComments       = 12
)

// Options are the shared scraping knobs for one harvest run.
type Options struct {
	// Scroll iteration budget, clamped into [MinScrollCycles, MaxScrollCycles].
	ScrollCycles int

	Headless bool

	// Opaque path to a previously captured authenticated browser session.
	// Passed through to the browser layer, never inspected.
	StorageStatePath string

	NavigationTimeout time.Duration

	MaxComments int

	// Optional operator label stamped on every record of the run.
	CustomTitle string
}

func (o Options) withDefaults() Options {
	if o.ScrollCycles < MinScrollCycles {
		o.ScrollCycles = MinScrollCycles
	}
	if o.ScrollCycles > MaxScrollCycles {
		o.ScrollCycles = MaxScrollCycles
	}
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = DefaultNavigationTimeout
	}
	if o.MaxComments <= 0 {
		o.MaxComments = DefaultMaxComments
	}
	return o
}
