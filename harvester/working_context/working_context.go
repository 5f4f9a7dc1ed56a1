package working_context

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/sentinelworks/sentinel/model"
)

type SharedContext struct {
	TargetUrl string
	Drafts    []*model.RawPost
}

// This is the context we keep to be used for all the steps of one extraction
// run against a single target page.
// Initialized with the target url and the live page.
// All steps can put additional information into this object to pass down to
// next step.
type ExtractorWorkingContext struct {
	SharedContext

	Page playwright.Page

	// Normalized urls already claimed by a draft this run. One instance per
	// running extractor, never shared across targets.
	SeenUrls map[string]bool

	// Scroll cycles in a row that added zero new unique drafts.
	NoGrowthCycles int

	// Current scroll cycle, zero based.
	Cycle int

	seenAtCycleStart int
}

func NewExtractorWorkingContext(targetUrl string, page playwright.Page) *ExtractorWorkingContext {
	return &ExtractorWorkingContext{
		SharedContext: SharedContext{TargetUrl: targetUrl},
		Page:          page,
		SeenUrls:      map[string]bool{},
	}
}

// ClaimUrl marks a normalized url as owned by a draft. Returns false if some
// earlier draft already claimed it.
func (wc *ExtractorWorkingContext) ClaimUrl(normalizedUrl string) bool {
	if wc.SeenUrls[normalizedUrl] {
		return false
	}
	wc.SeenUrls[normalizedUrl] = true
	return true
}

func (wc *ExtractorWorkingContext) AddDraft(draft *model.RawPost) {
	wc.Drafts = append(wc.Drafts, draft)
}

// BeginCycle snapshots the claimed url count so EndCycle can detect growth.
func (wc *ExtractorWorkingContext) BeginCycle() {
	wc.seenAtCycleStart = len(wc.SeenUrls)
}

// EndCycle updates the no-growth counter and advances the cycle index.
func (wc *ExtractorWorkingContext) EndCycle() {
	if len(wc.SeenUrls) > wc.seenAtCycleStart {
		wc.NoGrowthCycles = 0
	} else {
		wc.NoGrowthCycles++
	}
	wc.Cycle++
}

func (sc *SharedContext) String() string {
	return fmt.Sprintf("SharedContext is: target: %s drafts: %d", sc.TargetUrl, len(sc.Drafts))
}
