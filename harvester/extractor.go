package harvester

import (
	"math/rand"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/sentinelworks/sentinel/harvester/working_context"
	"github.com/sentinelworks/sentinel/model"
	Logger "github.com/sentinelworks/sentinel/utils/log"
)

const (
	// Drafts below this length are reaction bars and timestamps, not posts.
	minPostTextLength = 20

	// Hard cap per locator pass so a hostile page cannot stall a cycle.
	maxContainersPerPass = 250
)

// shouldStopScrolling ends the scroll loop once the cycle budget is spent or
// the feed has stopped yielding new drafts, whichever comes first. Exhausted
// feeds must not burn the remaining budget on settle waits.
func shouldStopScrolling(cycle int, budget int, noGrowthCycles int) bool {
	if cycle >= budget {
		return true
	}
	return noGrowthCycles >= NoGrowthStopThreshold
}

// Extractor drives one browser session against a single target page and
// accumulates candidate records across selector tiers. Construct one per
// target; instances are not safe for concurrent use.
type Extractor struct {
	opts Options
	sink HarvestedDataSink
}

// NewExtractor returns an extractor with the given scraping options. sink may
// be nil, in which case drafts are only returned, not streamed out.
func NewExtractor(opts Options, sink HarvestedDataSink) *Extractor {
	return &Extractor{opts: opts.withDefaults(), sink: sink}
}

// HarvestTarget produces the deduplicated, guaranteed-non-empty record set
// for one target url. Extraction-tier failures degrade the result, they never
// abort the run.
func (e *Extractor) HarvestTarget(targetUrl string) []*model.RawPost {
	session, err := newBrowserSession(e.opts)
	if err != nil {
		Logger.Log.Error("fail to open browser session for ", targetUrl, ": ", err)
		record := EmergencyRecord(targetUrl, err.Error())
		e.push(record)
		return []*model.RawPost{record}
	}
	defer session.Close()

	wc := working_context.NewExtractorWorkingContext(targetUrl, session.page)

	if err := gotoWithResilientWait(session.page, targetUrl, e.opts.NavigationTimeout); err != nil {
		Logger.Log.Error("navigation failed for ", targetUrl, ": ", err)
		record := EmergencyRecord(targetUrl, err.Error())
		e.push(record)
		return []*model.RawPost{record}
	}

	for !shouldStopScrolling(wc.Cycle, e.opts.ScrollCycles, wc.NoGrowthCycles) {
		wc.BeginCycle()

		// Harvest each scroll cycle because older nodes may be virtualized
		// out of the DOM.
		e.harvestVisiblePosts(wc)
		e.clickExpandControls(wc.Page)
		e.scrollFeed(wc.Page)
		e.waitForFeedSettle(wc.Page, 2)
		// Second harvest after dynamic content settles.
		e.harvestVisiblePosts(wc)

		wc.EndCycle()
	}
	e.harvestVisiblePosts(wc)

	// Sparse profile layouts expose few containers, fall back to harvesting
	// post-like anchors directly.
	if len(wc.Drafts) <= 1 {
		e.collectFromPermalinkAnchors(wc)
	}
	if len(wc.Drafts) == 0 {
		e.collectPageLevelFallback(wc)
	}

	posts := EnsureNonEmpty(targetUrl, DeduplicateDrafts(wc.Drafts), "")
	for _, post := range posts {
		if post.CustomTitle == "" {
			post.CustomTitle = e.opts.CustomTitle
		}
	}
	return posts
}

func (e *Extractor) push(draft *model.RawPost) {
	if draft.CustomTitle == "" {
		draft.CustomTitle = e.opts.CustomTitle
	}
	if e.sink == nil {
		return
	}
	if err := e.sink.Push(draft); err != nil {
		Logger.Log.Error("fail to push draft ", draft.Id, " to sink: ", err)
	}
}

func (e *Extractor) emit(wc *working_context.ExtractorWorkingContext, draft *model.RawPost) {
	wc.AddDraft(draft)
	e.push(draft)
}

// harvestVisiblePosts collects currently visible post containers across all
// known container layouts.
func (e *Extractor) harvestVisiblePosts(wc *working_context.ExtractorWorkingContext) {
	for _, selector := range containerSelectors {
		e.collectFromContainerList(wc, selector)
	}
}

func (e *Extractor) collectFromContainerList(wc *working_context.ExtractorWorkingContext, selector string) {
	containers := wc.Page.Locator(selector)
	count, err := containers.Count()
	if err != nil {
		return
	}
	if count > maxContainersPerPass {
		count = maxContainersPerPass
	}

	for i := 0; i < count; i++ {
		container := containers.Nth(i)
		rawText, err := container.InnerText(playwright.LocatorInnerTextOptions{
			Timeout: playwright.Float(1_500),
		})
		if err != nil {
			continue
		}
		rawText = strings.TrimSpace(rawText)
		if len(rawText) < minPostTextLength {
			continue
		}

		e.expandCommentControls(wc.Page, container)
		containerHtml, err := container.InnerHTML(playwright.LocatorInnerHTMLOptions{
			Timeout: playwright.Float(1_500),
		})
		if err != nil {
			containerHtml = ""
		}

		resolvedUrl := extractPermalinkFromHtml(containerHtml, wc.TargetUrl)
		if resolvedUrl == "" {
			resolvedUrl = FallbackContentUrl(wc.TargetUrl, rawText, i)
		}
		if !wc.ClaimUrl(resolvedUrl) {
			continue
		}

		comments := extractCommentsFromHtml(containerHtml, rawText, e.opts.MaxComments)
		e.emit(wc, &model.RawPost{
			Id:           PostFingerprint(resolvedUrl),
			Url:          resolvedUrl,
			TargetUrl:    wc.TargetUrl,
			RawText:      rawText,
			Comments:     comments,
			CommentCount: len(comments),
			SourceType:   model.TierContainerPost,
			ScrapedAt:    time.Now().UTC(),
			Status:       model.StatusPending,
		})
	}
}

// collectFromPermalinkAnchors harvests post-like links straight off the page.
func (e *Extractor) collectFromPermalinkAnchors(wc *working_context.ExtractorWorkingContext) {
	links := wc.Page.Locator(joinedPermalinkAnchorSelector())
	count, err := links.Count()
	if err != nil {
		return
	}
	if count > maxContainersPerPass {
		count = maxContainersPerPass
	}

	for i := 0; i < count; i++ {
		link := links.Nth(i)
		href, err := link.GetAttribute("href")
		if err != nil || href == "" {
			continue
		}
		normalized, err := NormalizeContentUrl(href, wc.TargetUrl)
		if err != nil {
			continue
		}
		if !wc.ClaimUrl(normalized) {
			continue
		}

		linkText := ""
		if text, err := link.InnerText(playwright.LocatorInnerTextOptions{
			Timeout: playwright.Float(1_000),
		}); err == nil {
			linkText = strings.TrimSpace(text)
		}
		if linkText == "" {
			linkText = "Permalink discovered from profile/page feed."
		}

		e.emit(wc, &model.RawPost{
			Id:           PostFingerprint(normalized),
			Url:          normalized,
			TargetUrl:    wc.TargetUrl,
			RawText:      linkText,
			Comments:     model.CommentList{},
			CommentCount: 0,
			SourceType:   model.TierPermalinkFallback,
			ScrapedAt:    time.Now().UTC(),
			Status:       model.StatusPending,
		})
	}
}

// collectPageLevelFallback emits a single whole-page record when no selector
// tier produced anything, so the run still returns a useful preview.
func (e *Extractor) collectPageLevelFallback(wc *working_context.ExtractorWorkingContext) {
	title := ""
	if t, err := wc.Page.Title(); err == nil {
		title = strings.TrimSpace(t)
	}

	bodyText := ""
	if text, err := wc.Page.Locator("body").InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(2_000),
	}); err == nil {
		bodyText = strings.TrimSpace(text)
	}

	snippetSource := bodyText
	if snippetSource == "" {
		snippetSource = title
	}
	snippet := strings.Join(strings.Fields(snippetSource), " ")
	if len(snippet) > 1200 {
		snippet = snippet[:1200]
	}
	snippet = strings.TrimSpace(snippet)
	if snippet == "" {
		snippet = "No extractable post containers found. Fallback page-level record."
	}

	normalized, err := NormalizeContentUrl(wc.TargetUrl, wc.TargetUrl)
	if err != nil {
		normalized = wc.TargetUrl
	}
	e.emit(wc, &model.RawPost{
		Id:           PostFingerprint(normalized),
		Url:          wc.TargetUrl,
		TargetUrl:    wc.TargetUrl,
		RawText:      strings.TrimSpace(title + "\n\n" + snippet),
		Comments:     model.CommentList{},
		CommentCount: 0,
		SourceType:   model.TierPageFallback,
		ScrapedAt:    time.Now().UTC(),
		Status:       model.StatusPending,
	})
}

// clickExpandControls expands collapsed content areas to expose more
// feed/comment nodes. Best effort, short timeouts.
func (e *Extractor) clickExpandControls(page playwright.Page) {
	for _, selector := range expandControlSelectors {
		buttons := page.Locator(selector)
		count, err := buttons.Count()
		if err != nil {
			continue
		}
		if count > 8 {
			count = 8
		}
		for i := 0; i < count; i++ {
			if err := buttons.Nth(i).Click(playwright.LocatorClickOptions{
				Timeout: playwright.Float(1_000),
			}); err != nil {
				continue
			}
			page.WaitForTimeout(200)
		}
	}
}

// expandCommentControls clicks comment toggles inside one container because
// many layouts lazy-render comment DOM only after expansion.
func (e *Extractor) expandCommentControls(page playwright.Page, container playwright.Locator) {
	for _, selector := range commentExpandSelectors {
		buttons := container.Locator(selector)
		count, err := buttons.Count()
		if err != nil {
			continue
		}
		if count > 3 {
			count = 3
		}
		for i := 0; i < count; i++ {
			if err := buttons.Nth(i).Click(playwright.LocatorClickOptions{
				Timeout: playwright.Float(800),
			}); err != nil {
				continue
			}
			page.WaitForTimeout(200)
		}
	}
}

func (e *Extractor) scrollFeed(page playwright.Page) {
	page.Mouse().Wheel(0, float64(1600+rand.Intn(1600)))
	page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
}

// feedSignalCount returns a lightweight signal for visible feed richness.
func feedSignalCount(page playwright.Page) int {
	total := 0
	for _, selector := range feedSignalSelectors {
		count, err := page.Locator(selector).Count()
		if err != nil {
			continue
		}
		total += count
	}
	return total
}

// waitForFeedSettle waits for feed DOM/height to stabilize after
// scroll/click actions.
func (e *Extractor) waitForFeedSettle(page playwright.Page, rounds int) {
	lastHeight := -1
	lastSignal := -1
	stableRounds := 0

	for i := 0; i < rounds*2; i++ {
		page.WaitForTimeout(800)

		height := lastHeight
		if res, err := page.Evaluate("document.body.scrollHeight"); err == nil {
			switch v := res.(type) {
			case int:
				height = v
			case float64:
				height = int(v)
			}
		}
		signal := feedSignalCount(page)

		if height == lastHeight && signal == lastSignal {
			stableRounds++
			if stableRounds >= rounds {
				return
			}
		} else {
			stableRounds = 0
		}
		lastHeight = height
		lastSignal = signal
	}
}
