package harvester

import "strings"

// Selector tiers are probed in priority order. Feed DOM is volatile, so every
// tier carries several selector variants known from different page layouts.

// Tier 1: structured post containers.
var containerSelectors = []string{
	`div[role="article"]`,
	`div[data-ad-preview="message"]`,
	`div[data-pagelet*="FeedUnit"]`,
}

// Tier 2: post-like anchors harvested straight off the page. Useful when a
// profile layout exposes few role=article containers.
var permalinkAnchorSelectors = []string{
	`a[href*="/posts/"]`,
	`a[href*="/permalink/"]`,
	`a[href*="story_fbid="]`,
	`a[href*="/reel/"]`,
	`a[href*="/videos/"]`,
}

// Permalink probes inside a single container, superset of the page-level
// anchor set.
var containerPermalinkSelectors = []string{
	`a[href*="/posts/"]`,
	`a[href*="/permalink/"]`,
	`a[href*="story_fbid="]`,
	`a[href*="/reel/"]`,
	`a[href*="/videos/"]`,
	`a[href*="/photo/"]`,
	`a[href*="/photos/"]`,
	`a[href*="/groups/"]`,
}

// Collapsed content controls expanded before each harvest pass.
var expandControlSelectors = []string{
	`div[role="button"][aria-label*="See more"]`,
	`div[role="button"][aria-label*="More posts"]`,
	`div[role="button"][aria-label*="View more comments"]`,
	`div[role="button"][aria-label*="See previous comments"]`,
}

// Comment DOM is often lazy-rendered until these are clicked.
var commentExpandSelectors = []string{
	`div[role="button"][aria-label*="Comment"]`,
	`div[role="button"][aria-label*="Comments"]`,
	`div[role="button"][aria-label*="View more comments"]`,
	`div[role="button"][aria-label*="See more comments"]`,
	`a[role="link"][aria-label*="Comment"]`,
}

var commentSelectors = []string{
	`div[aria-label*="Comment"] div[dir="auto"]`,
	`ul li div[dir="auto"]`,
	`div[data-ad-comet-preview="message"] div[dir="auto"]`,
	`div[role="article"] ul div[dir="auto"]`,
}

// Cheap signal for visible feed richness, used by the settle wait.
var feedSignalSelectors = []string{
	`div[role="article"]`,
	`div[data-ad-preview="message"]`,
	`div[data-pagelet*="FeedUnit"]`,
	`a[href*="/posts/"]`,
	`a[href*="/permalink/"]`,
	`a[href*="story_fbid="]`,
}

func joinedPermalinkAnchorSelector() string {
	return strings.Join(permalinkAnchorSelectors, ",")
}
