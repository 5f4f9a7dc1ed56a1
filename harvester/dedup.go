package harvester

import (
	"time"

	"github.com/sentinelworks/sentinel/model"
)

// DeduplicateDrafts collapses all drafts collected across tiers for one
// target into a set with unique fingerprints. On a fingerprint collision the
// draft from the highest-precedence tier wins; first-seen order of the kept
// drafts is preserved.
func DeduplicateDrafts(drafts []*model.RawPost) []*model.RawPost {
	keptById := map[string]*model.RawPost{}
	order := []string{}

	for _, draft := range drafts {
		existing, ok := keptById[draft.Id]
		if !ok {
			keptById[draft.Id] = draft
			order = append(order, draft.Id)
			continue
		}
		if draft.SourceType.Precedence() > existing.SourceType.Precedence() {
			keptById[draft.Id] = draft
		}
	}

	result := make([]*model.RawPost, 0, len(order))
	for _, id := range order {
		result = append(result, keptById[id])
	}
	return result
}

// EmergencyRecord synthesizes the placeholder emitted when every real
// extraction tier came up empty for a target.
func EmergencyRecord(targetUrl string, reason string) *model.RawPost {
	text := "No extractable post containers found. Emergency fallback record."
	if reason != "" {
		text = text + " Reason: " + reason
	}
	normalized, err := NormalizeContentUrl(targetUrl, targetUrl)
	if err != nil {
		normalized = targetUrl
	}
	return &model.RawPost{
		Id:           PostFingerprint(normalized),
		Url:          targetUrl,
		TargetUrl:    targetUrl,
		RawText:      text,
		Comments:     model.CommentList{},
		CommentCount: 0,
		SourceType:   model.TierEmergencyFallback,
		ScrapedAt:    time.Now().UTC(),
		Status:       model.StatusPending,
	}
}

// EnsureNonEmpty guarantees downstream code never observes an empty result
// set for a requested target.
func EnsureNonEmpty(targetUrl string, posts []*model.RawPost, reason string) []*model.RawPost {
	if len(posts) > 0 {
		return posts
	}
	return []*model.RawPost{EmergencyRecord(targetUrl, reason)}
}
