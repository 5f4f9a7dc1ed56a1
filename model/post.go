package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

// PostStatus is the lifecycle state of a harvested post.
type PostStatus string

const (
	StatusPending   PostStatus = "pending"
	StatusProcessed PostStatus = "processed"
	StatusError     PostStatus = "error"
)

// ExtractionTier records which extraction strategy produced a post. Ordering
// encodes confidence: container_post is the richest signal, emergency_fallback
// is a synthesized placeholder.
type ExtractionTier string

const (
	TierContainerPost     ExtractionTier = "container_post"
	TierPermalinkFallback ExtractionTier = "permalink_fallback"
	TierPageFallback      ExtractionTier = "page_fallback"
	TierEmergencyFallback ExtractionTier = "emergency_fallback"
)

// Precedence returns the tier's rank for deduplication. Higher wins when two
// drafts share a fingerprint.
func (t ExtractionTier) Precedence() int {
	switch t {
	case TierContainerPost:
		return 3
	case TierPermalinkFallback:
		return 2
	case TierPageFallback:
		return 1
	case TierEmergencyFallback:
		return 0
	}
	return -1
}

// CommentList is an ordered list of extracted comment strings, persisted as a
// jsonb column.
type CommentList []string

func (c CommentList) Value() (driver.Value, error) {
	if c == nil {
		c = CommentList{}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *CommentList) Scan(src interface{}) error {
	if src == nil {
		*c = CommentList{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.Errorf("unsupported comment list column type: %T", src)
	}
	return json.Unmarshal(b, c)
}

/*

RawPost is one harvested unit.

Id: deterministic fingerprint of the normalized post url, also the primary key.
    Re-harvesting the same url always yields the same Id.
Url: absolute post locator, possibly synthesized for fallback tiers
TargetUrl: the originally requested page url (differs from Url after fallback)
RawText: extracted body text in plain text, possibly empty
Comments: best-effort extracted comments, capped by the extractor
CommentCount: number of comments kept, independent of any truncation policy
SourceType: extraction tier that produced this record
ScrapedAt: capture time
Status: pending -> processed | error, mutated by the reconciler only
Analysis: schemaless enrichment payload, present once Status != pending
ErrorReason: populated when Status == error
CustomTitle / SavedAt: optional operator label attached at save time
Cursor: auto-inc index keeping relative insertion order

*/

type RawPost struct {
	Id           string         `gorm:"primaryKey" json:"_id"`
	Url          string         `json:"url"`
	TargetUrl    string         `json:"target_url"`
	RawText      string         `json:"raw_text"`
	Comments     CommentList    `gorm:"type:jsonb" json:"comments"`
	CommentCount int            `json:"comment_count"`
	SourceType   ExtractionTier `json:"source_type"`
	ScrapedAt    time.Time      `json:"scraped_at"`
	Status       PostStatus     `json:"status"`
	Analysis     datatypes.JSON `json:"analysis,omitempty"`
	ProcessedAt  *time.Time     `json:"processed_at,omitempty"`
	ErrorReason  string         `json:"error_reason,omitempty"`
	CustomTitle  string         `json:"custom_title,omitempty"`
	SavedAt      *time.Time     `json:"saved_at,omitempty"`
	Cursor       int32          `gorm:"autoIncrement" json:"-"`
}

// Sentiment is the closed label set the analyst may return.
type Sentiment string

const (
	SentimentAnxiety Sentiment = "Anxiety"
	SentimentAnger   Sentiment = "Anger"
	SentimentJoy     Sentiment = "Joy"
	SentimentNeutral Sentiment = "Neutral"
)

func ValidSentiment(s Sentiment) bool {
	switch s {
	case SentimentAnxiety, SentimentAnger, SentimentJoy, SentimentNeutral:
		return true
	}
	return false
}

const (
	MinRiskScore = 1
	MaxRiskScore = 10
)

// AnalysisResult is the enrichment attached to a RawPost after a successful
// analysis round trip.
type AnalysisResult struct {
	Translation string    `json:"translation"`
	Sentiment   Sentiment `json:"sentiment"`
	RiskScore   int       `json:"risk_score"`
	Topics      []string  `json:"topics"`
}

// Validate rejects entries outside the closed contract. Out-of-range risk
// scores and unknown sentiments are never coerced.
func (a *AnalysisResult) Validate() error {
	if !ValidSentiment(a.Sentiment) {
		return errors.Errorf("sentiment %q is not in the closed label set", a.Sentiment)
	}
	if a.RiskScore < MinRiskScore || a.RiskScore > MaxRiskScore {
		return errors.Errorf("risk_score %d outside [%d,%d]", a.RiskScore, MinRiskScore, MaxRiskScore)
	}
	return nil
}

// ToJSON serializes the result into the schemaless column payload.
func (a *AnalysisResult) ToJSON() (datatypes.JSON, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, errors.Wrap(err, "fail to serialize analysis result")
	}
	return datatypes.JSON(b), nil
}
