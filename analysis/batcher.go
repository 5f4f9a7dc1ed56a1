package analysis

import (
	"fmt"
	"strings"

	"github.com/sentinelworks/sentinel/model"
	"github.com/sentinelworks/sentinel/utils"
)

const (
	DefaultBatchSize = 25

	// Per-post text cap inside the prompt to keep batch requests within
	// context limits.
	maxPromptTextLength = 4000
)

const promptHeader = `You are a careful social media analyst. Analyze each of the posts below.

For every post, produce:
- "translation": an English translation of the post text (or the original text if already English).
- "sentiment": exactly one of "Anxiety", "Anger", "Joy", "Neutral".
- "risk_score": an integer from 1 (harmless) to 10 (urgent threat) rating real-world risk.
- "topics": a short list of topic strings.

Respond with STRICT JSON only, no markdown fences, no commentary, in this exact shape:
{"results": [{"_id": "<the post key>", "translation": "...", "sentiment": "...", "risk_score": 1, "topics": ["..."]}]}

Echo each post's key verbatim in "_id". Return exactly one result per post, in the same order the posts appear.

Posts:
`

// BatchRequest carries one prompt-sized slice of pending posts together with
// the key map needed to route model results back to records.
type BatchRequest struct {
	Posts  []*model.RawPost
	KeyMap map[string]string
	Prompt string
}

// BuildBatch renders a batch of posts into a single analysis prompt. Each
// post is addressed by a positional key ("post_1", "post_2", ...) which the
// model is asked to echo back. Content-addressed ids are deliberately kept
// out of the prompt, models mangle long hashes far more often than short
// sequential keys.
func BuildBatch(posts []*model.RawPost) *BatchRequest {
	keyMap := make(map[string]string, len(posts))

	var sb strings.Builder
	sb.WriteString(promptHeader)
	for i, post := range posts {
		key := fmt.Sprintf("post_%d", i+1)
		keyMap[key] = post.Id

		text := utils.TruncateOnRuneBoundary(post.RawText, maxPromptTextLength)
		sb.WriteString("\n--- ")
		sb.WriteString(key)
		sb.WriteString(" ---\n")
		sb.WriteString(text)
		if len(post.Comments) > 0 {
			sb.WriteString("\nTop comments:\n")
			for _, comment := range post.Comments {
				sb.WriteString("- ")
				sb.WriteString(comment)
				sb.WriteString("\n")
			}
		} else {
			sb.WriteString("\n")
		}
	}

	return &BatchRequest{
		Posts:  posts,
		KeyMap: keyMap,
		Prompt: sb.String(),
	}
}

// SplitIntoBatches chunks pending posts into batch-sized requests, preserving
// order.
func SplitIntoBatches(posts []*model.RawPost, batchSize int) []*BatchRequest {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	batches := []*BatchRequest{}
	for start := 0; start < len(posts); start += batchSize {
		end := start + batchSize
		if end > len(posts) {
			end = len(posts)
		}
		batches = append(batches, BuildBatch(posts[start:end]))
	}
	return batches
}
