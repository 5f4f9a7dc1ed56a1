package analysis

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/sentinelworks/sentinel/model"
)

// Outcome is the terminal per-post verdict of reconciliation. Exactly one of
// Result/Err is set.
type Outcome struct {
	PostId string
	Result *model.AnalysisResult
	Err    error
}

type batchEnvelope struct {
	Results []json.RawMessage `json:"results"`
}

type resultEntry struct {
	Key string `json:"_id"`
	model.AnalysisResult
}

// ExtractJSONObject pulls the outermost JSON object out of a model response,
// tolerating markdown fences and surrounding prose.
func ExtractJSONObject(response string) (string, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", errors.New("no JSON object found in model response")
	}
	return cleaned[start : end+1], nil
}

// Reconcile routes model results back to the posts of a batch. Every post
// ends up with exactly one outcome. Matching is by echoed key first, then by
// raw post id, then, when the model mangled every key but returned exactly
// one entry per post, by position.
func Reconcile(batch *BatchRequest, response string) ([]Outcome, error) {
	payload, err := ExtractJSONObject(response)
	if err != nil {
		return nil, err
	}
	var envelope batchEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		return nil, errors.Wrap(err, "fail to decode model response envelope")
	}

	type parsed struct {
		entry resultEntry
		err   error
	}
	entries := make([]parsed, 0, len(envelope.Results))
	for _, raw := range envelope.Results {
		var entry resultEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			entries = append(entries, parsed{err: errors.Wrap(err, "malformed result entry")})
			continue
		}
		entries = append(entries, parsed{entry: entry})
	}

	resultsByPost := map[string]*model.AnalysisResult{}
	errsByPost := map[string]error{}
	matched := 0
	for _, p := range entries {
		if p.err != nil {
			continue
		}
		postId, ok := batch.KeyMap[p.entry.Key]
		if !ok {
			// Some models echo the record id instead of the batch key.
			if _, known := findPostById(batch.Posts, p.entry.Key); known {
				postId = p.entry.Key
				ok = true
			}
		}
		if !ok {
			continue
		}
		if _, dup := resultsByPost[postId]; dup {
			continue
		}
		if _, dup := errsByPost[postId]; dup {
			continue
		}
		matched++
		result := p.entry.AnalysisResult
		if err := result.Validate(); err != nil {
			errsByPost[postId] = err
			continue
		}
		resultsByPost[postId] = &result
	}

	// Counts line up but some keys got mangled, so trust the instructed
	// ordering instead of the partial key matches.
	if matched < len(batch.Posts) && len(entries) == len(batch.Posts) && len(batch.Posts) > 0 {
		resultsByPost = map[string]*model.AnalysisResult{}
		errsByPost = map[string]error{}
		for i, p := range entries {
			postId := batch.Posts[i].Id
			if p.err != nil {
				errsByPost[postId] = p.err
				continue
			}
			result := p.entry.AnalysisResult
			if err := result.Validate(); err != nil {
				errsByPost[postId] = err
				continue
			}
			resultsByPost[postId] = &result
		}
	}

	outcomes := make([]Outcome, 0, len(batch.Posts))
	for _, post := range batch.Posts {
		if result, ok := resultsByPost[post.Id]; ok {
			outcomes = append(outcomes, Outcome{PostId: post.Id, Result: result})
			continue
		}
		if err, ok := errsByPost[post.Id]; ok {
			outcomes = append(outcomes, Outcome{PostId: post.Id, Err: err})
			continue
		}
		outcomes = append(outcomes, Outcome{PostId: post.Id, Err: errors.New("model returned no result for this post")})
	}
	return outcomes, nil
}

func findPostById(posts []*model.RawPost, id string) (*model.RawPost, bool) {
	for _, post := range posts {
		if post.Id == id {
			return post, true
		}
	}
	return nil, false
}
