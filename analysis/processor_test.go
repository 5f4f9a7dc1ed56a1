package analysis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/sentinelworks/sentinel/model"
)

type fakeStore struct {
	pending   []*model.RawPost
	processed map[string]*model.AnalysisResult
	errored   map[string]string
}

func newFakeStore(posts ...*model.RawPost) *fakeStore {
	return &fakeStore{
		pending:   posts,
		processed: map[string]*model.AnalysisResult{},
		errored:   map[string]string{},
	}
}

func (s *fakeStore) QueryByStatus(status model.PostStatus, limit int) ([]*model.RawPost, error) {
	if status != model.StatusPending {
		return nil, errors.New("unexpected status query")
	}
	return s.pending, nil
}

func (s *fakeStore) MarkProcessed(id string, result *model.AnalysisResult) error {
	s.processed[id] = result
	return nil
}

func (s *fakeStore) MarkError(id string, reason string) error {
	s.errored[id] = reason
	return nil
}

type fakeClient struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (c *fakeClient) GenerateAnalysis(ctx context.Context, prompt string) (string, error) {
	i := c.calls
	c.calls++
	c.prompts = append(c.prompts, prompt)
	if i < len(c.errs) && c.errs[i] != nil {
		return "", c.errs[i]
	}
	if i < len(c.responses) {
		return c.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

func fastPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts:    DefaultMaxAttempts,
		InitialBackoff: DefaultInitialBackoff,
		MaxBackoff:     DefaultMaxBackoff,
		sleep:          func(ctx context.Context, d time.Duration) error { return nil },
	}
}

func TestProcessPendingPostsHappyPath(t *testing.T) {
	store := newFakeStore(makePosts("aaa", "bbb")...)
	client := &fakeClient{responses: []string{
		fmt.Sprintf(`{"results": [%s, %s]}`, validEntry("post_1"), validEntry("post_2")),
	}}
	processor := NewProcessor(store, client, fastPolicy(), 25, nil)

	report, err := processor.ProcessPendingPosts(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report.Pending)
	require.Equal(t, 2, report.Processed)
	require.Equal(t, 0, report.Errored)
	require.Equal(t, 1, report.Batches)
	require.Contains(t, store.processed, "aaa")
	require.Contains(t, store.processed, "bbb")
	require.Equal(t, "hello", store.processed["aaa"].Translation)
}

func TestProcessPendingPostsSplitsBatches(t *testing.T) {
	store := newFakeStore(makePosts("aaa", "bbb", "ccc")...)
	client := &fakeClient{responses: []string{
		fmt.Sprintf(`{"results": [%s, %s]}`, validEntry("post_1"), validEntry("post_2")),
		fmt.Sprintf(`{"results": [%s]}`, validEntry("post_1")),
	}}
	processor := NewProcessor(store, client, fastPolicy(), 2, nil)

	report, err := processor.ProcessPendingPosts(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report.Batches)
	require.Equal(t, 3, report.Processed)
	require.Equal(t, 2, client.calls)
	require.Contains(t, store.processed, "ccc")
}

func TestProcessPendingPostsNoPending(t *testing.T) {
	store := newFakeStore()
	client := &fakeClient{}
	processor := NewProcessor(store, client, fastPolicy(), 25, nil)

	report, err := processor.ProcessPendingPosts(context.Background())
	require.NoError(t, err)
	require.Zero(t, report.Pending)
	require.Zero(t, client.calls)
}

func TestProcessPendingPostsBatchFailureMarksAllErrored(t *testing.T) {
	store := newFakeStore(makePosts("aaa", "bbb")...)
	rle := &RateLimitError{Inner: errors.New("429")}
	client := &fakeClient{errs: []error{rle, rle, rle, rle, rle}}
	processor := NewProcessor(store, client, fastPolicy(), 25, nil)

	report, err := processor.ProcessPendingPosts(context.Background())
	require.Error(t, err)
	require.Equal(t, DefaultMaxAttempts, client.calls)
	require.Equal(t, 2, report.Errored)
	require.Contains(t, store.errored, "aaa")
	require.Contains(t, store.errored, "bbb")
}

func TestProcessPendingPostsUnparseableResponseMarksBatch(t *testing.T) {
	store := newFakeStore(makePosts("aaa", "bbb")...)
	client := &fakeClient{responses: []string{"I cannot help with that"}}
	processor := NewProcessor(store, client, fastPolicy(), 25, nil)

	report, err := processor.ProcessPendingPosts(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report.Errored)
	require.Zero(t, report.Processed)
}

func TestProcessPendingPostsMixedOutcomes(t *testing.T) {
	store := newFakeStore(makePosts("aaa", "bbb")...)
	bad := `{"_id": "post_2", "translation": "x", "sentiment": "Neutral", "risk_score": 0, "topics": []}`
	client := &fakeClient{responses: []string{
		fmt.Sprintf(`{"results": [%s, %s]}`, validEntry("post_1"), bad),
	}}
	processor := NewProcessor(store, client, fastPolicy(), 25, nil)

	report, err := processor.ProcessPendingPosts(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Processed)
	require.Equal(t, 1, report.Errored)
	require.Contains(t, store.errored["bbb"], "risk_score")
}
