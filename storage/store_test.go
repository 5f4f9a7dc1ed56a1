package storage

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sentinelworks/sentinel/model"
	"github.com/sentinelworks/sentinel/utils"
	"github.com/sentinelworks/sentinel/utils/dotenv"
)

func TestMain(m *testing.M) {
	dotenv.LoadDotEnvsInTests()
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) *PostStore {
	t.Helper()
	if !utils.IsDBConfigured() {
		t.Skip("postgres not configured, skipping store tests")
	}
	db, _ := utils.CreateTempDB(t)
	return NewPostStore(db)
}

func samplePost(id string) *model.RawPost {
	return &model.RawPost{
		Id:           id,
		Url:          "https://www.facebook.com/somepage/posts/" + id,
		TargetUrl:    "https://www.facebook.com/somepage",
		RawText:      "body of " + id,
		Comments:     model.CommentList{"a comment"},
		CommentCount: 1,
		SourceType:   model.TierContainerPost,
		ScrapedAt:    time.Now().UTC(),
		Status:       model.StatusPending,
	}
}

func TestUpsertInsertsAndOverwritesHarvestFields(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Upsert(samplePost("p1")))

	updated := samplePost("p1")
	updated.RawText = "refreshed body"
	updated.Comments = model.CommentList{"a comment", "another comment"}
	updated.CommentCount = 2
	require.NoError(t, store.Upsert(updated))

	got, err := store.GetPost("p1")
	require.NoError(t, err)
	require.Equal(t, "refreshed body", got.RawText)
	require.Equal(t, 2, got.CommentCount)
	require.Equal(t, model.CommentList{"a comment", "another comment"}, got.Comments)
}

func TestUpsertPreservesLifecycleFields(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Upsert(samplePost("p1")))
	require.NoError(t, store.MarkProcessed("p1", &model.AnalysisResult{
		Translation: "hi", Sentiment: model.SentimentNeutral, RiskScore: 2, Topics: []string{"a"},
	}))

	// A re-harvest of the same post must not reset its processed status.
	require.NoError(t, store.Upsert(samplePost("p1")))

	got, err := store.GetPost("p1")
	require.NoError(t, err)
	require.Equal(t, model.StatusProcessed, got.Status)
	require.NotNil(t, got.ProcessedAt)
	require.NotEmpty(t, got.Analysis)
}

func TestUpsertRejectsEmptyId(t *testing.T) {
	store := newTestStore(t)
	require.Error(t, store.Upsert(&model.RawPost{}))
}

func TestQueryByStatusOrderAndLimit(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Upsert(samplePost("p1")))
	require.NoError(t, store.Upsert(samplePost("p2")))
	require.NoError(t, store.Upsert(samplePost("p3")))
	require.NoError(t, store.MarkError("p2", "boom"))

	pending, err := store.QueryByStatus(model.StatusPending, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, "p1", pending[0].Id)
	require.Equal(t, "p3", pending[1].Id)

	limited, err := store.QueryByStatus(model.StatusPending, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)

	errored, err := store.QueryByStatus(model.StatusError, 0)
	require.NoError(t, err)
	require.Len(t, errored, 1)
	require.Equal(t, "boom", errored[0].ErrorReason)
}

func TestMarkProcessedUnknownId(t *testing.T) {
	store := newTestStore(t)
	err := store.MarkProcessed("missing", &model.AnalysisResult{
		Translation: "hi", Sentiment: model.SentimentNeutral, RiskScore: 2,
	})
	require.Error(t, err)
}

func TestCountByStatus(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Upsert(samplePost("p1")))
	require.NoError(t, store.Upsert(samplePost("p2")))
	require.NoError(t, store.MarkError("p1", "boom"))

	counts, err := store.CountByStatus()
	require.NoError(t, err)
	require.Equal(t, int64(1), counts[model.StatusPending])
	require.Equal(t, int64(1), counts[model.StatusError])
}
