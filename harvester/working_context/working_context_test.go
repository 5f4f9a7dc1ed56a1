package working_context

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sentinelworks/sentinel/model"
)

func TestClaimUrl(t *testing.T) {
	wc := NewExtractorWorkingContext("https://www.facebook.com/somepage", nil)
	require.True(t, wc.ClaimUrl("https://www.facebook.com/somepage/posts/1"))
	require.False(t, wc.ClaimUrl("https://www.facebook.com/somepage/posts/1"))
	require.True(t, wc.ClaimUrl("https://www.facebook.com/somepage/posts/2"))
}

func TestNoGrowthCounting(t *testing.T) {
	wc := NewExtractorWorkingContext("https://www.facebook.com/somepage", nil)

	wc.BeginCycle()
	wc.ClaimUrl("https://www.facebook.com/somepage/posts/1")
	wc.EndCycle()
	require.Equal(t, 1, wc.Cycle)
	require.Equal(t, 0, wc.NoGrowthCycles)

	// Two cycles without new claims accumulate.
	wc.BeginCycle()
	wc.EndCycle()
	wc.BeginCycle()
	wc.ClaimUrl("https://www.facebook.com/somepage/posts/1")
	wc.EndCycle()
	require.Equal(t, 3, wc.Cycle)
	require.Equal(t, 2, wc.NoGrowthCycles)

	// A fresh claim resets the streak.
	wc.BeginCycle()
	wc.ClaimUrl("https://www.facebook.com/somepage/posts/2")
	wc.EndCycle()
	require.Equal(t, 0, wc.NoGrowthCycles)
}

func TestAddDraft(t *testing.T) {
	wc := NewExtractorWorkingContext("https://www.facebook.com/somepage", nil)
	wc.AddDraft(&model.RawPost{Id: "a"})
	wc.AddDraft(&model.RawPost{Id: "b"})
	require.Len(t, wc.Drafts, 2)
	require.Equal(t, "SharedContext is: target: https://www.facebook.com/somepage drafts: 2", wc.String())
}
