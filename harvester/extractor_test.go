package harvester

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sentinelworks/sentinel/model"
)

func TestScrollStopsEarlyOnDeadFeed(t *testing.T) {
	// A page that never yields new drafts stops at the no-growth threshold
	// instead of burning the whole budget on settle waits.
	cycle, noGrowth := 0, 0
	for !shouldStopScrolling(cycle, 50, noGrowth) {
		cycle++
		noGrowth++
	}
	require.Equal(t, NoGrowthStopThreshold, cycle)
}

func TestScrollNeverExceedsBudget(t *testing.T) {
	// A feed that keeps producing runs exactly the budget, never past it.
	cycle := 0
	for !shouldStopScrolling(cycle, 50, 0) {
		cycle++
	}
	require.Equal(t, 50, cycle)
}

func TestScrollSmallBudgetWins(t *testing.T) {
	require.False(t, shouldStopScrolling(1, 2, 0))
	require.True(t, shouldStopScrolling(2, 2, 0))
	// No-growth streaks shorter than the threshold do not stop the loop.
	require.False(t, shouldStopScrolling(5, 50, NoGrowthStopThreshold-1))
	require.True(t, shouldStopScrolling(5, 50, NoGrowthStopThreshold))
}

func TestPushStampsRunLabel(t *testing.T) {
	e := NewExtractor(Options{CustomTitle: "ops label"}, nil)

	draft := &model.RawPost{Id: "a"}
	e.push(draft)
	require.Equal(t, "ops label", draft.CustomTitle)

	// A label already on the draft is never overwritten.
	labeled := &model.RawPost{Id: "b", CustomTitle: "existing"}
	e.push(labeled)
	require.Equal(t, "existing", labeled.CustomTitle)
}

func TestPushWithoutRunLabelLeavesTitleEmpty(t *testing.T) {
	e := NewExtractor(Options{}, nil)
	draft := &model.RawPost{Id: "a"}
	e.push(draft)
	require.Empty(t, draft.CustomTitle)
}
