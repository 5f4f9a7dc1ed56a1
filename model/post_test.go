package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTierPrecedenceOrdering(t *testing.T) {
	require.Greater(t, TierContainerPost.Precedence(), TierPermalinkFallback.Precedence())
	require.Greater(t, TierPermalinkFallback.Precedence(), TierPageFallback.Precedence())
	require.Greater(t, TierPageFallback.Precedence(), TierEmergencyFallback.Precedence())
	require.Equal(t, -1, ExtractionTier("bogus").Precedence())
}

func TestAnalysisResultValidate(t *testing.T) {
	valid := AnalysisResult{Translation: "hi", Sentiment: SentimentJoy, RiskScore: 1, Topics: []string{"a"}}
	require.NoError(t, valid.Validate())

	tooHigh := valid
	tooHigh.RiskScore = 11
	require.Error(t, tooHigh.Validate())

	tooLow := valid
	tooLow.RiskScore = 0
	require.Error(t, tooLow.Validate())

	badSentiment := valid
	badSentiment.Sentiment = "Ecstatic"
	require.Error(t, badSentiment.Validate())
}

func TestCommentListRoundTrip(t *testing.T) {
	list := CommentList{"first", "second"}
	value, err := list.Value()
	require.NoError(t, err)

	var decoded CommentList
	require.NoError(t, decoded.Scan(value))
	require.Equal(t, list, decoded)

	var fromNil CommentList
	require.NoError(t, fromNil.Scan(nil))
	require.Equal(t, CommentList{}, fromNil)

	require.Error(t, decoded.Scan(42))
}

func TestRawPostJSONFieldNames(t *testing.T) {
	post := RawPost{Id: "abc", Url: "https://example.com", RawText: "text"}
	encoded, err := json.Marshal(&post)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(encoded, &fields))
	require.Equal(t, "abc", fields["_id"])
	require.Contains(t, fields, "raw_text")
	require.Contains(t, fields, "source_type")
	require.NotContains(t, fields, "Cursor")
}

func TestAnalysisResultToJSON(t *testing.T) {
	result := AnalysisResult{Translation: "hi", Sentiment: SentimentNeutral, RiskScore: 3, Topics: []string{"a"}}
	payload, err := result.ToJSON()
	require.NoError(t, err)

	var decoded AnalysisResult
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.Equal(t, result, decoded)
}
