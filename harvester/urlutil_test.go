package harvester

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeContentUrlKeepsIdentityParamsOnly(t *testing.T) {
	normalized, err := NormalizeContentUrl(
		"https://www.facebook.com/story.php?story_fbid=123&id=456&__cft__[0]=junk&ref=share",
		"https://www.facebook.com/somepage")
	require.NoError(t, err)
	require.Equal(t, "https://www.facebook.com/story.php?id=456&story_fbid=123", normalized)
}

func TestNormalizeContentUrlResolvesRelativeHref(t *testing.T) {
	normalized, err := NormalizeContentUrl(
		"/groups/abc/posts/999/",
		"https://www.facebook.com/groups/abc")
	require.NoError(t, err)
	require.Equal(t, "https://www.facebook.com/groups/abc/posts/999", normalized)
}

func TestNormalizeContentUrlDropsFragmentAndTrailingSlash(t *testing.T) {
	normalized, err := NormalizeContentUrl(
		"https://m.facebook.com/somepage/posts/1/#comment_section",
		"https://m.facebook.com/somepage")
	require.NoError(t, err)
	require.Equal(t, "https://m.facebook.com/somepage/posts/1", normalized)
}

func TestNormalizeContentUrlIsIdempotent(t *testing.T) {
	first, err := NormalizeContentUrl(
		"https://www.facebook.com/photo/?fbid=111&set=a.1",
		"https://www.facebook.com/somepage")
	require.NoError(t, err)
	second, err := NormalizeContentUrl(first, "https://www.facebook.com/somepage")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestFallbackContentUrlIsDeterministic(t *testing.T) {
	base := "https://www.facebook.com/somepage/"
	first := FallbackContentUrl(base, "some post body", 2)
	second := FallbackContentUrl(base, "some post body", 2)
	require.Equal(t, first, second)

	require.True(t, strings.HasPrefix(first, "https://www.facebook.com/somepage#content-"))
	suffix := strings.TrimPrefix(first, "https://www.facebook.com/somepage#content-")
	require.Len(t, suffix, 16)
}

func TestFallbackContentUrlVariesByIndexAndText(t *testing.T) {
	base := "https://www.facebook.com/somepage"
	require.NotEqual(t,
		FallbackContentUrl(base, "some post body", 0),
		FallbackContentUrl(base, "some post body", 1))
	require.NotEqual(t,
		FallbackContentUrl(base, "some post body", 0),
		FallbackContentUrl(base, "another post body", 0))
}

func TestPostFingerprintStableAcrossRuns(t *testing.T) {
	url := "https://www.facebook.com/somepage/posts/1"
	require.Equal(t, PostFingerprint(url), PostFingerprint(url))
	require.Len(t, PostFingerprint(url), 32)
}
