package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestTextToMd5Hash(t *testing.T) {
	require.Equal(t, "5d41402abc4b2a76b9719d911017c592", TextToMd5Hash("hello"))
	require.Len(t, TextToMd5Hash(""), 32)
}

func TestContainsString(t *testing.T) {
	require.True(t, ContainsString([]string{"a", "b"}, "b"))
	require.False(t, ContainsString([]string{"a", "b"}, "c"))
	require.False(t, ContainsString(nil, "a"))
}

func TestTruncateOnRuneBoundary(t *testing.T) {
	require.Equal(t, "abc", TruncateOnRuneBoundary("abc", 10))
	require.Equal(t, "abc", TruncateOnRuneBoundary("abcdef", 3))
	require.Equal(t, "", TruncateOnRuneBoundary("abc", 0))

	// "é" is 2 bytes; a 5-byte cap must back off to 4 bytes, not split the
	// third rune.
	truncated := TruncateOnRuneBoundary("ééé", 5)
	require.Equal(t, "éé", truncated)
	require.True(t, utf8.ValidString(truncated))
}

func TestRandomUserAgent(t *testing.T) {
	for i := 0; i < 10; i++ {
		ua := RandomUserAgent()
		require.True(t, strings.HasPrefix(ua, "Mozilla/5.0"))
	}
}
