package app_config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSentinelAppConfig(t *testing.T) {
	content := `
target_urls:
  - https://www.facebook.com/somepage
  - https://www.facebook.com/groups/abc
scroll_cycles: 5
headless: true
batch_size: 10
model_name: gpt-4o-mini
max_comments: 8
`
	path := filepath.Join(t.TempDir(), "sentinel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config := ParseSentinelAppConfig(path)
	require.Equal(t, []string{
		"https://www.facebook.com/somepage",
		"https://www.facebook.com/groups/abc",
	}, config.TargetUrls)
	require.Equal(t, 5, config.ScrollCycles)
	require.True(t, config.Headless)
	require.Equal(t, 10, config.BatchSize)
	require.Equal(t, "gpt-4o-mini", config.ModelName)
	require.Equal(t, 8, config.MaxComments)
}
