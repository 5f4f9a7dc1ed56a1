package app_config

import (
	"os"

	"gopkg.in/yaml.v2"

	Logger "github.com/sentinelworks/sentinel/utils/log"
)

// SentinelAppConfig is the static configuration of a harvesting deployment.
type SentinelAppConfig struct {
	TargetUrls   []string `yaml:"target_urls"`
	ScrollCycles int      `yaml:"scroll_cycles"`
	Headless     bool     `yaml:"headless"`
	BatchSize    int      `yaml:"batch_size"`
	ModelName    string   `yaml:"model_name"`
	MaxComments  int      `yaml:"max_comments"`
}

// ParseSentinelAppConfig reads the yaml config at path. Any failure is fatal,
// a service cannot run on a half-read config.
func ParseSentinelAppConfig(path string) SentinelAppConfig {
	content, err := os.ReadFile(path)
	if err != nil {
		Logger.Log.Fatal("fail to read app config ", path, ": ", err)
	}
	var config SentinelAppConfig
	if err := yaml.UnmarshalStrict(content, &config); err != nil {
		Logger.Log.Fatal("fail to parse app config ", path, ": ", err)
	}
	return config
}
