// Package session manages the persisted browser login state used to harvest
// pages that hide content behind authentication.
package session

import (
	"os"

	Logger "github.com/sentinelworks/sentinel/utils/log"
)

const (
	DefaultStorageStatePath = "storage_state.json"
	storageStatePathEnv     = "SENTINEL_STORAGE_STATE"
)

// ResolveStorageStatePath returns the configured storage state file, or ""
// when no usable state exists so harvesting proceeds logged out.
func ResolveStorageStatePath() string {
	path := os.Getenv(storageStatePathEnv)
	if path == "" {
		path = DefaultStorageStatePath
	}
	if _, err := os.Stat(path); err != nil {
		Logger.Log.Warn("no browser storage state at ", path, ", harvesting without login")
		return ""
	}
	return path
}
