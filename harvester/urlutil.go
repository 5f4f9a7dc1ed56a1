package harvester

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sentinelworks/sentinel/utils"
)

// Query params that identify a post/group resource. Everything else is
// tracking noise and must be dropped so fingerprints stay stable across
// scrapes.
var identityQueryKeys = []string{"fbid", "id", "story_fbid"}

// NormalizeContentUrl resolves rawUrl against baseUrl and canonicalizes it:
// identifying query params only, no fragment, no trailing slash.
func NormalizeContentUrl(rawUrl string, baseUrl string) (string, error) {
	base, err := url.Parse(baseUrl)
	if err != nil {
		return "", errors.Wrapf(err, "fail to parse base url: %s", baseUrl)
	}
	ref, err := url.Parse(rawUrl)
	if err != nil {
		return "", errors.Wrapf(err, "fail to parse content url: %s", rawUrl)
	}
	absolute := base.ResolveReference(ref)

	query := absolute.Query()
	kept := []string{}
	keys := append([]string{}, identityQueryKeys...)
	sort.Strings(keys)
	for _, key := range keys {
		if v := query.Get(key); v != "" {
			kept = append(kept, fmt.Sprintf("%s=%s", key, v))
		}
	}

	path := strings.TrimRight(absolute.Path, "/")
	normalized := fmt.Sprintf("%s://%s%s", absolute.Scheme, absolute.Host, path)
	if len(kept) > 0 {
		normalized = normalized + "?" + strings.Join(kept, "&")
	}
	return normalized, nil
}

// FallbackContentUrl builds a stable synthetic url for a draft that exposes no
// permalink, so it can still be fingerprinted.
func FallbackContentUrl(baseUrl string, rawText string, index int) string {
	seed := fmt.Sprintf("%s|%s|%d", baseUrl, strings.TrimSpace(rawText), index)
	return strings.TrimRight(baseUrl, "/") + "#content-" + utils.TextToMd5Hash(seed)[:16]
}

// PostFingerprint derives the content-addressed post id. Same normalized url,
// same id, across runs.
func PostFingerprint(normalizedUrl string) string {
	return utils.TextToMd5Hash(normalizedUrl)
}
