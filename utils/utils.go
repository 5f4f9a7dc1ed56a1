package utils

import (
	"crypto/md5"
	"encoding/hex"
	"math/rand"
	"unicode/utf8"
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_5) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15",
}

// TextToMd5Hash returns the hex md5 digest of the input. Post fingerprints
// are content addressed with this digest over the normalized url.
func TextToMd5Hash(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// ContainsString returns true iff the provided string slice hay contains
// string needle.
func ContainsString(hay []string, needle string) bool {
	for _, str := range hay {
		if str == needle {
			return true
		}
	}
	return false
}

// TruncateOnRuneBoundary caps s at limit bytes, backing off so a multi-byte
// rune is never split.
func TruncateOnRuneBoundary(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// RandomUserAgent picks a browser user agent for a new context.
func RandomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}
