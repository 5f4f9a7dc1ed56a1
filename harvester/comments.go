package harvester

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	Logger "github.com/sentinelworks/sentinel/utils/log"
)

// Comments shorter than this are UI chrome ("2h", "like"), not content.
const minCommentLength = 3

func parseContainerHtml(containerHtml string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(containerHtml))
	if err != nil {
		return nil, err
	}
	// goquery Text() will not replace br with newline, add it back to keep
	// extracted text layout-faithful.
	doc.Find("br").AfterHtml("\n")
	return doc, nil
}

// extractPermalinkFromHtml probes multiple anchor selectors to locate a post
// permalink inside a container. Returns the first href that normalizes.
func extractPermalinkFromHtml(containerHtml string, baseUrl string) string {
	doc, err := parseContainerHtml(containerHtml)
	if err != nil {
		Logger.Log.Debug("fail to parse container html for permalink: ", err)
		return ""
	}

	permalink := ""
	for _, selector := range containerPermalinkSelectors {
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			href, exists := s.Attr("href")
			if !exists || href == "" {
				return true
			}
			normalized, err := NormalizeContentUrl(href, baseUrl)
			if err != nil {
				return true
			}
			permalink = normalized
			return false
		})
		if permalink != "" {
			return permalink
		}
	}
	return ""
}

// extractCommentsFromHtml harvests a best-effort list of comments from a post
// container. Absence of comments is not an error, only an empty list.
func extractCommentsFromHtml(containerHtml string, rawText string, maxComments int) []string {
	comments := []string{}
	doc, err := parseContainerHtml(containerHtml)
	if err != nil {
		Logger.Log.Debug("fail to parse container html for comments: ", err)
		return comments
	}

	seen := map[string]bool{}
	for _, selector := range commentSelectors {
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			if len(text) < minCommentLength {
				return true
			}
			if seen[text] {
				return true
			}
			// Avoid re-capturing the original post text as a "comment".
			if text == rawText || strings.Contains(rawText, text) {
				return true
			}
			seen[text] = true
			comments = append(comments, text)
			return len(comments) < maxComments
		})
		if len(comments) >= maxComments {
			break
		}
	}
	return comments
}
