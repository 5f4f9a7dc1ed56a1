package sink

import (
	"time"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"

	"github.com/sentinelworks/sentinel/model"
	"github.com/sentinelworks/sentinel/storage"
	"github.com/sentinelworks/sentinel/utils"
)

// maxTitleLength bounds the derived display title.
const maxTitleLength = 80

// StoreSink upserts harvested records into the post store as they stream in.
// Pushed posts are cloned before stamping so callers keep ownership of their
// drafts.
type StoreSink struct {
	store *storage.PostStore
}

func NewStoreSink(store *storage.PostStore) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Push(post *model.RawPost) error {
	var record model.RawPost
	if err := copier.Copy(&record, post); err != nil {
		return errors.Wrap(err, "fail to clone harvested record")
	}

	now := time.Now().UTC()
	record.SavedAt = &now
	if record.CustomTitle == "" {
		record.CustomTitle = deriveTitle(record.RawText)
	}
	return s.store.Upsert(&record)
}

// deriveTitle takes the first line of the post text, truncated for display.
func deriveTitle(rawText string) string {
	title := rawText
	for i, r := range rawText {
		if r == '\n' {
			title = rawText[:i]
			break
		}
	}
	return utils.TruncateOnRuneBoundary(title, maxTitleLength)
}
