package sink

import (
	"encoding/json"

	"github.com/sentinelworks/sentinel/model"
	Logger "github.com/sentinelworks/sentinel/utils/log"
)

// StdErrSink writes each harvested record to stderr via the shared logger.
// Useful for local development where no database is wired up.
type StdErrSink struct{}

func NewStdErrSink() *StdErrSink {
	return &StdErrSink{}
}

func (s *StdErrSink) Push(post *model.RawPost) error {
	encoded, err := json.Marshal(post)
	if err != nil {
		Logger.Log.Error("fail to encode harvested record ", post.Id, ": ", err)
		return err
	}
	Logger.Log.Info("harvested record: ", string(encoded))
	return nil
}
