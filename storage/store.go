package storage

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sentinelworks/sentinel/model"
)

// harvestOwnedColumns are the columns a re-harvest is allowed to overwrite.
// Lifecycle columns (status, analysis, processed_at, error_reason) are owned
// by the processing side and survive upserts.
var harvestOwnedColumns = []string{
	"url",
	"target_url",
	"raw_text",
	"comments",
	"comment_count",
	"source_type",
	"scraped_at",
	"custom_title",
	"saved_at",
}

// PostStore persists harvested records and their analysis lifecycle.
type PostStore struct {
	db *gorm.DB
}

func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// Upsert inserts the post or, on id conflict, overwrites only the
// harvest-owned columns of the existing row.
func (s *PostStore) Upsert(post *model.RawPost) error {
	if post.Id == "" {
		return errors.New("cannot upsert post with empty id")
	}
	if post.Status == "" {
		post.Status = model.StatusPending
	}
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(harvestOwnedColumns),
	}).Create(post)
	if res.Error != nil {
		return errors.Wrap(res.Error, "fail to upsert post "+post.Id)
	}
	return nil
}

// QueryByStatus returns up to limit posts in the given status, oldest first.
// limit <= 0 means no limit.
func (s *PostStore) QueryByStatus(status model.PostStatus, limit int) ([]*model.RawPost, error) {
	var posts []*model.RawPost
	query := s.db.Where("status = ?", status).Order("cursor ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&posts).Error; err != nil {
		return nil, errors.Wrap(err, "fail to query posts by status "+string(status))
	}
	return posts, nil
}

// GetPost looks up one post by id.
func (s *PostStore) GetPost(id string) (*model.RawPost, error) {
	var post model.RawPost
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		return nil, errors.Wrap(err, "fail to get post "+id)
	}
	return &post, nil
}

// MarkProcessed stamps the post with its validated analysis result.
func (s *PostStore) MarkProcessed(id string, result *model.AnalysisResult) error {
	analysis, err := result.ToJSON()
	if err != nil {
		return errors.Wrap(err, "fail to serialize analysis for post "+id)
	}
	now := time.Now().UTC()
	res := s.db.Model(&model.RawPost{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       model.StatusProcessed,
		"analysis":     analysis,
		"processed_at": &now,
		"error_reason": "",
	})
	if res.Error != nil {
		return errors.Wrap(res.Error, "fail to mark post processed "+id)
	}
	if res.RowsAffected == 0 {
		return errors.New("no post found with id " + id)
	}
	return nil
}

// MarkError records a terminal processing failure for one post.
func (s *PostStore) MarkError(id string, reason string) error {
	now := time.Now().UTC()
	res := s.db.Model(&model.RawPost{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       model.StatusError,
		"processed_at": &now,
		"error_reason": reason,
	})
	if res.Error != nil {
		return errors.Wrap(res.Error, "fail to mark post errored "+id)
	}
	if res.RowsAffected == 0 {
		return errors.New("no post found with id " + id)
	}
	return nil
}

// CountByStatus reports how many posts sit in each lifecycle status.
func (s *PostStore) CountByStatus() (map[model.PostStatus]int64, error) {
	type row struct {
		Status model.PostStatus
		Total  int64
	}
	var rows []row
	if err := s.db.Model(&model.RawPost{}).
		Select("status, count(*) as total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "fail to count posts by status")
	}
	counts := map[model.PostStatus]int64{}
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}
