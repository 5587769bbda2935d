package storage

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"potholemap_server/models"
)

// unscopedCommentLimit caps the unfiltered comment feed.
const unscopedCommentLimit = 100

// EngagementStore owns comments and votes. All vote mutations go through a
// single transaction so concurrent casts by the same user can never leave
// two rows for one (user, report) pair.
type EngagementStore struct {
	db *gorm.DB
}

func NewEngagementStore(db *gorm.DB) *EngagementStore {
	return &EngagementStore{db: db}
}

// CommentRow is a comment enriched with the author username.
type CommentRow struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	ReportID  uint      `json:"report_id"`
	Text      string    `json:"text"`
}

// Tally is the live vote count for one report.
type Tally struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}

// AddComment persists a comment after checking the report exists.
func (s *EngagementStore) AddComment(userID, reportID uint, text string) (*CommentRow, error) {
	if err := s.requireReport(s.db, reportID); err != nil {
		return nil, err
	}

	comment := models.Comment{UserID: userID, ReportID: reportID, Text: text}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	var row CommentRow
	err := s.commentQuery().Where("comments.id = ?", comment.ID).Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListComments returns comments newest first. reportID 0 means unscoped,
// which is capped at the most recent entries.
func (s *EngagementStore) ListComments(reportID uint) ([]CommentRow, error) {
	query := s.commentQuery().Order("comments.created_at DESC, comments.id DESC")
	if reportID > 0 {
		query = query.Where("comments.report_id = ?", reportID)
	} else {
		query = query.Limit(unscopedCommentLimit)
	}

	rows := []CommentRow{}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CastVote replaces any prior vote by this user on this report and returns
// the resulting tally. The write is an upsert on the (user, report) key, so
// two concurrent casts by the same user serialize on the row instead of one
// of them tripping the composite primary key; the upsert and the tally
// counts run in one transaction, so a concurrent reader never observes a
// half-applied vote.
func (s *EngagementStore) CastVote(userID, reportID uint, voteType string) (Tally, error) {
	var tally Tally
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.requireReport(tx, reportID); err != nil {
			return err
		}
		vote := models.Vote{UserID: userID, ReportID: reportID, VoteType: voteType}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "report_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"vote_type", "created_at"}),
		}).Create(&vote).Error; err != nil {
			return err
		}
		return countVotes(tx, reportID, &tally)
	})
	return tally, err
}

// ReportTally counts the current votes for a report.
func (s *EngagementStore) ReportTally(reportID uint) (Tally, error) {
	var tally Tally
	err := countVotes(s.db, reportID, &tally)
	return tally, err
}

func (s *EngagementStore) commentQuery() *gorm.DB {
	return s.db.Model(&models.Comment{}).
		Select("comments.*, users.username").
		Joins("JOIN users ON users.id = comments.user_id")
}

func (s *EngagementStore) requireReport(tx *gorm.DB, reportID uint) error {
	var count int64
	if err := tx.Model(&models.Report{}).Where("id = ?", reportID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func countVotes(tx *gorm.DB, reportID uint, tally *Tally) error {
	if err := tx.Model(&models.Vote{}).
		Where("report_id = ? AND vote_type = ?", reportID, models.VoteUp).
		Count(&tally.Upvotes).Error; err != nil {
		return err
	}
	return tx.Model(&models.Vote{}).
		Where("report_id = ? AND vote_type = ?", reportID, models.VoteDown).
		Count(&tally.Downvotes).Error
}
