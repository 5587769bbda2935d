package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"potholemap_server/models"
)

// ReportStore owns pothole reports. Vote tallies are never stored on the
// report row: every read counts the live vote table, so a tally can never go
// stale.
type ReportStore struct {
	db *gorm.DB
}

func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{db: db}
}

// ReportRow is a report enriched with the author username and live vote
// counts, as served by the API.
type ReportRow struct {
	ID         uint                 `json:"id"`
	CreatedAt  time.Time            `json:"created_at"`
	UserID     uint                 `json:"user_id"`
	Username   string               `json:"username"`
	Text       string               `json:"text"`
	Lat        float64              `json:"lat"`
	Lon        float64              `json:"lon"`
	Severity   string               `json:"severity"`
	ImageURL   string               `json:"image_url,omitempty"`
	ThumbURL   string               `json:"thumb_url,omitempty"`
	AIConf     *float64             `gorm:"column:ai_conf" json:"ai_conf,omitempty"`
	Detections models.DetectionList `gorm:"column:ai_boxes" json:"detections,omitempty"`
	Verified   bool                 `json:"verified"`
	Upvotes    int64                `json:"upvotes"`
	Downvotes  int64                `json:"downvotes"`
}

// ReportFilter narrows List results. Severity must already be validated by
// the caller; Verified is tri-state.
type ReportFilter struct {
	Severity string
	Verified *bool
}

const enrichedSelect = `reports.*, users.username,
	(SELECT COUNT(*) FROM votes v WHERE v.report_id = reports.id AND v.vote_type = 'up') AS upvotes,
	(SELECT COUNT(*) FROM votes v WHERE v.report_id = reports.id AND v.vote_type = 'down') AS downvotes`

func (s *ReportStore) enriched() *gorm.DB {
	return s.db.Model(&models.Report{}).
		Select(enrichedSelect).
		Joins("JOIN users ON users.id = reports.user_id")
}

// Create persists the report and returns it enriched. Broadcasting is the
// caller's job, after this returns.
func (s *ReportStore) Create(report *models.Report) (*ReportRow, error) {
	if err := s.db.Create(report).Error; err != nil {
		return nil, err
	}
	return s.Get(report.ID)
}

func (s *ReportStore) Get(id uint) (*ReportRow, error) {
	var row ReportRow
	err := s.enriched().Where("reports.id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// List returns one page of reports, newest first, plus the total count
// matching the filter.
func (s *ReportStore) List(filter ReportFilter, page, limit int) ([]ReportRow, int64, error) {
	query := s.enriched()
	countQuery := s.db.Model(&models.Report{})

	if filter.Severity != "" {
		query = query.Where("reports.severity = ?", filter.Severity)
		countQuery = countQuery.Where("severity = ?", filter.Severity)
	}
	if filter.Verified != nil {
		query = query.Where("reports.verified = ?", *filter.Verified)
		countQuery = countQuery.Where("verified = ?", *filter.Verified)
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []ReportRow{}
	err := query.
		Order("reports.created_at DESC, reports.id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *ReportStore) SetVerified(id uint, verified bool) error {
	res := s.db.Model(&models.Report{}).Where("id = ?", id).Update("verified", verified)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ReportStore) Exists(id uint) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Report{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
