package storage

import (
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"potholemap_server/models"
)

// StatsStore serves the public stats endpoint and the admin dashboard:
// aggregate counts, activity series, data export, retention cleanup, and a
// read-only query console.
type StatsStore struct {
	db *gorm.DB
}

func NewStatsStore(db *gorm.DB) *StatsStore {
	return &StatsStore{db: db}
}

// Overview backs GET /api/stats.
type Overview struct {
	TotalReports   int64            `json:"total_reports"`
	TotalUsers     int64            `json:"total_users"`
	SeverityCounts map[string]int64 `json:"severity_counts"`
	RecentReports  int64            `json:"recent_reports"`
	DailyReports   int64            `json:"daily_reports"`
}

func (s *StatsStore) Overview() (*Overview, error) {
	o := Overview{SeverityCounts: map[string]int64{}}

	if err := s.db.Model(&models.Report{}).Count(&o.TotalReports).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.User{}).Count(&o.TotalUsers).Error; err != nil {
		return nil, err
	}

	counts, err := s.severityCounts()
	if err != nil {
		return nil, err
	}
	o.SeverityCounts = counts

	now := time.Now()
	if err := s.db.Model(&models.Report{}).
		Where("created_at >= ?", now.AddDate(0, 0, -7)).
		Count(&o.RecentReports).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Report{}).
		Where("created_at >= ?", now.AddDate(0, 0, -1)).
		Count(&o.DailyReports).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// DatabaseStats is the dashboard's totals block.
type DatabaseStats struct {
	TotalReports  int64   `json:"total_reports"`
	TotalUsers    int64   `json:"total_users"`
	TotalComments int64   `json:"total_comments"`
	TotalVotes    int64   `json:"total_votes"`
	AvgConfidence float64 `json:"avg_confidence"`
	ReportsToday  int64   `json:"reports_today"`
	NewUsersToday int64   `json:"new_users_today"`
}

// ActivitySeries is a per-day report count over a trailing window.
type ActivitySeries struct {
	Labels []string `json:"labels"`
	Values []int64  `json:"values"`
}

// UserSummary is a user row without credentials, for exports and listings.
type UserSummary struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// RecentReport is the trimmed report row shown on the dashboard.
type RecentReport struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Severity  string    `json:"severity"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// Dashboard aggregates everything the admin dashboard renders.
type Dashboard struct {
	DatabaseStats DatabaseStats    `json:"database_stats"`
	SeverityData  map[string]int64 `json:"severity_data"`
	ActivityData  ActivitySeries   `json:"activity_data"`
	RecentReports []RecentReport   `json:"recent_reports"`
	RecentUsers   []UserSummary    `json:"recent_users"`
}

func (s *StatsStore) Dashboard() (*Dashboard, error) {
	d := Dashboard{}

	var err error
	if d.DatabaseStats, err = s.databaseStats(); err != nil {
		return nil, err
	}
	if d.SeverityData, err = s.severityCounts(); err != nil {
		return nil, err
	}
	if d.ActivityData, err = s.activitySeries(7); err != nil {
		return nil, err
	}

	d.RecentReports = []RecentReport{}
	err = s.db.Model(&models.Report{}).
		Select("reports.id, users.username, reports.text, reports.severity, reports.verified, reports.created_at").
		Joins("JOIN users ON users.id = reports.user_id").
		Order("reports.created_at DESC, reports.id DESC").
		Limit(10).
		Find(&d.RecentReports).Error
	if err != nil {
		return nil, err
	}

	d.RecentUsers = []UserSummary{}
	err = s.db.Model(&models.User{}).
		Select("id, username, email, role, created_at").
		Order("created_at DESC, id DESC").
		Limit(10).
		Find(&d.RecentUsers).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *StatsStore) databaseStats() (DatabaseStats, error) {
	var ds DatabaseStats

	type counter struct {
		model interface{}
		dst   *int64
	}
	for _, c := range []counter{
		{&models.Report{}, &ds.TotalReports},
		{&models.User{}, &ds.TotalUsers},
		{&models.Comment{}, &ds.TotalComments},
		{&models.Vote{}, &ds.TotalVotes},
	} {
		if err := s.db.Model(c.model).Count(c.dst).Error; err != nil {
			return ds, err
		}
	}

	var avg float64
	row := s.db.Model(&models.Report{}).
		Where("ai_conf IS NOT NULL").
		Select("COALESCE(AVG(ai_conf), 0)").
		Row()
	if err := row.Scan(&avg); err != nil {
		return ds, err
	}
	ds.AvgConfidence = math.Round(avg*1000) / 10 // percent, one decimal

	dayAgo := time.Now().AddDate(0, 0, -1)
	if err := s.db.Model(&models.Report{}).
		Where("created_at >= ?", dayAgo).
		Count(&ds.ReportsToday).Error; err != nil {
		return ds, err
	}
	if err := s.db.Model(&models.User{}).
		Where("created_at >= ?", dayAgo).
		Count(&ds.NewUsersToday).Error; err != nil {
		return ds, err
	}
	return ds, nil
}

func (s *StatsStore) severityCounts() (map[string]int64, error) {
	var rows []struct {
		Severity string
		Count    int64
	}
	err := s.db.Model(&models.Report{}).
		Select("severity, COUNT(*) AS count").
		Group("severity").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[string]int64{}
	for _, r := range rows {
		counts[r.Severity] = r.Count
	}
	return counts, nil
}

func (s *StatsStore) activitySeries(days int) (ActivitySeries, error) {
	series := ActivitySeries{Labels: []string{}, Values: []int64{}}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for i := days - 1; i >= 0; i-- {
		start := today.AddDate(0, 0, -i)
		end := start.AddDate(0, 0, 1)

		var count int64
		err := s.db.Model(&models.Report{}).
			Where("created_at >= ? AND created_at < ?", start, end).
			Count(&count).Error
		if err != nil {
			return series, err
		}
		series.Labels = append(series.Labels, start.Format("2006-01-02"))
		series.Values = append(series.Values, count)
	}
	return series, nil
}

// Export is a full JSON dump of the database, minus credential hashes.
type Export struct {
	ExportedAt time.Time        `json:"exported_at"`
	Reports    []models.Report  `json:"reports"`
	Users      []UserSummary    `json:"users"`
	Comments   []models.Comment `json:"comments"`
	Votes      []models.Vote    `json:"votes"`
}

func (s *StatsStore) Export() (*Export, error) {
	dump := Export{
		ExportedAt: time.Now().UTC(),
		Reports:    []models.Report{},
		Users:      []UserSummary{},
		Comments:   []models.Comment{},
		Votes:      []models.Vote{},
	}

	if err := s.db.Order("id").Find(&dump.Reports).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.User{}).
		Select("id, username, email, role, created_at").
		Order("id").
		Find(&dump.Users).Error; err != nil {
		return nil, err
	}
	if err := s.db.Order("id").Find(&dump.Comments).Error; err != nil {
		return nil, err
	}
	if err := s.db.Order("report_id, user_id").Find(&dump.Votes).Error; err != nil {
		return nil, err
	}
	return &dump, nil
}

// ClearOlderThan deletes reports, comments, and votes created before the
// cutoff. Children go first so foreign keys stay satisfied.
func (s *StatsStore) ClearOlderThan(cutoff time.Time) (map[string]int64, error) {
	deleted := map[string]int64{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, t := range []struct {
			name  string
			model interface{}
		}{
			{"comments", &models.Comment{}},
			{"votes", &models.Vote{}},
			{"reports", &models.Report{}},
		} {
			res := tx.Where("created_at < ?", cutoff).Delete(t.model)
			if res.Error != nil {
				return res.Error
			}
			deleted[t.name] = res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// forbidden keywords for the query console, checked case-insensitively.
var forbiddenQueryWords = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "ALTER", "CREATE", "TRUNCATE",
	"GRANT", "REVOKE", "ATTACH", "PRAGMA",
}

// Query runs a single read-only SELECT and returns columns plus rows as
// maps. Anything else fails with ErrQueryNotAllowed.
func (s *StatsStore) Query(query string) ([]string, []map[string]interface{}, error) {
	trimmed := strings.TrimSpace(query)
	trimmed = strings.TrimSuffix(trimmed, ";")
	trimmed = strings.TrimSpace(trimmed)

	upper := strings.ToUpper(trimmed)
	if trimmed == "" || !strings.HasPrefix(upper, "SELECT") || strings.Contains(trimmed, ";") {
		return nil, nil, ErrQueryNotAllowed
	}
	// Match whole words so column names like created_at pass.
	words := strings.FieldsFunc(upper, func(r rune) bool {
		return (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_'
	})
	for _, word := range words {
		for _, banned := range forbiddenQueryWords {
			if word == banned {
				return nil, nil, ErrQueryNotAllowed
			}
		}
	}

	rows, err := s.db.Raw(trimmed).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	results := []map[string]interface{}{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}

		record := map[string]interface{}{}
		for i, col := range columns {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			record[col] = v
		}
		results = append(results, record)
	}
	return columns, results, rows.Err()
}
