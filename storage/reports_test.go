package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"potholemap_server/models"
)

func TestCreateReturnsEnrichedRow(t *testing.T) {
	db := newTestDB(t)
	store := NewReportStore(db)
	user := seedUser(t, db, "alice")

	row, err := store.Create(&models.Report{
		UserID:   user.ID,
		Text:     "deep pothole near the bus stop",
		Lat:      12.34,
		Lon:      56.78,
		Severity: models.SeverityHigh,
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", row.Username)
	assert.Equal(t, 12.34, row.Lat)
	assert.Equal(t, 56.78, row.Lon)
	assert.Equal(t, models.SeverityHigh, row.Severity)
	assert.Zero(t, row.Upvotes)
	assert.Zero(t, row.Downvotes)
	assert.False(t, row.Verified)
}

func TestDetectionRoundTrip(t *testing.T) {
	db := newTestDB(t)
	store := NewReportStore(db)
	user := seedUser(t, db, "alice")

	conf := 0.9
	detections := models.DetectionList{
		{Conf: 0.9, Box: []float64{10, 20, 110, 220}, Class: "pothole"},
		{Conf: 0.42, Box: []float64{5, 5, 50, 60}, Class: "pothole"},
	}

	created, err := store.Create(&models.Report{
		UserID:   user.ID,
		Text:     "two holes",
		Lat:      1,
		Lon:      2,
		Severity: models.SeverityMedium,
		AIConf:   &conf,
		AIBoxes:  detections,
	})
	require.NoError(t, err)

	fetched, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, detections, fetched.Detections)
	require.NotNil(t, fetched.AIConf)
	assert.Equal(t, conf, *fetched.AIConf)
}

func TestGetNotFound(t *testing.T) {
	db := newTestDB(t)
	store := NewReportStore(db)

	_, err := store.Get(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPagination(t *testing.T) {
	db := newTestDB(t)
	store := NewReportStore(db)
	user := seedUser(t, db, "alice")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		report := seedReport(t, db, user.ID, models.SeverityLow, base.Add(time.Duration(i)*time.Minute))
		report.Text = fmt.Sprintf("report %d", i+1)
		require.NoError(t, db.Save(report).Error)
	}

	rows, total, err := store.List(ReportFilter{}, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, rows, 10)

	// Newest first: page 2 with limit 10 holds items 11 through 20.
	assert.Equal(t, "report 15", rows[0].Text)
	assert.Equal(t, "report 6", rows[9].Text)
	for i := 1; i < len(rows); i++ {
		assert.False(t, rows[i].CreatedAt.After(rows[i-1].CreatedAt), "ordering must be creation-time descending")
	}
}

func TestListFilters(t *testing.T) {
	db := newTestDB(t)
	store := NewReportStore(db)
	user := seedUser(t, db, "alice")

	now := time.Now()
	seedReport(t, db, user.ID, models.SeverityLow, now)
	high := seedReport(t, db, user.ID, models.SeverityHigh, now)
	seedReport(t, db, user.ID, models.SeverityHigh, now)

	require.NoError(t, store.SetVerified(high.ID, true))

	rows, total, err := store.List(ReportFilter{Severity: models.SeverityHigh}, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)

	verified := true
	rows, total, err = store.List(ReportFilter{Verified: &verified}, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, high.ID, rows[0].ID)

	unverified := false
	_, total, err = store.List(ReportFilter{Severity: models.SeverityHigh, Verified: &unverified}, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestListCountsLiveVotes(t *testing.T) {
	db := newTestDB(t)
	store := NewReportStore(db)
	engage := NewEngagementStore(db)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	report := seedReport(t, db, alice.ID, models.SeverityCritical, time.Now())

	_, err := engage.CastVote(alice.ID, report.ID, models.VoteUp)
	require.NoError(t, err)
	_, err = engage.CastVote(bob.ID, report.ID, models.VoteDown)
	require.NoError(t, err)

	rows, _, err := store.List(ReportFilter{}, 1, 50)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].Upvotes)
	assert.Equal(t, int64(1), rows[0].Downvotes)
}

func TestSetVerifiedNotFound(t *testing.T) {
	db := newTestDB(t)
	store := NewReportStore(db)

	assert.ErrorIs(t, store.SetVerified(999, true), ErrNotFound)
}
