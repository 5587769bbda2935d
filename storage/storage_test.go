package storage

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"potholemap_server/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A pooled second connection would see its own empty :memory: DB.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Report{},
		&models.Comment{},
		&models.Vote{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user, err := NewUserStore(db).Register(username, username+"@example.com", "password123")
	require.NoError(t, err)
	return user
}

func seedReport(t *testing.T, db *gorm.DB, userID uint, severity string, createdAt time.Time) *models.Report {
	t.Helper()

	report := &models.Report{
		UserID:    userID,
		Text:      "pothole on main street",
		Lat:       12.34,
		Lon:       56.78,
		Severity:  severity,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(report).Error)
	return report
}
