package repos

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/insightpath-backend/internal/types"
)

var testDBCounter atomic.Int64

// newTestDB opens a fresh named in-memory database. cache=shared keeps
// every pooled connection on the same database; the counter isolates
// tests from each other.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.StudentStats{},
		&types.Challenge{},
		&types.Submission{},
		&types.Project{},
		&types.Milestone{},
		&types.ProjectAnalytics{},
		&types.Classroom{},
		&types.ClassroomStudent{},
		&types.Feedback{},
		&types.Notification{},
	)
	if err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}
