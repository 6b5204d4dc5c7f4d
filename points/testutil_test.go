package points

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stayloop/rewards/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.PointsRule{},
		&models.PointTransaction{},
		&models.UserPoints{},
		&models.DailyCheckIn{},
		&models.Follow{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestEngine(t *testing.T, db *gorm.DB) *Engine {
	t.Helper()
	return NewEngine(db, NewGormRuleStore(db), DefaultOptions())
}

func seedRule(t *testing.T, db *gorm.DB, action string, pts int, dailyLimit *int, active bool) {
	t.Helper()
	rule := models.PointsRule{
		Action:     action,
		Points:     pts,
		DailyLimit: dailyLimit,
		IsActive:   active,
	}
	if err := db.Create(&rule).Error; err != nil {
		t.Fatalf("seed rule %s: %v", action, err)
	}
}

func seedUser(t *testing.T, db *gorm.DB, username string) uint {
	t.Helper()
	user := models.User{Username: username}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user.ID
}

func intPtr(n int) *int { return &n }
