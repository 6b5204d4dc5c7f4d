package points

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/stayloop/rewards/utils"
)

// Well-known action identifiers.
const (
	ActionDailyCheckIn     = "daily_check_in"
	ActionFollowUser       = "follow_user"
	ActionBookingCompleted = "booking_completed"
	ActionReviewPosted     = "review_posted"
	ActionAdminAdjustment  = "admin_adjustment"
)

// Returned to callers whenever the persistence layer fails; the concrete error
// is logged, never surfaced (awards must stay non-fatal for the primary action).
const msgRewardsUnavailable = "rewards temporarily unavailable"

// StreakBonus grants Bonus extra points on the exact check-in where the streak
// reaches Days.
type StreakBonus struct {
	Days  int `json:"days"`
	Bonus int `json:"bonus"`
}

// Options tunes the engine. Zero values fall back to the defaults below.
type Options struct {
	CheckInBasePoints int
	StreakBonuses     []StreakBonus
	StreakLookback    int // check-in rows examined when walking a streak
}

// DefaultOptions mirrors the production configuration: 10 points per check-in
// and milestone bonuses at 7/14/30/90 consecutive days.
func DefaultOptions() Options {
	return Options{
		CheckInBasePoints: 10,
		StreakBonuses: []StreakBonus{
			{Days: 7, Bonus: 20},
			{Days: 14, Bonus: 50},
			{Days: 30, Bonus: 100},
			{Days: 90, Bonus: 300},
		},
		StreakLookback: 100,
	}
}

// Engine implements the points and rewards operations over a single gorm DB.
// It is safe for concurrent use; every call runs within the caller's request.
type Engine struct {
	db    *gorm.DB
	rules RuleStore
	opts  Options
}

// NewEngine builds an Engine. The rule store is injected so callers (and tests)
// can substitute fixtures for the configuration table.
func NewEngine(db *gorm.DB, rules RuleStore, opts Options) *Engine {
	if opts.CheckInBasePoints <= 0 {
		opts.CheckInBasePoints = DefaultOptions().CheckInBasePoints
	}
	if len(opts.StreakBonuses) == 0 {
		opts.StreakBonuses = DefaultOptions().StreakBonuses
	}
	if opts.StreakLookback <= 0 {
		opts.StreakLookback = DefaultOptions().StreakLookback
	}
	sort.Slice(opts.StreakBonuses, func(i, j int) bool {
		return opts.StreakBonuses[i].Days < opts.StreakBonuses[j].Days
	})
	return &Engine{db: db, rules: rules, opts: opts}
}

// StartOfDay returns midnight of t in server-local time. "Today" throughout the
// engine means this boundary; callers in other time zones are not reconciled.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayKey formats t as the calendar-day key check-ins are deduplicated on.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func logDebugf(format string, args ...interface{}) {
	if utils.Sugar != nil {
		utils.Sugar.Debugf(format, args...)
	}
}

func logErrorf(format string, args ...interface{}) {
	if utils.Sugar != nil {
		utils.Sugar.Errorf(format, args...)
	}
}
