package points

import (
	"context"
	"time"

	"github.com/stayloop/rewards/models"
)

// CalculateStreak counts consecutive check-in days ending yesterday. A check-in
// made today is not counted yet; the coordinator adds it when the check-in
// lands. Returns 0 for users with no history.
func (e *Engine) CalculateStreak(ctx context.Context, userID uint) (int, error) {
	var rows []models.DailyCheckIn
	err := e.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("check_in_day DESC").
		Limit(e.opts.StreakLookback).
		Find(&rows).Error
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	now := time.Now()
	today := DayKey(now)
	expect := StartOfDay(now).AddDate(0, 0, -1)

	streak := 0
	counted := ""
	for _, rec := range rows {
		if rec.CheckInDay == today {
			continue
		}
		if rec.CheckInDay == counted { // duplicate day, tolerated
			continue
		}
		if rec.CheckInDay != DayKey(expect) {
			break
		}
		streak++
		counted = rec.CheckInDay
		expect = expect.AddDate(0, 0, -1)
	}
	return streak, nil
}

// bonusFor returns the milestone bonus earned on the exact day a streak reaches
// a configured threshold, or 0 on non-milestone days.
func (e *Engine) bonusFor(streak int) int {
	for _, b := range e.opts.StreakBonuses {
		if b.Days == streak {
			return b.Bonus
		}
	}
	return 0
}

// nextMilestone returns the first configured threshold still ahead of streak,
// and its bonus. Zeroes mean every milestone has been passed.
func (e *Engine) nextMilestone(streak int) (int, int) {
	for _, b := range e.opts.StreakBonuses {
		if b.Days > streak {
			return b.Days, b.Bonus
		}
	}
	return 0, 0
}
