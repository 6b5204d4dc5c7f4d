package points

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartOfDay(t *testing.T) {
	loc := time.Local
	at := time.Date(2025, 6, 15, 23, 59, 59, 999, loc)
	start := StartOfDay(at)

	require.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, loc), start)
	require.Equal(t, start, StartOfDay(start))
	require.Equal(t, "2025-06-15", DayKey(at))
}

func TestNewEngineNormalizesOptions(t *testing.T) {
	db := newTestDB(t)

	e := NewEngine(db, NewGormRuleStore(db), Options{
		StreakBonuses: []StreakBonus{
			{Days: 30, Bonus: 100},
			{Days: 7, Bonus: 20},
		},
	})

	require.Equal(t, DefaultOptions().CheckInBasePoints, e.opts.CheckInBasePoints)
	require.Equal(t, DefaultOptions().StreakLookback, e.opts.StreakLookback)
	// milestones are sorted ascending so nextMilestone walks them in order
	require.Equal(t, 7, e.opts.StreakBonuses[0].Days)
	require.Equal(t, 30, e.opts.StreakBonuses[1].Days)
}

func TestMilestoneLookups(t *testing.T) {
	e := newTestEngine(t, newTestDB(t))

	require.Equal(t, 20, e.bonusFor(7))
	require.Equal(t, 300, e.bonusFor(90))
	require.Equal(t, 0, e.bonusFor(6))
	require.Equal(t, 0, e.bonusFor(8))

	days, bonus := e.nextMilestone(0)
	require.Equal(t, 7, days)
	require.Equal(t, 20, bonus)

	days, bonus = e.nextMilestone(7)
	require.Equal(t, 14, days)
	require.Equal(t, 50, bonus)

	days, bonus = e.nextMilestone(90)
	require.Equal(t, 0, days)
	require.Equal(t, 0, bonus)
}
