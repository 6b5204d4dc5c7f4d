package points

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stayloop/rewards/models"
)

func TestCanAwardNoRule(t *testing.T) {
	e := newTestEngine(t, newTestDB(t))

	elig, err := e.CanAward(context.Background(), 1, "unknown_action")
	require.NoError(t, err)
	require.False(t, elig.Allowed)
	require.Equal(t, ReasonNoRule, elig.Reason)
}

func TestCanAwardDisabledRule(t *testing.T) {
	db := newTestDB(t)
	seedRule(t, db, "write_review", 15, nil, false)
	e := newTestEngine(t, db)

	elig, err := e.CanAward(context.Background(), 1, "write_review")
	require.NoError(t, err)
	require.False(t, elig.Allowed)
	require.Equal(t, ReasonRuleDisabled, elig.Reason)
}

func TestCanAwardUnlimited(t *testing.T) {
	db := newTestDB(t)
	seedRule(t, db, "booking_completed", 100, nil, true)
	e := newTestEngine(t, db)

	elig, err := e.CanAward(context.Background(), 1, "booking_completed")
	require.NoError(t, err)
	require.True(t, elig.Allowed)
	require.Empty(t, elig.Reason)
}

func TestCanAwardDailyLimit(t *testing.T) {
	db := newTestDB(t)
	seedRule(t, db, "follow_user", 1, intPtr(2), true)
	e := newTestEngine(t, db)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res := e.Award(ctx, AwardRequest{UserID: 1, Action: "follow_user"})
		require.True(t, res.Success)
	}

	elig, err := e.CanAward(ctx, 1, "follow_user")
	require.NoError(t, err)
	require.False(t, elig.Allowed)
	require.Equal(t, ReasonDailyLimit, elig.Reason)
	require.Equal(t, 2, elig.CurrentCount)
	require.Equal(t, 2, elig.Limit)

	// A different user is unaffected by this user's count.
	other, err := e.CanAward(ctx, 2, "follow_user")
	require.NoError(t, err)
	require.True(t, other.Allowed)
	require.Equal(t, 0, other.CurrentCount)
}

func TestCanAwardCapResetsAtDayBoundary(t *testing.T) {
	db := newTestDB(t)
	seedRule(t, db, "follow_user", 1, intPtr(2), true)
	e := newTestEngine(t, db)
	ctx := context.Background()

	// Yesterday's awards exhausted the cap; they must not count today.
	yesterday := StartOfDay(time.Now()).Add(-time.Hour)
	for i := 0; i < 2; i++ {
		require.NoError(t, db.Create(&models.PointTransaction{
			UserID:    1,
			Action:    "follow_user",
			Points:    1,
			CreatedAt: yesterday,
		}).Error)
	}

	elig, err := e.CanAward(ctx, 1, "follow_user")
	require.NoError(t, err)
	require.True(t, elig.Allowed)
	require.Equal(t, 0, elig.CurrentCount)

	require.True(t, e.Award(ctx, AwardRequest{UserID: 1, Action: "follow_user"}).Success)
	require.True(t, e.Award(ctx, AwardRequest{UserID: 1, Action: "follow_user"}).Success)

	res := e.Award(ctx, AwardRequest{UserID: 1, Action: "follow_user"})
	require.False(t, res.Success)
	require.Equal(t, ReasonDailyLimit, res.Message)
}
