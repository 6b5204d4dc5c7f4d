package points

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stayloop/rewards/models"
)

func TestAwardFollowScenario(t *testing.T) {
	db := newTestDB(t)
	seedRule(t, db, ActionFollowUser, 1, intPtr(50), true)
	e := newTestEngine(t, db)

	res := e.Award(context.Background(), AwardRequest{
		UserID:        1,
		Action:        ActionFollowUser,
		ReferenceID:   "42",
		ReferenceType: "user",
		Description:   "Followed wanda",
	})

	require.True(t, res.Success)
	require.Equal(t, 1, res.Points)
	require.Equal(t, 1, res.NewBalance)

	var entry models.PointTransaction
	require.NoError(t, db.Where("user_id = ?", 1).Take(&entry).Error)
	require.Equal(t, ActionFollowUser, entry.Action)
	require.Equal(t, "42", entry.ReferenceID)
	require.Equal(t, "user", entry.ReferenceType)

	var agg models.UserPoints
	require.NoError(t, db.Where("user_id = ?", 1).Take(&agg).Error)
	require.Equal(t, 1, agg.TotalPoints)
	require.Equal(t, 1, agg.CurrentPoints)
	require.Equal(t, 1, agg.LifetimeEarned)
	require.Equal(t, 0, agg.LifetimeRedeemed)
}

func TestAwardMissingRule(t *testing.T) {
	db := newTestDB(t)
	e := newTestEngine(t, db)

	res := e.Award(context.Background(), AwardRequest{UserID: 1, Action: "no_such_action"})

	require.False(t, res.Success)
	require.Contains(t, res.Message, "no points rule configured")
	require.Contains(t, res.Message, "no_such_action")

	// A refused award must not materialize an aggregate row.
	var agg models.UserPoints
	err := db.Where("user_id = ?", 1).Take(&agg).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAwardRefusalLeavesNoRows(t *testing.T) {
	db := newTestDB(t)
	seedRule(t, db, "write_review", 15, nil, false)
	e := newTestEngine(t, db)

	res := e.Award(context.Background(), AwardRequest{UserID: 7, Action: "write_review"})
	require.False(t, res.Success)
	require.Equal(t, ReasonRuleDisabled, res.Message)

	var txCount, aggCount int64
	require.NoError(t, db.Model(&models.PointTransaction{}).Count(&txCount).Error)
	require.NoError(t, db.Model(&models.UserPoints{}).Count(&aggCount).Error)
	require.Zero(t, txCount)
	require.Zero(t, aggCount)
}

func TestAwardDailyCapSequential(t *testing.T) {
	db := newTestDB(t)
	seedRule(t, db, ActionFollowUser, 1, intPtr(3), true)
	e := newTestEngine(t, db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res := e.Award(ctx, AwardRequest{UserID: 5, Action: ActionFollowUser})
		require.True(t, res.Success, "award %d should succeed", i+1)
		require.Equal(t, i+1, res.NewBalance)
	}

	res := e.Award(ctx, AwardRequest{UserID: 5, Action: ActionFollowUser})
	require.False(t, res.Success)
	require.Equal(t, ReasonDailyLimit, res.Message)

	var agg models.UserPoints
	require.NoError(t, db.Where("user_id = ?", 5).Take(&agg).Error)
	require.Equal(t, 3, agg.CurrentPoints)
}

func TestAwardUnlimitedAction(t *testing.T) {
	db := newTestDB(t)
	seedRule(t, db, ActionBookingCompleted, 100, nil, true)
	e := newTestEngine(t, db)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		res := e.Award(ctx, AwardRequest{UserID: 3, Action: ActionBookingCompleted})
		require.True(t, res.Success)
	}

	balance, err := e.GetBalance(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, 1000, balance.CurrentPoints)
}

func TestAwardPointsOverride(t *testing.T) {
	db := newTestDB(t)
	seedRule(t, db, ActionBookingCompleted, 100, nil, true)
	e := newTestEngine(t, db)

	res := e.Award(context.Background(), AwardRequest{
		UserID: 9,
		Action: ActionBookingCompleted,
		Points: intPtr(250),
	})

	require.True(t, res.Success)
	require.Equal(t, 250, res.Points)
	require.Equal(t, 250, res.NewBalance)
}

func TestAdjustNegative(t *testing.T) {
	db := newTestDB(t)
	seedRule(t, db, ActionBookingCompleted, 100, nil, true)
	e := newTestEngine(t, db)
	ctx := context.Background()

	require.True(t, e.Award(ctx, AwardRequest{UserID: 4, Action: ActionBookingCompleted}).Success)

	res := e.Adjust(ctx, 4, -5, "correction")
	require.True(t, res.Success)
	require.Equal(t, 95, res.NewBalance)

	var entry models.PointTransaction
	require.NoError(t, db.Where("user_id = ? AND action = ?", 4, ActionAdminAdjustment).Take(&entry).Error)
	require.Equal(t, -5, entry.Points)
	require.Equal(t, "correction", entry.Description)

	var agg models.UserPoints
	require.NoError(t, db.Where("user_id = ?", 4).Take(&agg).Error)
	require.Equal(t, 100, agg.LifetimeEarned)
	require.Equal(t, 5, agg.LifetimeRedeemed)
	require.Equal(t, 95, agg.CurrentPoints)
}

func TestAdjustValidation(t *testing.T) {
	e := newTestEngine(t, newTestDB(t))
	ctx := context.Background()

	require.False(t, e.Adjust(ctx, 1, 0, "noop").Success)
	require.False(t, e.Adjust(ctx, 1, 10, "").Success)
}

func TestBalanceConsistency(t *testing.T) {
	db := newTestDB(t)
	seedRule(t, db, ActionFollowUser, 1, nil, true)
	seedRule(t, db, ActionBookingCompleted, 100, nil, true)
	e := newTestEngine(t, db)
	ctx := context.Background()

	require.True(t, e.Award(ctx, AwardRequest{UserID: 8, Action: ActionFollowUser}).Success)
	require.True(t, e.Award(ctx, AwardRequest{UserID: 8, Action: ActionBookingCompleted}).Success)
	require.True(t, e.Adjust(ctx, 8, -30, "goodwill reversal").Success)
	require.True(t, e.Adjust(ctx, 8, 12, "support credit").Success)

	var agg models.UserPoints
	require.NoError(t, db.Where("user_id = ?", 8).Take(&agg).Error)

	var ledgerSum int64
	require.NoError(t, db.Model(&models.PointTransaction{}).
		Where("user_id = ?", 8).
		Select("COALESCE(SUM(points),0)").
		Scan(&ledgerSum).Error)

	require.Equal(t, agg.LifetimeEarned-agg.LifetimeRedeemed, agg.CurrentPoints)
	require.Equal(t, int64(agg.CurrentPoints), ledgerSum)
}
