package points

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stayloop/rewards/models"
)

func TestGetBalanceNoHistory(t *testing.T) {
	db := newTestDB(t)
	e := newTestEngine(t, db)

	balance, err := e.GetBalance(context.Background(), 99)
	require.NoError(t, err)
	require.Equal(t, Balance{UserID: 99}, balance)

	// Reads never materialize an aggregate row.
	var count int64
	require.NoError(t, db.Model(&models.UserPoints{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestGetHistoryPagination(t *testing.T) {
	db := newTestDB(t)
	seedRule(t, db, ActionFollowUser, 1, nil, true)
	e := newTestEngine(t, db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.True(t, e.Award(ctx, AwardRequest{UserID: 1, Action: ActionFollowUser}).Success)
	}

	page, err := e.GetHistory(ctx, 1, HistoryFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.EqualValues(t, 5, page.Total)
	require.True(t, page.HasMore)

	last, err := e.GetHistory(ctx, 1, HistoryFilter{Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	require.False(t, last.HasMore)
}

func TestGetHistoryNewestFirst(t *testing.T) {
	db := newTestDB(t)
	seedRule(t, db, ActionFollowUser, 1, nil, true)
	e := newTestEngine(t, db)
	ctx := context.Background()

	require.True(t, e.Award(ctx, AwardRequest{UserID: 1, Action: ActionFollowUser, Description: "first"}).Success)
	require.True(t, e.Award(ctx, AwardRequest{UserID: 1, Action: ActionFollowUser, Description: "second"}).Success)

	page, err := e.GetHistory(ctx, 1, HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.Equal(t, "second", page.Items[0].Description)
	require.Equal(t, "first", page.Items[1].Description)
}

func TestGetHistoryActionFilter(t *testing.T) {
	db := newTestDB(t)
	seedRule(t, db, ActionFollowUser, 1, nil, true)
	seedRule(t, db, ActionBookingCompleted, 100, nil, true)
	e := newTestEngine(t, db)
	ctx := context.Background()

	require.True(t, e.Award(ctx, AwardRequest{UserID: 1, Action: ActionFollowUser}).Success)
	require.True(t, e.Award(ctx, AwardRequest{UserID: 1, Action: ActionBookingCompleted}).Success)

	page, err := e.GetHistory(ctx, 1, HistoryFilter{Action: ActionBookingCompleted})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	require.Equal(t, ActionBookingCompleted, page.Items[0].Action)
}

func TestGetLeaderboard(t *testing.T) {
	db := newTestDB(t)
	e := newTestEngine(t, db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	require.True(t, e.Adjust(ctx, alice, 50, "seed").Success)
	require.True(t, e.Adjust(ctx, bob, 200, "seed").Success)
	require.True(t, e.Adjust(ctx, carol, 120, "seed").Success)

	entries, err := e.GetLeaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, "bob", entries[0].Username)
	require.Equal(t, 200, entries[0].TotalPoints)

	require.Equal(t, 2, entries[1].Rank)
	require.Equal(t, "carol", entries[1].Username)
}

func TestGetLeaderboardExcludesDeletedUsers(t *testing.T) {
	db := newTestDB(t)
	e := newTestEngine(t, db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	require.True(t, e.Adjust(ctx, alice, 10, "seed").Success)
	require.True(t, e.Adjust(ctx, bob, 90, "seed").Success)

	require.NoError(t, db.Delete(&models.User{}, bob).Error)

	entries, err := e.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "alice", entries[0].Username)
}

func TestGetStreakInfo(t *testing.T) {
	db := newTestDB(t)
	e := newTestEngine(t, db)
	ctx := context.Background()

	info, err := e.GetStreakInfo(ctx, 1)
	require.NoError(t, err)
	require.Zero(t, info.CurrentStreak)
	require.False(t, info.CheckedInToday)
	require.Equal(t, 7, info.NextMilestone)
	require.Equal(t, 20, info.NextMilestoneBonus)

	seedCheckIn(t, db, 1, 1)
	require.True(t, e.CheckIn(ctx, 1).Success)

	info, err = e.GetStreakInfo(ctx, 1)
	require.NoError(t, err)
	require.True(t, info.CheckedInToday)
	require.Equal(t, 2, info.CurrentStreak)
	require.Equal(t, 7, info.NextMilestone)
}
