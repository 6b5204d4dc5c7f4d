package points

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stayloop/rewards/models"
)

func TestSeedDefaultRules(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, SeedDefaultRules(db))

	store := NewGormRuleStore(db)
	ctx := context.Background()

	rule, err := store.GetRule(ctx, ActionFollowUser)
	require.NoError(t, err)
	require.Equal(t, 1, rule.Points)
	require.NotNil(t, rule.DailyLimit)
	require.Equal(t, 50, *rule.DailyLimit)
	require.True(t, rule.IsActive)

	// Seeding again must not clobber administrative changes.
	_, err = store.UpdateRule(ctx, ActionFollowUser, RuleUpdate{Points: intPtr(3)})
	require.NoError(t, err)
	require.NoError(t, SeedDefaultRules(db))

	rule, err = store.GetRule(ctx, ActionFollowUser)
	require.NoError(t, err)
	require.Equal(t, 3, rule.Points)
}

func TestCreateDisabledRuleStaysDisabled(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.PointsRule{
		Action:   "launch_promo",
		Points:   5,
		IsActive: false,
	}).Error)

	rule, err := NewGormRuleStore(db).GetRule(context.Background(), "launch_promo")
	require.NoError(t, err)
	require.False(t, rule.IsActive)
}

func TestGetRuleNotFound(t *testing.T) {
	store := NewGormRuleStore(newTestDB(t))

	_, err := store.GetRule(context.Background(), "mystery_action")
	require.ErrorIs(t, err, ErrRuleNotFound)
}

func TestUpdateRule(t *testing.T) {
	db := newTestDB(t)
	seedRule(t, db, ActionReviewPosted, 15, intPtr(5), true)
	store := NewGormRuleStore(db)
	ctx := context.Background()

	disabled := false
	rule, err := store.UpdateRule(ctx, ActionReviewPosted, RuleUpdate{
		Points:   intPtr(25),
		IsActive: &disabled,
	})
	require.NoError(t, err)
	require.Equal(t, 25, rule.Points)
	require.False(t, rule.IsActive)
	require.NotNil(t, rule.DailyLimit)

	rule, err = store.UpdateRule(ctx, ActionReviewPosted, RuleUpdate{ClearDailyLimit: true})
	require.NoError(t, err)
	require.Nil(t, rule.DailyLimit)

	rule, err = store.GetRule(ctx, ActionReviewPosted)
	require.NoError(t, err)
	require.Nil(t, rule.DailyLimit)
	require.Equal(t, 25, rule.Points)
}

func TestUpdateRuleNotFound(t *testing.T) {
	store := NewGormRuleStore(newTestDB(t))

	_, err := store.UpdateRule(context.Background(), "mystery_action", RuleUpdate{Points: intPtr(1)})
	require.ErrorIs(t, err, ErrRuleNotFound)
}

func TestListRules(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, SeedDefaultRules(db))

	rules, err := NewGormRuleStore(db).ListRules(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 4)
	require.Equal(t, ActionBookingCompleted, rules[0].Action)
}
