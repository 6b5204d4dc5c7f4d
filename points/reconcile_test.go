package points

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stayloop/rewards/models"
)

func TestAuditAggregatesClean(t *testing.T) {
	db := newTestDB(t)
	seedRule(t, db, ActionFollowUser, 1, nil, true)
	e := newTestEngine(t, db)
	ctx := context.Background()

	require.True(t, e.Award(ctx, AwardRequest{UserID: 1, Action: ActionFollowUser}).Success)
	require.True(t, e.Adjust(ctx, 2, 40, "seed").Success)

	drifted, err := e.auditAggregates(ctx, 100)
	require.NoError(t, err)
	require.Zero(t, drifted)
}

func TestAuditAggregatesDetectsDrift(t *testing.T) {
	db := newTestDB(t)
	seedRule(t, db, ActionFollowUser, 1, nil, true)
	e := newTestEngine(t, db)
	ctx := context.Background()

	require.True(t, e.Award(ctx, AwardRequest{UserID: 1, Action: ActionFollowUser}).Success)

	// Corrupt the aggregate behind the engine's back.
	require.NoError(t, db.Model(&models.UserPoints{}).
		Where("user_id = ?", 1).
		Update("current_points", 999).Error)

	drifted, err := e.auditAggregates(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, 1, drifted)
}
