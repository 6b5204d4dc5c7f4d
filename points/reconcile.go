package points

import (
	"context"
	"time"

	"github.com/stayloop/rewards/models"
)

// StartAuditor launches a background goroutine that periodically samples
// aggregate rows and verifies each against the signed sum of its ledger
// entries. Drift is logged, never auto-corrected; the ledger is the source
// of truth and fixes go through Adjust.
func (e *Engine) StartAuditor(interval time.Duration, sampleSize int) {
	if interval <= 0 {
		interval = time.Hour
	}
	if sampleSize <= 0 {
		sampleSize = 100
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			if n, err := e.auditAggregates(context.Background(), sampleSize); err != nil {
				logErrorf("ledger audit failed: %v", err)
			} else if n > 0 {
				logErrorf("ledger audit found %d drifted aggregates", n)
			}
		}
	}()
}

// auditAggregates checks up to limit of the most recently updated aggregates
// and returns the number that disagree with their ledger sum.
func (e *Engine) auditAggregates(ctx context.Context, limit int) (int, error) {
	var aggs []models.UserPoints
	err := e.db.WithContext(ctx).
		Order("updated_at DESC").
		Limit(limit).
		Find(&aggs).Error
	if err != nil {
		return 0, err
	}

	drifted := 0
	for _, agg := range aggs {
		var sum int64
		err := e.db.WithContext(ctx).Model(&models.PointTransaction{}).
			Where("user_id = ?", agg.UserID).
			Select("COALESCE(SUM(points),0)").
			Scan(&sum).Error
		if err != nil {
			return drifted, err
		}
		if sum != int64(agg.CurrentPoints) || agg.CurrentPoints != agg.LifetimeEarned-agg.LifetimeRedeemed {
			drifted++
			logErrorf("aggregate drift for user %d: current=%d earned=%d redeemed=%d ledger=%d",
				agg.UserID, agg.CurrentPoints, agg.LifetimeEarned, agg.LifetimeRedeemed, sum)
		}
	}
	return drifted, nil
}
