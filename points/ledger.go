package points

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stayloop/rewards/models"
)

var errNotEligible = errors.New("not eligible")

// AwardRequest describes one award attempt. Points overrides the rule's value
// when non-nil; Reference links the ledger entry to the entity that earned it.
type AwardRequest struct {
	UserID        uint
	Action        string
	Points        *int
	ReferenceID   string
	ReferenceType string
	Description   string
	Metadata      map[string]interface{}
}

// AwardResult is the non-fatal outcome contract: callers inspect Success and
// carry on with their primary action either way.
type AwardResult struct {
	Success    bool   `json:"success"`
	Points     int    `json:"points"`
	Message    string `json:"message"`
	NewBalance int    `json:"new_balance,omitempty"`
}

// Award appends a ledger entry and updates the user's aggregate in one
// transaction. Eligibility is re-derived after the aggregate row lock is held,
// which serializes same-user awards and keeps daily caps exact once the
// aggregate row exists. Storage failures are logged and reported generically.
func (e *Engine) Award(ctx context.Context, req AwardRequest) AwardResult {
	rule, err := e.rules.GetRule(ctx, req.Action)
	if errors.Is(err, ErrRuleNotFound) {
		return AwardResult{Message: fmt.Sprintf("no points rule configured for action %q", req.Action)}
	}
	if err != nil {
		logErrorf("award %s for user %d: rule lookup failed: %v", req.Action, req.UserID, err)
		return AwardResult{Message: msgRewardsUnavailable}
	}

	points := rule.Points
	if req.Points != nil {
		points = *req.Points
	}

	var refusal Eligibility
	var balance int
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		agg, err := lockUserPoints(tx, req.UserID)
		if err != nil {
			return err
		}

		elig, err := e.checkEligibility(ctx, tx, req.UserID, rule)
		if err != nil {
			return err
		}
		if !elig.Allowed {
			refusal = elig
			return errNotEligible
		}

		entry := models.PointTransaction{
			UserID:        req.UserID,
			Action:        req.Action,
			Points:        points,
			ReferenceID:   req.ReferenceID,
			ReferenceType: req.ReferenceType,
			Description:   req.Description,
			Metadata:      encodeMetadata(req.Metadata),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		balance, err = applyEarned(tx, agg, points)
		return err
	})

	switch {
	case err == nil:
		return AwardResult{Success: true, Points: points, Message: "points awarded", NewBalance: balance}
	case errors.Is(err, errNotEligible):
		logDebugf("award %s refused for user %d: %s (count=%d limit=%d)",
			req.Action, req.UserID, refusal.Reason, refusal.CurrentCount, refusal.Limit)
		return AwardResult{Message: refusal.Reason}
	default:
		logErrorf("award %s for user %d failed: %v", req.Action, req.UserID, err)
		return AwardResult{Message: msgRewardsUnavailable}
	}
}

// Adjust records a signed administrative correction. Positive amounts count as
// earned, negative as redeemed, so the aggregate invariant keeps holding.
func (e *Engine) Adjust(ctx context.Context, userID uint, points int, reason string) AwardResult {
	if points == 0 {
		return AwardResult{Message: "adjustment must be non-zero"}
	}
	if reason == "" {
		return AwardResult{Message: "adjustment reason is required"}
	}

	var balance int
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		agg, err := lockUserPoints(tx, userID)
		if err != nil {
			return err
		}

		entry := models.PointTransaction{
			UserID:      userID,
			Action:      ActionAdminAdjustment,
			Points:      points,
			Description: reason,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		agg.TotalPoints += points
		agg.CurrentPoints += points
		if points > 0 {
			agg.LifetimeEarned += points
		} else {
			agg.LifetimeRedeemed += -points
		}
		balance = agg.CurrentPoints
		return tx.Save(agg).Error
	})
	if err != nil {
		logErrorf("adjust user %d by %d failed: %v", userID, points, err)
		return AwardResult{Message: msgRewardsUnavailable}
	}

	return AwardResult{Success: true, Points: points, Message: "balance adjusted", NewBalance: balance}
}

// lockUserPoints upserts the aggregate row for userID and returns it locked
// FOR UPDATE. The insert rolls back with the surrounding transaction when the
// award is later refused, so refusals never materialize an aggregate.
func lockUserPoints(tx *gorm.DB, userID uint) (*models.UserPoints, error) {
	seed := models.UserPoints{UserID: userID}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&seed).Error
	if err != nil {
		return nil, err
	}

	var agg models.UserPoints
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).Take(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

// applyEarned credits a positive award to the aggregate and returns the new
// current balance.
func applyEarned(tx *gorm.DB, agg *models.UserPoints, points int) (int, error) {
	agg.TotalPoints += points
	agg.CurrentPoints += points
	agg.LifetimeEarned += points
	return agg.CurrentPoints, tx.Save(agg).Error
}

func encodeMetadata(m map[string]interface{}) string {
	if len(m) == 0 {
		return ""
	}
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}
