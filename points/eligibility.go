package points

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/stayloop/rewards/models"
)

// Refusal reasons surfaced in Eligibility.Reason and result messages.
const (
	ReasonNoRule       = "no points rule configured"
	ReasonRuleDisabled = "points rule disabled"
	ReasonDailyLimit   = "daily limit reached"
)

// Eligibility reports whether an award may proceed right now. CurrentCount and
// Limit are only meaningful when the rule carries a daily cap.
type Eligibility struct {
	Allowed      bool   `json:"allowed"`
	Reason       string `json:"reason,omitempty"`
	CurrentCount int    `json:"current_count,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

// CanAward checks whether userID may currently earn points for action. It fails
// closed: a missing or disabled rule refuses the award without error.
func (e *Engine) CanAward(ctx context.Context, userID uint, action string) (Eligibility, error) {
	rule, err := e.rules.GetRule(ctx, action)
	if errors.Is(err, ErrRuleNotFound) {
		return Eligibility{Reason: ReasonNoRule}, nil
	}
	if err != nil {
		return Eligibility{}, err
	}
	return e.checkEligibility(ctx, e.db, userID, rule)
}

// checkEligibility runs the active/cap checks against tx so Award can re-derive
// the answer inside its own transaction after taking the aggregate row lock.
func (e *Engine) checkEligibility(ctx context.Context, tx *gorm.DB, userID uint, rule *models.PointsRule) (Eligibility, error) {
	if !rule.IsActive {
		return Eligibility{Reason: ReasonRuleDisabled}, nil
	}
	if rule.DailyLimit == nil {
		return Eligibility{Allowed: true}, nil
	}

	var count int64
	err := tx.WithContext(ctx).Model(&models.PointTransaction{}).
		Where("user_id = ? AND action = ? AND created_at >= ?", userID, rule.Action, StartOfDay(time.Now())).
		Count(&count).Error
	if err != nil {
		return Eligibility{}, err
	}

	limit := *rule.DailyLimit
	return Eligibility{
		Allowed:      count < int64(limit),
		Reason:       reasonIf(count >= int64(limit), ReasonDailyLimit),
		CurrentCount: int(count),
		Limit:        limit,
	}, nil
}

func reasonIf(cond bool, reason string) string {
	if cond {
		return reason
	}
	return ""
}
