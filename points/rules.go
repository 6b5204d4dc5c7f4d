package points

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stayloop/rewards/models"
)

// ErrRuleNotFound is returned when no rule row exists for an action. It is
// distinct from a rule that exists but is disabled.
var ErrRuleNotFound = errors.New("points rule not found")

// RuleStore resolves the configuration for a rewardable action.
type RuleStore interface {
	GetRule(ctx context.Context, action string) (*models.PointsRule, error)
}

// GormRuleStore reads and administers PointsRule rows.
type GormRuleStore struct {
	db *gorm.DB
}

func NewGormRuleStore(db *gorm.DB) *GormRuleStore {
	return &GormRuleStore{db: db}
}

func (s *GormRuleStore) GetRule(ctx context.Context, action string) (*models.PointsRule, error) {
	var rule models.PointsRule
	err := s.db.WithContext(ctx).Where("action = ?", action).Take(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// ListRules returns every configured rule ordered by action name.
func (s *GormRuleStore) ListRules(ctx context.Context) ([]models.PointsRule, error) {
	var rules []models.PointsRule
	if err := s.db.WithContext(ctx).Order("action").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// RuleUpdate carries the administrative changes to apply to one rule. Nil
// fields are left untouched; ClearDailyLimit removes the cap entirely.
type RuleUpdate struct {
	Points          *int  `json:"points"`
	DailyLimit      *int  `json:"daily_limit"`
	ClearDailyLimit bool  `json:"clear_daily_limit"`
	IsActive        *bool `json:"is_active"`
}

// UpdateRule applies upd to the rule for action and returns the updated row.
func (s *GormRuleStore) UpdateRule(ctx context.Context, action string, upd RuleUpdate) (*models.PointsRule, error) {
	var rule models.PointsRule
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("action = ?", action).Take(&rule).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRuleNotFound
			}
			return err
		}

		if upd.Points != nil {
			rule.Points = *upd.Points
		}
		if upd.ClearDailyLimit {
			rule.DailyLimit = nil
		} else if upd.DailyLimit != nil {
			limit := *upd.DailyLimit
			rule.DailyLimit = &limit
		}
		if upd.IsActive != nil {
			rule.IsActive = *upd.IsActive
		}

		return tx.Save(&rule).Error
	})
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// SeedDefaultRules inserts the stock action rules, skipping any that already
// exist so administrative changes survive restarts.
func SeedDefaultRules(db *gorm.DB) error {
	limit := func(n int) *int { return &n }
	defaults := []models.PointsRule{
		{Action: ActionDailyCheckIn, Points: 10, IsActive: true, Description: "Daily check-in base award"},
		{Action: ActionFollowUser, Points: 1, DailyLimit: limit(50), IsActive: true, Description: "Following another traveller"},
		{Action: ActionBookingCompleted, Points: 100, IsActive: true, Description: "Completing a stay"},
		{Action: ActionReviewPosted, Points: 15, DailyLimit: limit(5), IsActive: true, Description: "Publishing a property review"},
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "action"}},
		DoNothing: true,
	}).Create(&defaults).Error
}
