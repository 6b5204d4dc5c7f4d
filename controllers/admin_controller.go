package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stayloop/rewards/middleware"
	"github.com/stayloop/rewards/models"
	"github.com/stayloop/rewards/points"
	"github.com/stayloop/rewards/utils"
)

// AdminController exposes rule administration and manual balance corrections.
type AdminController struct {
	db     *gorm.DB
	rules  *points.GormRuleStore
	engine *points.Engine
}

// NewAdminController creates a new controller instance.
func NewAdminController(db *gorm.DB, rules *points.GormRuleStore, engine *points.Engine) *AdminController {
	return &AdminController{db: db, rules: rules, engine: engine}
}

// ListRules returns every configured points rule.
func (a *AdminController) ListRules(ctx *gin.Context) {
	rules, err := a.rules.ListRules(ctx.Request.Context())
	if err != nil {
		utils.Sugar.Errorf("list rules failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to list rules")
		return
	}
	utils.Success(ctx, gin.H{"rules": rules})
}

// UpdateRule changes the point value, daily cap, or active flag of one rule.
func (a *AdminController) UpdateRule(ctx *gin.Context) {
	action := ctx.Param("action")

	var upd points.RuleUpdate
	if err := ctx.ShouldBindJSON(&upd); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid rule update payload")
		return
	}

	rule, err := a.rules.UpdateRule(ctx.Request.Context(), action, upd)
	if err != nil {
		if errors.Is(err, points.ErrRuleNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40440, "rule not found")
			return
		}
		utils.Sugar.Errorf("update rule %s failed: %v", action, err)
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to update rule")
		return
	}

	utils.Success(ctx, gin.H{"rule": rule})
}

type adjustRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Points int    `json:"points" binding:"required"`
	Reason string `json:"reason" binding:"required,max=255"`
}

// AdjustPoints applies a signed manual correction with an audit reason.
func (a *AdminController) AdjustPoints(ctx *gin.Context) {
	var req adjustRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid adjustment payload")
		return
	}

	var user models.User
	if err := a.db.First(&user, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40441, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to load user")
		return
	}

	reason := utils.Sanitize(req.Reason)
	res := a.engine.Adjust(ctx.Request.Context(), req.UserID, req.Points, reason)
	if !res.Success {
		utils.Error(ctx, http.StatusBadRequest, 40042, res.Message)
		return
	}

	utils.InvalidateByPrefix(leaderboardCachePrefix)
	utils.Sugar.Infof("admin %s adjusted user %d by %d: %s",
		ctx.GetString(middleware.ContextUsernameKey), req.UserID, req.Points, reason)
	utils.Success(ctx, res)
}
