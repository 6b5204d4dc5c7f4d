package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stayloop/rewards/models"
	"github.com/stayloop/rewards/points"
	"github.com/stayloop/rewards/utils"
)

// SocialController handles follow relationships. It is the sample primary
// action demonstrating the award contract: the follow itself must succeed even
// when the points engine refuses or fails.
type SocialController struct {
	db     *gorm.DB
	engine *points.Engine
}

// NewSocialController creates a new controller instance.
func NewSocialController(db *gorm.DB, engine *points.Engine) *SocialController {
	return &SocialController{db: db, engine: engine}
}

// FollowUser creates a follow edge and then, best effort, awards points.
func (s *SocialController) FollowUser(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	targetID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || uint(targetID) == userID {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid follow target")
		return
	}

	var target models.User
	if err := s.db.First(&target, uint(targetID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to load user")
		return
	}

	follow := models.Follow{FollowerID: userID, FolloweeID: target.ID}
	if err := s.db.Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusBadRequest, 40021, "already following")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to follow")
		return
	}

	// Points are a side effect, never a blocking dependency: the follow above
	// stands regardless of the award outcome.
	res := s.engine.Award(ctx.Request.Context(), points.AwardRequest{
		UserID:        userID,
		Action:        points.ActionFollowUser,
		ReferenceID:   strconv.FormatUint(uint64(target.ID), 10),
		ReferenceType: "user",
		Description:   "Followed " + target.Username,
	})
	if res.Success {
		utils.InvalidateByPrefix(leaderboardCachePrefix)
	} else {
		utils.Sugar.Debugf("follow award refused for user %d: %s", userID, res.Message)
	}

	utils.Success(ctx, gin.H{
		"following":      true,
		"points_awarded": res.Points,
	})
}

// UnfollowUser removes a follow edge. No points move; awards are not clawed
// back on unfollow.
func (s *SocialController) UnfollowUser(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	targetID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid follow target")
		return
	}

	res := s.db.Where("follower_id = ? AND followee_id = ?", userID, uint(targetID)).
		Delete(&models.Follow{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to unfollow")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40421, "not following")
		return
	}

	utils.Success(ctx, gin.H{"following": false})
}
