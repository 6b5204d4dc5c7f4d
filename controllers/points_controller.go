package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stayloop/rewards/config"
	"github.com/stayloop/rewards/points"
	"github.com/stayloop/rewards/utils"
)

const leaderboardCachePrefix = "cache:points:leaderboard"

// PointsController exposes the rewards engine over HTTP.
type PointsController struct {
	db     *gorm.DB
	engine *points.Engine
}

// NewPointsController creates a new controller instance.
func NewPointsController(db *gorm.DB, engine *points.Engine) *PointsController {
	return &PointsController{db: db, engine: engine}
}

// DailyCheckIn records the authenticated user's check-in for today.
func (p *PointsController) DailyCheckIn(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	res := p.engine.CheckIn(ctx.Request.Context(), userID)
	if !res.Success {
		utils.Error(ctx, http.StatusBadRequest, 40030, res.Message)
		return
	}

	utils.InvalidateByPrefix(leaderboardCachePrefix)
	utils.Success(ctx, res)
}

// GetBalance returns the authenticated user's aggregate. Storage failures are
// logged and reported as a zeroed balance rather than an error page.
func (p *PointsController) GetBalance(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	balance, err := p.engine.GetBalance(ctx.Request.Context(), userID)
	if err != nil {
		utils.Sugar.Errorf("balance lookup for user %d failed: %v", userID, err)
		balance = points.Balance{UserID: userID}
	}
	utils.Success(ctx, balance)
}

// GetHistory returns a page of the user's ledger, newest first.
func (p *PointsController) GetHistory(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	filter := points.HistoryFilter{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
		Action: strings.TrimSpace(ctx.Query("action")),
	}

	history, err := p.engine.GetHistory(ctx.Request.Context(), userID, filter)
	if err != nil {
		utils.Sugar.Errorf("history lookup for user %d failed: %v", userID, err)
		history = points.HistoryPage{Items: nil, Total: 0, HasMore: false}
	}

	utils.Success(ctx, gin.H{
		"items": history.Items,
		"pagination": gin.H{
			"page":      page,
			"page_size": pageSize,
			"total":     history.Total,
			"has_more":  history.HasMore,
		},
	})
}

// GetLeaderboard returns the top users by total points. Results are cached in
// redis for a short TTL and invalidated whenever points move.
func (p *PointsController) GetLeaderboard(ctx *gin.Context) {
	limit := 10
	if l, err := strconv.Atoi(ctx.Query("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	cacheKey := fmt.Sprintf("%s:limit=%d", leaderboardCachePrefix, limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	entries, err := p.engine.GetLeaderboard(ctx.Request.Context(), limit)
	if err != nil {
		utils.Sugar.Errorf("leaderboard query failed: %v", err)
		entries = []points.LeaderboardEntry{}
	}

	payload := gin.H{"entries": entries}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	ttl := time.Duration(config.Get().LeaderboardCacheTTLSec) * time.Second
	utils.CacheSetJSON(cacheKey, wrapper, ttl)

	utils.Success(ctx, payload)
}

// GetStreakInfo reports where the user stands in the check-in cycle.
func (p *PointsController) GetStreakInfo(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	info, err := p.engine.GetStreakInfo(ctx.Request.Context(), userID)
	if err != nil {
		utils.Sugar.Errorf("streak info for user %d failed: %v", userID, err)
		info = points.StreakInfo{}
	}
	utils.Success(ctx, info)
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 20
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}
