package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stayloop/rewards/middleware"
	"github.com/stayloop/rewards/models"
	"github.com/stayloop/rewards/points"
	"github.com/stayloop/rewards/utils"
)

const tokenDuration = 24 * time.Hour

// AuthController handles account registration and session endpoints.
type AuthController struct {
	db     *gorm.DB
	engine *points.Engine
}

// NewAuthController creates a new controller instance.
func NewAuthController(db *gorm.DB, engine *points.Engine) *AuthController {
	return &AuthController{db: db, engine: engine}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// Register creates an account and issues a token.
func (a *AuthController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid registration payload")
		return
	}

	username := utils.Sanitize(req.Username)
	if username == "" {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid username")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to process password")
		return
	}

	user := models.User{
		Username:     username,
		Email:        req.Email,
		PasswordHash: hash,
		RegisterIP:   ctx.ClientIP(),
	}
	if err := a.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, 40901, "username already taken")
			return
		}
		utils.Sugar.Errorf("register failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to create account")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid login payload")
		return
	}

	var user models.User
	err := a.db.Where("username = ?", req.Username).Take(&user).Error
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Me returns the authenticated account together with its points balance.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to load user")
		return
	}

	balance, err := a.engine.GetBalance(ctx.Request.Context(), userID)
	if err != nil {
		utils.Sugar.Errorf("balance lookup for user %d failed: %v", userID, err)
		balance = points.Balance{UserID: userID}
	}

	utils.Success(ctx, gin.H{"user": user, "points": balance})
}

// Logout revokes the current token until its natural expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	tokenString := ctx.GetString(middleware.ContextTokenKey)
	if tokenString == "" {
		utils.Error(ctx, http.StatusBadRequest, 40004, "no active token")
		return
	}

	expiresAt := time.Now().Add(tokenDuration)
	if claims, err := utils.ParseToken(tokenString); err == nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(tokenString, expiresAt)

	utils.Success(ctx, gin.H{"message": "logged out"})
}

// getUserID extracts the authenticated user ID set by the auth middleware.
func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
