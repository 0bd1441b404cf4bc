package endpoint

import (
	"fmt"
	"time"

	"github.com/ariqfadlan/medpractice/middleware"
	"github.com/ariqfadlan/medpractice/model"
	"github.com/ariqfadlan/medpractice/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	maxFailedAttempts = 5
	lockoutDuration   = 15 * time.Minute
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@clinic.example"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type LoginResponse struct {
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	UserID    uint   `json:"user_id" example:"1"`
	Name      string `json:"name" example:"Admin"`
	LastLogin string `json:"last_login,omitempty" example:"2025-04-18 09:30:00"`
}

// Login godoc
// @Summary      Administrator login
// @Description  Authenticate an administrator with email and password
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} util.APIResponse{data=LoginResponse} "Login successful"
// @Failure      400 {object} util.APIResponse "Invalid request payload or credentials"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /login [post]
func Login(c *gin.Context) {
	var req LoginRequest

	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	ci := clientInfo{IP: c.ClientIP(), Agent: c.Request.UserAgent()}
	ctx := loginContext{C: c, DB: db, Email: req.Email, CI: ci}

	user, ok := loadUserForLogin(ctx)
	if !ok {
		return
	}

	if !ensureAccountNotLocked(ctx, &user) {
		return
	}

	if !verifyPasswordOrRespond(ctx, &user, req.Password) {
		return
	}

	finalizeLogin(ctx, &user)
}

type clientInfo struct {
	IP    string
	Agent string
}

type loginContext struct {
	C     *gin.Context
	DB    *gorm.DB
	Email string
	CI    clientInfo
}

func loadUserForLogin(ctx loginContext) (model.User, bool) {
	var user model.User
	err := ctx.DB.Where("email = ?", ctx.Email).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		util.LogLoginFailure(ctx.Email, ctx.CI.IP, ctx.CI.Agent, "user not found")
		util.CallUserError(ctx.C, util.APIErrorParams{Msg: "Invalid email or password", Err: fmt.Errorf("invalid credentials")})
		return model.User{}, false
	}
	if err != nil {
		util.CallServerError(ctx.C, util.APIErrorParams{Msg: "Failed to load user", Err: err})
		return model.User{}, false
	}
	return user, true
}

func ensureAccountNotLocked(ctx loginContext, user *model.User) bool {
	if user.LockedUntil == nil || time.Now().After(*user.LockedUntil) {
		return true
	}
	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventAccountLocked,
		UserID:    fmt.Sprintf("%d", user.ID),
		Email:     user.Email,
		IP:        ctx.CI.IP,
		UserAgent: ctx.CI.Agent,
		Message:   "login attempt on locked account",
	})
	util.CallUserError(ctx.C, util.APIErrorParams{
		Msg: "Account temporarily locked. Try again later.",
		Err: fmt.Errorf("account locked"),
	})
	return false
}

func verifyPasswordOrRespond(ctx loginContext, user *model.User, password string) bool {
	if user.Password == util.HashPassword(password) {
		return true
	}

	user.FailedAttempts++
	if user.FailedAttempts >= maxFailedAttempts {
		until := time.Now().Add(lockoutDuration)
		user.LockedUntil = &until
		user.FailedAttempts = 0
	}
	ctx.DB.Save(user)

	util.LogLoginFailure(ctx.Email, ctx.CI.IP, ctx.CI.Agent, "wrong password")
	util.CallUserError(ctx.C, util.APIErrorParams{Msg: "Invalid email or password", Err: fmt.Errorf("invalid credentials")})
	return false
}

func finalizeLogin(ctx loginContext, user *model.User) {
	token, err := util.GenerateSessionToken(user.ID, user.Email)
	if err != nil {
		util.CallServerError(ctx.C, util.APIErrorParams{Msg: "Failed to create session", Err: err})
		return
	}

	if err := util.StoreSession(user.ID, token); err != nil {
		util.CallServerError(ctx.C, util.APIErrorParams{Msg: "Failed to store session", Err: err})
		return
	}

	lastLogin := ""
	if user.LastLogin != nil {
		lastLogin = user.LastLogin.Format("2006-01-02 15:04:05")
	}

	now := time.Now()
	user.LastLogin = &now
	user.FailedAttempts = 0
	user.LockedUntil = nil
	ctx.DB.Save(user)

	util.LogLoginSuccess(fmt.Sprintf("%d", user.ID), user.Email, ctx.CI.IP, ctx.CI.Agent)

	util.CallSuccessOK(ctx.C, util.APISuccessParams{
		Msg: "Login successful",
		Data: LoginResponse{
			Token:     token,
			UserID:    user.ID,
			Name:      user.Name,
			LastLogin: lastLogin,
		},
	})
}

// Logout godoc
// @Summary      End the current session
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse "Logged out"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /logout [post]
func Logout(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	email, _ := middleware.GetEmail(c)
	token, _ := middleware.GetSessionToken(c)

	if err := util.DeleteSession(userID, token); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to end session", Err: err})
		return
	}

	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventLogout,
		UserID:    fmt.Sprintf("%d", userID),
		Email:     email,
		IP:        c.ClientIP(),
		Message:   "logout",
	})

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Logged out"})
}

// CheckSession godoc
// @Summary      Validate the current session
// @Description  Returns remaining session time for the authenticated admin
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse "Session valid"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /session [get]
func CheckSession(c *gin.Context) {
	email, _ := middleware.GetEmail(c)
	token, _ := middleware.GetSessionToken(c)

	remaining := util.SessionTTL(token)

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Session valid",
		Data: map[string]interface{}{
			"valid":             true,
			"current_user":      email,
			"remaining_minutes": int(remaining.Minutes()),
		},
	})
}
