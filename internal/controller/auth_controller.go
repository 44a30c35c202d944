package controller

import (
	"legal_eval_backend/internal/config"
	"legal_eval_backend/internal/model"
	"legal_eval_backend/internal/service"
	"legal_eval_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	Session     config.SessionConfig
}

func NewAuthController(authService *service.AuthService, session config.SessionConfig) *AuthController {
	return &AuthController{
		AuthService: authService,
		Session:     session,
	}
}

// swagger:model CredentialsRequest
type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{UserID: u.ID, Username: u.Username}
}

// Register godoc
// @Summary 注册新用户
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body CredentialsRequest true "用户名与密码"
// @Success 201 {object} UserResponse
// @Failure 400 {object} util.ErrorResponse "请求参数错误"
// @Failure 409 {object} util.ErrorResponse "用户名已被注册"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req CredentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, toUserResponse(user))
}

// Login godoc
// @Summary 用户登录
// @Description 校验密码并通过 HttpOnly Cookie 下发会话 id
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body CredentialsRequest true "用户名与密码"
// @Success 200 {object} UserResponse
// @Failure 401 {object} util.ErrorResponse "用户名或密码错误"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req CredentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, sessionID, err := c.AuthService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.Session.CookieName, sessionID, int(c.Session.TTL.Seconds()), "/", "", c.Session.Secure, true)
	util.Success(ctx, toUserResponse(user))
}

// Logout godoc
// @Summary 退出登录
// @Tags 认证
// @Produce  json
// @Success 200 {object} util.MessageResponse
// @Router /api/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	sessionID, _ := ctx.Cookie(c.Session.CookieName)
	if err := c.AuthService.Logout(ctx.Request.Context(), sessionID); err != nil {
		util.HandleError(ctx, err)
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.Session.CookieName, "", -1, "/", "", c.Session.Secure, true)
	util.Message(ctx, "Logged out")
}

// Session godoc
// @Summary 当前会话用户
// @Tags 认证
// @Produce  json
// @Success 200 {object} UserResponse
// @Failure 401 {object} util.ErrorResponse
// @Router /api/session [get]
func (c *AuthController) CurrentSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, toUserResponse(user))
}

// ListUsers 供前端切换评测用户
func (c *AuthController) ListUsers(ctx *gin.Context) {
	users, err := c.AuthService.ListUsers(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	util.Success(ctx, out)
}
