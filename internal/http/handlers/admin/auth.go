package admin

import (
	"errors"
	"time"

	"github.com/wedding-candy/internal/constants"
	handlershared "github.com/wedding-candy/internal/http/handlers/shared"
	"github.com/wedding-candy/internal/http/response"
	"github.com/wedding-candy/internal/i18n"
	"github.com/wedding-candy/internal/models"
	"github.com/wedding-candy/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username       string                              `json:"username" binding:"required"`
	Password       string                              `json:"password" binding:"required"`
	Remember       bool                                `json:"remember"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// SessionView 会话响应
type SessionView struct {
	Username     string `json:"username"`
	Role         string `json:"role"`
	LoginTime    string `json:"login_time"`
	ExpiresAt    string `json:"expires_at"`
	LastActivity string `json:"last_activity"`
	Remember     bool   `json:"remember"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token   string      `json:"token"`
	Session SessionView `json:"session"`
}

func toSessionView(session *models.AdminSession) SessionView {
	return SessionView{
		Username:     session.Username,
		Role:         session.Role,
		LoginTime:    session.LoginTime.Format(time.RFC3339),
		ExpiresAt:    session.ExpiresAt.Format(time.RFC3339),
		LastActivity: session.LastActivity.Format(time.RFC3339),
		Remember:     session.Remember,
	}
}

// AdminLogin 管理员登录
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := req.CaptchaPayload.Verify(h.CaptchaService, constants.CaptchaSceneLogin); err != nil {
		respondWithMappedError(c, err, loginErrorRules, response.CodeInternal, "error.captcha_config_invalid")
		return
	}

	result, err := h.AuthService.Login(req.Username, req.Password, req.Remember, c.ClientIP())
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrLoginLocked) {
			requestLog(c).Warnw("admin_login_rejected", "username", req.Username, "error", err)
		}
		respondWithMappedError(c, err, loginErrorRules, response.CodeInternal, "error.internal_error")
		return
	}

	c.Set(handlershared.ContextKeyAdminUsername, result.Session.Username)
	c.Set(handlershared.ContextKeyAdminRole, result.Session.Role)
	h.recordAudit(c, service.AuditActionLogin, "", models.JSON{"remember": req.Remember})

	response.Success(c, LoginResponse{
		Token:   result.Token,
		Session: toSessionView(result.Session),
	})
}

// AdminLogout 退出登录
func (h *Handler) AdminLogout(c *gin.Context) {
	token, ok := getSessionToken(c)
	if !ok {
		return
	}
	if err := h.AuthService.Logout(token); err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.T(locale, "message.logout_success"), nil)
}

// GetSession 获取当前会话
func (h *Handler) GetSession(c *gin.Context) {
	session, ok := getAdminSession(c)
	if !ok {
		return
	}
	response.Success(c, toSessionView(session))
}

// ExtendSessionRequest 延长会话请求
type ExtendSessionRequest struct {
	Minutes int `json:"minutes"`
}

// ExtendSession 延长当前会话
func (h *Handler) ExtendSession(c *gin.Context) {
	token, ok := getSessionToken(c)
	if !ok {
		return
	}
	var req ExtendSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}
	session, err := h.AuthService.ExtendSession(token, req.Minutes)
	if err != nil {
		respondWithMappedError(c, err, sessionErrorRules, response.CodeInternal, "error.internal_error")
		return
	}
	response.Success(c, toSessionView(session))
}

// UpdatePasswordRequest 修改密码请求
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UpdateAdminPassword 修改管理员密码
func (h *Handler) UpdateAdminPassword(c *gin.Context) {
	username, ok := getAdminUsername(c)
	if !ok {
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthService.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidPassword) {
			respondError(c, response.CodeBadRequest, "error.password_old_invalid", nil)
			return
		}
		if errors.Is(err, service.ErrWeakPassword) && respondPasswordPolicyError(c, err) {
			return
		}
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}

	requestLog(c).Infow("admin_password_changed", "operator", username)
	h.recordAudit(c, service.AuditActionPasswordChange, username, nil)
	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.T(locale, "message.password_changed"), gin.H{
		"changed_at": h.AuthService.PasswordChangedAt(),
	})
}

// ResetAdminPassword 恢复配置中的默认密码
func (h *Handler) ResetAdminPassword(c *gin.Context) {
	if err := h.AuthService.ResetPassword(); err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	h.recordAudit(c, service.AuditActionPasswordReset, "", nil)
	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.T(locale, "message.password_reset"), nil)
}

// PasswordStrengthRequest 密码强度检测请求
type PasswordStrengthRequest struct {
	Password string `json:"password"`
}

// CheckPasswordStrength 检测密码强度
func (h *Handler) CheckPasswordStrength(c *gin.Context) {
	var req PasswordStrengthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result := h.AuthService.PasswordStrength(req.Password)
	locale := i18n.ResolveLocale(c)
	message := i18n.T(locale, result.Key)
	if !result.Valid {
		message = i18n.Sprintf(locale, result.Key, constants.AdminPasswordMinLength)
	}
	response.Success(c, gin.H{
		"valid":    result.Valid,
		"strength": result.Strength,
		"message":  message,
	})
}
