package service

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/wedding-candy/internal/config"
	"github.com/wedding-candy/internal/constants"
	"github.com/wedding-candy/internal/logger"
	"github.com/wedding-candy/internal/models"
	"github.com/wedding-candy/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// adminTokenMaxLifetime JWT 最长有效期，实际有效性以会话为准
const adminTokenMaxLifetime = 7 * 24 * time.Hour

// LoginResult 登录结果
type LoginResult struct {
	Session *models.AdminSession `json:"session"`
	Token   string               `json:"token"`
}

// AuthService 管理员认证服务
// 会话、失败记录与自定义密码均保存在槽位存储中
type AuthService struct {
	cfg   *config.Config
	slots repository.SlotStore

	mu  sync.Mutex
	now func() time.Time
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config, slots repository.SlotStore) *AuthService {
	return &AuthService{
		cfg:   cfg,
		slots: slots,
		now:   time.Now,
	}
}

// SetClock 替换时钟（测试使用）
func (s *AuthService) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// HashPassword 使用 bcrypt 加密密码
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// JWTClaims JWT 声明
type JWTClaims struct {
	Username     string `json:"username"`
	Role         string `json:"role"`
	SessionToken string `json:"session_token"`
	jwt.RegisteredClaims
}

// GenerateJWT 为会话签发 JWT
func (s *AuthService) GenerateJWT(session *models.AdminSession) (string, error) {
	claims := JWTClaims{
		Username:     session.Username,
		Role:         session.Role,
		SessionToken: session.Token,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(session.LoginTime.Add(adminTokenMaxLifetime)),
			IssuedAt:  jwt.NewNumericDate(session.LoginTime),
			NotBefore: jwt.NewNumericDate(session.LoginTime.Add(-time.Minute)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.SecretKey))
}

// ParseJWT 解析 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("无效的 token")
}

// Login 管理员登录
// 先检查锁定状态再校验密码，失败次数在窗口内达到上限时直接拒绝
func (s *AuthService) Login(username, password string, remember bool, clientIP string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()

	attempts := s.loadAttempts()
	if s.isLocked(attempts, now) {
		logger.Warnw("admin_login_locked", "username", username, "client_ip", clientIP)
		return nil, ErrLoginLocked
	}

	role, ok := s.authenticate(username, password)
	if !ok {
		s.recordFailedAttempt(attempts, models.LoginAttempt{Username: username, Timestamp: now, IP: clientIP})
		return nil, ErrInvalidCredentials
	}
	if err := s.slots.Remove(constants.SlotAdminFailedAttempts); err != nil {
		logger.Warnw("admin_failed_attempts_clear_failed", "error", err)
	}

	timeout := time.Duration(s.sessionTimeoutMinutes()) * time.Minute
	if remember {
		timeout *= constants.AdminRememberTimeoutFactor
	}
	session := &models.AdminSession{
		Username:     username,
		Role:         role,
		Token:        uuid.NewString(),
		LoginTime:    now,
		ExpiresAt:    now.Add(timeout),
		Remember:     remember,
		LastActivity: now,
	}
	if err := s.saveSession(session); err != nil {
		return nil, err
	}
	token, err := s.GenerateJWT(session)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Session: session, Token: token}, nil
}

// CheckSession 校验会话并刷新最近活动时间，过期会话会被删除
func (s *AuthService) CheckSession(sessionToken string) (*models.AdminSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.loadSession(sessionToken)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !now.Before(session.ExpiresAt) {
		if err := s.slots.Remove(sessionKey(sessionToken)); err != nil {
			logger.Warnw("admin_session_remove_failed", "username", session.Username, "error", err)
		}
		return nil, ErrSessionExpired
	}
	session.LastActivity = now
	if err := s.saveSession(session); err != nil {
		logger.Warnw("admin_session_touch_failed", "username", session.Username, "error", err)
	}
	return session, nil
}

// ExtendSession 延长会话有效期，minutes <= 0 时使用默认 30 分钟
func (s *AuthService) ExtendSession(sessionToken string, minutes int) (*models.AdminSession, error) {
	if minutes <= 0 {
		minutes = constants.AdminSessionExtendMinutes
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.loadSession(sessionToken)
	if err != nil {
		return nil, err
	}
	if !s.now().Before(session.ExpiresAt) {
		return nil, ErrSessionExpired
	}
	session.ExpiresAt = session.ExpiresAt.Add(time.Duration(minutes) * time.Minute)
	if err := s.saveSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Logout 注销会话
func (s *AuthService) Logout(sessionToken string) error {
	if strings.TrimSpace(sessionToken) == "" {
		return nil
	}
	return s.slots.Remove(sessionKey(sessionToken))
}

// PurgeExpiredSessions 清理过期会话，返回清理数量
func (s *AuthService) PurgeExpiredSessions() (int, error) {
	keys, err := s.slots.Keys(constants.SlotAdminSessionPrefix)
	if err != nil {
		return 0, err
	}
	now := s.currentTime()
	purged := 0
	for _, key := range keys {
		var session models.AdminSession
		ok, err := repository.GetJSON(s.slots, key, &session)
		if err == nil && ok && now.Before(session.ExpiresAt) {
			continue
		}
		if err := s.slots.Remove(key); err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}

// ChangePassword 修改管理员密码，新密码以 bcrypt 哈希写入槽位
func (s *AuthService) ChangePassword(oldPassword, newPassword string) error {
	if !s.VerifyAdminPassword(oldPassword) {
		return ErrInvalidPassword
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hashed, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.slots.Set(constants.SlotAdminPasswordHash, []byte(hashed)); err != nil {
		return err
	}
	if err := repository.SetJSON(s.slots, constants.SlotAdminPasswordChange, s.currentTime()); err != nil {
		logger.Warnw("admin_password_changed_at_write_failed", "error", err)
	}
	return nil
}

// ResetPassword 移除自定义密码，恢复为配置中的默认密码
func (s *AuthService) ResetPassword() error {
	if err := s.slots.Remove(constants.SlotAdminPasswordHash); err != nil {
		return err
	}
	return s.slots.Remove(constants.SlotAdminPasswordChange)
}

// PasswordChangedAt 最近一次修改密码时间
func (s *AuthService) PasswordChangedAt() *time.Time {
	var changedAt time.Time
	ok, err := repository.GetJSON(s.slots, constants.SlotAdminPasswordChange, &changedAt)
	if err != nil || !ok {
		return nil
	}
	return &changedAt
}

// PasswordStrength 评估密码强度
func (s *AuthService) PasswordStrength(password string) PasswordStrengthResult {
	return EvaluatePasswordStrength(password)
}

// VerifyAdminPassword 校验主管理员密码（自定义哈希优先，否则对比配置默认值）
func (s *AuthService) VerifyAdminPassword(password string) bool {
	if password == "" {
		return false
	}
	hash, ok, err := s.slots.Get(constants.SlotAdminPasswordHash)
	if err != nil {
		logger.Warnw("admin_password_hash_read_failed", "error", err)
		return false
	}
	if ok && len(hash) > 0 {
		return s.VerifyPassword(string(hash), password) == nil
	}
	return password == s.cfg.Admin.Password
}

// IsLocked 当前是否处于登录锁定状态
func (s *AuthService) IsLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLocked(s.loadAttempts(), s.now())
}

func (s *AuthService) authenticate(username, password string) (string, bool) {
	if username == s.cfg.Admin.Username {
		return constants.AdminRoleOwner, s.VerifyAdminPassword(password)
	}
	for _, viewer := range s.cfg.Admin.Viewers {
		if viewer.Username != username || viewer.PasswordHash == "" {
			continue
		}
		return constants.AdminRoleViewer, s.VerifyPassword(viewer.PasswordHash, password) == nil
	}
	return "", false
}

func (s *AuthService) isLocked(attempts []models.LoginAttempt, now time.Time) bool {
	maxAttempts := s.cfg.Security.Lockout.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = constants.AdminLockoutMaxAttempts
	}
	if len(attempts) < maxAttempts {
		return false
	}
	windowMinutes := s.cfg.Security.Lockout.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = constants.AdminLockoutWindowMinutes
	}
	since := now.Add(-time.Duration(windowMinutes) * time.Minute)
	recent := 0
	for _, attempt := range attempts {
		if attempt.Timestamp.After(since) {
			recent++
		}
	}
	return recent >= maxAttempts
}

func (s *AuthService) recordFailedAttempt(attempts []models.LoginAttempt, attempt models.LoginAttempt) {
	keep := s.cfg.Security.Lockout.KeepAttempts
	if keep <= 0 {
		keep = constants.AdminFailedAttemptsKeep
	}
	attempts = append(attempts, attempt)
	if len(attempts) > keep {
		attempts = attempts[len(attempts)-keep:]
	}
	if err := repository.SetJSON(s.slots, constants.SlotAdminFailedAttempts, attempts); err != nil {
		logger.Warnw("admin_failed_attempt_write_failed", "username", attempt.Username, "error", err)
	}
}

func (s *AuthService) loadAttempts() []models.LoginAttempt {
	attempts := make([]models.LoginAttempt, 0)
	if _, err := repository.GetJSON(s.slots, constants.SlotAdminFailedAttempts, &attempts); err != nil {
		logger.Warnw("admin_failed_attempts_read_failed", "error", err)
		return make([]models.LoginAttempt, 0)
	}
	return attempts
}

func (s *AuthService) loadSession(sessionToken string) (*models.AdminSession, error) {
	if strings.TrimSpace(sessionToken) == "" {
		return nil, ErrSessionInvalid
	}
	var session models.AdminSession
	ok, err := repository.GetJSON(s.slots, sessionKey(sessionToken), &session)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSessionInvalid
	}
	return &session, nil
}

func (s *AuthService) saveSession(session *models.AdminSession) error {
	return repository.SetJSON(s.slots, sessionKey(session.Token), session)
}

func (s *AuthService) sessionTimeoutMinutes() int {
	if s.cfg.Admin.SessionTimeoutMinutes > 0 {
		return s.cfg.Admin.SessionTimeoutMinutes
	}
	return constants.AdminDefaultSessionMinutes
}

func (s *AuthService) currentTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now()
}

func sessionKey(token string) string {
	return constants.SlotAdminSessionPrefix + strings.TrimSpace(token)
}
