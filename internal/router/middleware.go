package router

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/wedding-candy/internal/authz"
	"github.com/wedding-candy/internal/config"
	handlershared "github.com/wedding-candy/internal/http/handlers/shared"
	"github.com/wedding-candy/internal/http/response"
	"github.com/wedding-candy/internal/i18n"
	"github.com/wedding-candy/internal/logger"
	"github.com/wedding-candy/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
	maxRequestIDLen = 64
)

// CORSMiddleware 跨域中间件
// 导出接口依赖 Content-Disposition，需要显式暴露给前端
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Authorization",
			"Accept-Language",
			"Cache-Control",
			"X-Requested-With",
			requestIDHeader,
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")
	exposeHeader := strings.Join([]string{"Content-Disposition", requestIDHeader}, ", ")

	return func(c *gin.Context) {
		header := c.Writer.Header()
		origin := c.GetHeader("Origin")
		if allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials); allowedOrigin != "" {
			header.Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				header.Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			header.Set("Access-Control-Allow-Credentials", "true")
		}
		header.Set("Access-Control-Allow-Headers", headersHeader)
		header.Set("Access-Control-Allow-Methods", methodsHeader)
		header.Set("Access-Control-Expose-Headers", exposeHeader)
		if cfg.MaxAge > 0 {
			header.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件，沿用合法的上游 ID，否则生成新的
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// validRequestID 只接受字母数字与 -_.，避免日志注入
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}

// LoggerMiddleware 结构化请求日志中间件，健康检查不记录
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"bytes", c.Writer.Size(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		switch {
		case len(c.Errors) > 0:
			log.Errorw("request", "errors", c.Errors.String())
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Warnw("request")
		default:
			log.Infow("request")
		}
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// abortUnauthorized 按 i18n key 返回 401 并终止后续处理
func abortUnauthorized(c *gin.Context, key string) {
	response.Unauthorized(c, i18n.T(i18n.ResolveLocale(c), key))
	c.Abort()
}

// bearerToken 解析 Authorization 头，返回错误文案 key
func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "error.auth_header_missing"
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || scheme != "Bearer" || token == "" {
		return "", "error.auth_header_invalid"
	}
	return token, ""
}

// JWTAuthMiddleware 管理端 JWT 鉴权中间件
// 令牌只携带会话 token，会话是否有效以存储中的会话记录为准
func JWTAuthMiddleware(secretKey string, authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" {
			abortUnauthorized(c, "error.jwt_secret_missing")
			return
		}
		if authService == nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		token, errKey := bearerToken(c.GetHeader("Authorization"))
		if errKey != "" {
			abortUnauthorized(c, errKey)
			return
		}

		claims, err := authService.ParseJWT(token)
		if err != nil || claims.SessionToken == "" {
			abortUnauthorized(c, "error.token_invalid")
			return
		}

		session, err := authService.CheckSession(claims.SessionToken)
		if err != nil {
			if errors.Is(err, service.ErrSessionExpired) {
				abortUnauthorized(c, "error.session_expired")
			} else {
				abortUnauthorized(c, "error.token_invalid")
			}
			return
		}

		c.Set(handlershared.ContextKeyAdminUsername, session.Username)
		c.Set(handlershared.ContextKeyAdminRole, session.Role)
		c.Set(handlershared.ContextKeySessionToken, session.Token)
		c.Set(handlershared.ContextKeyAdminSession, session)
		c.Next()
	}
}

// AdminRBACMiddleware 管理端 RBAC 鉴权中间件，按路由模板与方法判定
func AdminRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("admin_rbac_service_unavailable")
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		username := c.GetString(handlershared.ContextKeyAdminUsername)
		if username == "" {
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}
		allowed, err := authzService.EnforceAdmin(username, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("admin_rbac_enforce_failed", "username", username, "resource", resource, "method", c.Request.Method, "error", err)
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if !allowed {
			logger.Warnw("admin_rbac_permission_denied",
				"username", username,
				"role", c.GetString(handlershared.ContextKeyAdminRole),
				"method", c.Request.Method,
				"resource", authz.NormalizeObject(resource),
			)
			response.Forbidden(c, i18n.T(i18n.ResolveLocale(c), "error.forbidden"))
			c.Abort()
			return
		}
		c.Next()
	}
}
