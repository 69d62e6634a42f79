package router

import (
	"net/http"
	"sort"
	"strings"

	"github.com/wedding-candy/internal/authz"
	"github.com/wedding-candy/internal/cache"
	"github.com/wedding-candy/internal/config"
	adminhandlers "github.com/wedding-candy/internal/http/handlers/admin"
	publichandlers "github.com/wedding-candy/internal/http/handlers/public"
	"github.com/wedding-candy/internal/http/response"
	"github.com/wedding-candy/internal/logger"
	"github.com/wedding-candy/internal/provider"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	limiter := NewRateLimiter(cache.Client())
	submitRule := RateLimitRule{
		Prefix:        cache.Key("rate", "submit"),
		WindowSeconds: cfg.Security.SubmitRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.SubmitRateLimit.MaxAttempts,
	}
	adminLoginRule := RateLimitRule{
		Prefix:        cache.Key("rate", "admin_login"),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口（领取表单）
		public := apiV1.Group("/public")
		{
			public.GET("/form-options", publicHandler.GetFormOptions)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
			public.POST("/recipients", RateLimitMiddleware(limiter, submitRule, KeyByIP), publicHandler.SubmitRecipient)
			public.GET("/recipients/last", publicHandler.GetLastSubmission)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(limiter, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AuthService), AdminRBACMiddleware(c.AuthzService))
			{
				// 会话与密码
				authorized.POST("/logout", adminHandler.AdminLogout)
				authorized.GET("/session", adminHandler.GetSession)
				authorized.POST("/session/extend", adminHandler.ExtendSession)
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)
				authorized.POST("/password/reset", adminHandler.ResetAdminPassword)
				authorized.POST("/password/strength", adminHandler.CheckPasswordStrength)

				// 领取记录
				authorized.GET("/recipients", adminHandler.GetRecipients)
				authorized.POST("/recipients/batch-delete", adminHandler.BatchDeleteRecipients)
				authorized.GET("/recipients/:id", adminHandler.GetRecipient)
				authorized.PATCH("/recipients/:id", adminHandler.PatchRecipient)
				authorized.PUT("/recipients/:id/status", adminHandler.UpdateRecipientStatus)
				authorized.POST("/recipients/:id/toggle", adminHandler.ToggleRecipientStatus)
				authorized.DELETE("/recipients/:id", adminHandler.DeleteRecipient)

				// 统计
				authorized.GET("/statistics", adminHandler.GetStatistics)
				authorized.GET("/statistics/regions", adminHandler.GetRegionStatistics)
				authorized.GET("/statistics/trend", adminHandler.GetTrendStatistics)
				authorized.GET("/statistics/relations", adminHandler.GetRelationStatistics)

				// 导出与导入
				authorized.GET("/export/csv", adminHandler.ExportCSV)
				authorized.GET("/export/xlsx", adminHandler.ExportXLSX)
				authorized.GET("/export/json", adminHandler.ExportJSON)
				authorized.GET("/export/history", adminHandler.GetExportHistory)
				authorized.POST("/import/json", adminHandler.ImportJSON)

				// 备份与存储
				authorized.GET("/backup", adminHandler.GetBackupStatus)
				authorized.POST("/backup", adminHandler.CreateBackup)
				authorized.POST("/backup/restore", adminHandler.RestoreBackup)
				authorized.POST("/backup/clear", adminHandler.ClearAllRecipients)
				authorized.GET("/storage/usage", adminHandler.GetStorageUsage)

				// 审计与权限
				authorized.GET("/audit-logs", adminHandler.ListAuditLogs)
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		redisState := "disabled"
		if cache.Enabled() {
			redisState = "ok"
			if err := cache.Ping(c.Request.Context()); err != nil {
				log.Warn("health_redis_ping_failed", zap.Error(err))
				redisState = "down"
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "redis": redisState})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") || item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 || segments[0] != "admin" {
		return segments[0]
	}
	switch segments[1] {
	case "import":
		return "export"
	case "session", "logout", "password":
		return "account"
	case "audit-logs":
		return "audit"
	}
	return segments[1]
}
