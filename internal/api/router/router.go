package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"course-scheduler/backend/config"
	"course-scheduler/backend/internal/api/handler"
	"course-scheduler/backend/internal/api/middleware"
	"course-scheduler/backend/pkg/jwt"
	"course-scheduler/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// db / rdb 仅用于健康检查，rdb 可为 nil
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 / 指标 ──
	r.GET("/health", healthCheck(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	adminOnly := middleware.RoleAuth(jwt.RoleAdmin)
	writeLimit := middleware.RateLimit(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window, logger)

	// ── API v1（全部需要认证）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))
	{
		// 排课方案模块
		schedules := v1.Group("/schedules")
		{
			schedules.POST("/generate", adminOnly, writeLimit, h.Schedule.Generate)
			schedules.GET("", h.Schedule.List)
			schedules.GET("/:id", h.Schedule.Get)
			schedules.PUT("/:id", adminOnly, writeLimit, h.Schedule.Update)
			schedules.DELETE("/:id", adminOnly, writeLimit, h.Schedule.Delete)
			schedules.GET("/:id/courses", h.Schedule.ListCourses)
			schedules.GET("/:id/conflicts", h.Conflict.ListBySchedule)
			schedules.POST("/:id/detect", adminOnly, writeLimit, h.Schedule.DetectConflicts)
		}

		// 课程落位模块
		scheduledCourses := v1.Group("/scheduled-courses")
		{
			scheduledCourses.POST("/override", adminOnly, writeLimit, h.Schedule.CreateOverride)
			scheduledCourses.DELETE("/:id", adminOnly, writeLimit, h.Schedule.DeleteScheduledCourse)
			scheduledCourses.GET("/:id/history", h.Schedule.GetHistory)
		}

		// 冲突模块
		conflicts := v1.Group("/conflicts")
		{
			conflicts.GET("/:id", h.Conflict.Get)
			conflicts.PUT("/:id/resolve", adminOnly, writeLimit, h.Conflict.Resolve)
			conflicts.PUT("/:id/revert", adminOnly, writeLimit, h.Conflict.Revert)
		}

		// 时间段目录
		v1.GET("/time-slots", h.Schedule.ListTimeSlots)

		// 教师可用性模块（admin 或教师本人，Handler 层鉴权）
		professors := v1.Group("/professors")
		{
			professors.GET("/:id/availability", h.Availability.Get)
			professors.PUT("/:id/availability", writeLimit, h.Availability.Set)
			professors.POST("/:id/availability/import", writeLimit, h.Availability.ImportICS)
		}
	}

	return r
}

// healthCheck 数据库必须可用；Redis 不可用时只降级不报错
func healthCheck(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"status": "ok", "database": "ok", "redis": "disabled"}
		code := http.StatusOK

		if db == nil {
			status["database"] = "unavailable"
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		} else if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status["database"] = "unavailable"
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}

		if rdb != nil {
			if err := rdb.Ping(ctx); err != nil {
				status["redis"] = "unavailable"
			} else {
				status["redis"] = "ok"
			}
		}

		c.JSON(code, status)
	}
}
