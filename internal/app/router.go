package app

import (
	"legal_eval_backend/internal/config"
	"legal_eval_backend/internal/middleware"
	"legal_eval_backend/internal/util"
	"legal_eval_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		// 认证
		api.POST("/register", c.auth.Register)
		api.POST("/login", c.auth.Login)
		api.POST("/logout", c.auth.Logout)
		api.GET("/session", c.auth.CurrentSession)
		api.GET("/users", c.auth.ListUsers)

		// 问题
		api.GET("/questions", c.question.ListQuestions)
		api.POST("/questions", c.question.CreateQuestion)
		api.GET("/questions/is-answered", c.question.IsAnswered)
		api.GET("/question", c.question.GetQuestion)

		// 模型与回答，导入脚本也使用这些接口
		api.GET("/models", c.generation.ListModels)
		api.POST("/models", c.generation.CreateModel)
		api.GET("/generations", c.generation.ListGenerations)
		api.POST("/generations", c.generation.CreateGeneration)
		api.GET("/pairs", c.generation.ListPairs)

		// 评分与补写
		api.POST("/rate", c.rating.Rate)
		api.GET("/ratings", c.rating.ListRatings)
		api.POST("/writeins", c.writein.SubmitWritein)
		api.GET("/writeins/latest", c.writein.LatestWritein)
		api.GET("/has-writein", c.writein.HasWritein)

		// 分配
		api.GET("/user-questions", c.assignment.ListAssignments)
		api.POST("/user-questions", c.assignment.Assign)
		api.DELETE("/user-questions", c.assignment.Unassign)

		// 导出需要登录
		api.POST("/exports", middleware.RequireSession(), c.export.CreateExport)
		api.DELETE("/exports", middleware.RequireSession(), c.export.DeleteExport)
	}

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/exports", cfg.Storage.LocalPath)
	}
}
