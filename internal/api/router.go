package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/towerjump-backend-go/internal/config"
	"github.com/jengzang/towerjump-backend-go/internal/handler"
	"github.com/jengzang/towerjump-backend-go/internal/middleware"
)

// Handlers bundles the HTTP handlers mounted by SetupRouter
type Handlers struct {
	Dataset  *handler.DatasetHandler
	Analysis *handler.AnalysisHandler
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h Handlers, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUpload
	r.Use(gin.Recovery(), middleware.CORS(), middleware.Logger())

	auth := middleware.JWTAuth(cfg.JWTSecret)
	limit := limiter.Middleware()

	api := r.Group("/api")
	{
		// 健康检查
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "healthy",
				"message": "Tower Jumps API is running",
			})
		})

		// 数据集
		api.POST("/upload", limit, auth, h.Dataset.Upload)
		api.GET("/dataset/stats", h.Dataset.Stats)

		// 分析任务
		api.POST("/analyze", limit, auth, h.Analysis.Analyze)
		api.GET("/status/:job_id", h.Analysis.Status)

		// 分析结果
		api.GET("/results", h.Analysis.Results)
		api.GET("/summary", h.Analysis.Summary)
		api.GET("/export", h.Analysis.Export)
	}

	return r
}
