package routes

import (
	"grant-core/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterSystemRoutes 健康检查、接口目录、监控与文档
func RegisterSystemRoutes(r gin.IRoutes, h *handler.SystemHandler) {
	r.GET("/health", h.HealthCheck)
	r.GET("/agent", h.Agent)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
