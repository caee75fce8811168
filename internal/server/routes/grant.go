package routes

import (
	"grant-core/internal/handler"

	"github.com/gin-gonic/gin"
)

// RegisterGrantRoutes 注册 grant 相关路由
// guard 为白名单中间件，未启用时为 nil
func RegisterGrantRoutes(rg *gin.RouterGroup, grants *handler.GrantHandler, grantors *handler.GrantorHandler, stats *handler.StatsHandler, guard gin.HandlerFunc) {
	guarded := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if guard == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{guard, h}
	}

	grantGroup := rg.Group("/grants")
	{
		grantGroup.POST("", guarded(grants.CreateGrant)...)
		grantGroup.GET("", grants.ListGrants)
		grantGroup.GET("/:id", grants.GetGrant)
	}

	rg.GET("/grantors/:address", grantors.GetGrantor)
	rg.GET("/stats", stats.Stats)

	// 手动联调
	rg.POST("/test/e2e", guarded(grants.E2E)...)
}
