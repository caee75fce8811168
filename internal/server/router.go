package server

import (
	"grant-core/internal/handler"
	"grant-core/internal/middleware"
	"grant-core/internal/server/routes"
	"grant-core/internal/service"
	"grant-core/internal/service/ledger"
	"grant-core/pkg/monitor"

	_ "grant-core/docs/swagger"

	"github.com/gin-gonic/gin"
)

// RouterDeps 路由依赖，由 main 组装
type RouterDeps struct {
	Grants      *service.GrantService
	Ledger      *ledger.Ledger
	RecentLimit int

	// Whitelist 为 nil 时不挂载白名单中间件
	Whitelist             middleware.Checker
	WhitelistPrimaryField string
}

// NewHTTPRouter 初始化并返回一个 Gin Engine
func NewHTTPRouter(deps RouterDeps) *gin.Engine {
	// 0. 初始化监控指标
	monitor.Init()

	// 1. 创建 Engine (Logger, Recovery)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// 2. 注册通用中间件
	r.Use(monitor.PrometheusMiddleware())

	// 3. Handlers
	var guard gin.HandlerFunc
	if deps.Whitelist != nil {
		guard = middleware.Whitelist(deps.Whitelist, deps.WhitelistPrimaryField)
	}
	system := handler.NewSystemHandler(deps.Grants, guard != nil)
	grants := handler.NewGrantHandler(deps.Grants, deps.Ledger)
	grantors := handler.NewGrantorHandler(deps.Grants, deps.Ledger, deps.RecentLimit)
	stats := handler.NewStatsHandler(deps.Grants, deps.Ledger)

	// 4. 注册路由
	routes.RegisterSystemRoutes(r, system)
	routes.RegisterGrantRoutes(&r.RouterGroup, grants, grantors, stats, guard)

	return r
}
