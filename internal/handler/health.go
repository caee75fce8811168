package handler

import (
	"grant-core/internal/handler/response"
	"grant-core/internal/service"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	svc              *service.GrantService
	whitelistEnabled bool
}

func NewSystemHandler(svc *service.GrantService, whitelistEnabled bool) *SystemHandler {
	return &SystemHandler{svc: svc, whitelistEnabled: whitelistEnabled}
}

// HealthCheck godoc
// @Summary Check system health
// @Description 存活检查，同时返回出账签名是否可用等配置信息
// @Tags system
// @Produce json
// @Success 200 {object} response.Response{data=response.HealthResponse}
// @Router /health [get]
func (h *SystemHandler) HealthCheck(c *gin.Context) {
	mode := "live"
	if !h.svc.SigningEnabled() {
		mode = "simulation-only"
	}
	response.Success(c, response.HealthResponse{
		Status:           "UP",
		SigningEnabled:   h.svc.SigningEnabled(),
		Treasury:         h.svc.TreasuryAddress(),
		WhitelistEnabled: h.whitelistEnabled,
		FeePercent:       h.svc.FeePercent(),
		Mode:             mode,
	})
}

// Endpoint /agent 返回的接口描述
type Endpoint struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Description string            `json:"description"`
	Whitelisted bool              `json:"whitelisted,omitempty"`
	Query       map[string]string `json:"query,omitempty"`
	Body        map[string]string `json:"body,omitempty"`
}

var grantBody = map[string]string{
	"recipient": "string, required, recipient address",
	"txHash":    "string, required, funding transaction sent to the treasury",
	"amount":    "string, optional, simulation only (e.g. \"0.01\")",
	"reason":    "string, optional",
	"grantor":   "string, optional, overrides the detected sender",
}

// Agent 机器可读的接口目录
// @Summary 接口目录
// @Tags system
// @Produce json
// @Success 200 {object} response.Response
// @Router /agent [get]
func (h *SystemHandler) Agent(c *gin.Context) {
	response.Success(c, gin.H{
		"service":    "grant-core",
		"feePercent": h.svc.FeePercent(),
		"treasury":   h.svc.TreasuryAddress(),
		"endpoints": []Endpoint{
			{Method: "POST", Path: "/grants", Description: "Verify a funding transaction and distribute the net amount", Whitelisted: h.whitelistEnabled,
				Query: map[string]string{"mock": "bool, simulate without touching the chain"}, Body: grantBody},
			{Method: "GET", Path: "/grants", Description: "List grants, newest first",
				Query: map[string]string{"recipient": "address", "grantor": "address", "limit": "int, default 50, max 500"}},
			{Method: "GET", Path: "/grants/:id", Description: "Get a grant by id"},
			{Method: "GET", Path: "/grantors/:address", Description: "Aggregate stats and recent grants of a grantor"},
			{Method: "GET", Path: "/stats", Description: "Aggregate totals"},
			{Method: "GET", Path: "/health", Description: "Liveness and configuration flags"},
			{Method: "POST", Path: "/test/e2e", Description: "Same as POST /grants, always live", Whitelisted: h.whitelistEnabled, Body: grantBody},
			{Method: "GET", Path: "/metrics", Description: "Prometheus metrics"},
		},
	})
}
