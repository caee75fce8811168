package handler

import (
	"strings"

	"grant-core/internal/handler/request"
	"grant-core/internal/handler/response"
	"grant-core/internal/service"
	"grant-core/internal/service/ledger"
	"grant-core/pkg/errno"
	"grant-core/pkg/validator"

	"github.com/gin-gonic/gin"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

type GrantHandler struct {
	svc    *service.GrantService
	ledger *ledger.Ledger
}

func NewGrantHandler(svc *service.GrantService, l *ledger.Ledger) *GrantHandler {
	return &GrantHandler{svc: svc, ledger: l}
}

// CreateGrant 创建 grant
// @Summary 创建 grant
// @Description 校验转入金库的资金交易，扣除手续费后把净额转给 recipient。mock=true 时跳过链上校验和出账
// @Tags Grant
// @Accept json
// @Produce json
// @Param mock query bool false "模拟模式"
// @Param request body request.CreateGrantRequest true "Grant Request"
// @Success 201 {object} response.Response{data=response.CreateGrantResponse}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 500 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /grants [post]
func (h *GrantHandler) CreateGrant(c *gin.Context) {
	var q request.CreateGrantQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, errno.ErrBind.WithMessage("mock must be a boolean"))
		return
	}

	mode := service.ModeLive
	if q.Mock {
		mode = service.ModeSimulated
	}
	h.create(c, mode)
}

// E2E 手动联调用，与 POST /grants 相同但总是走真实模式
// @Summary 端到端测试
// @Description 与 POST /grants 相同的逻辑，强制真实模式 (链上校验 + 出账)
// @Tags Grant
// @Accept json
// @Produce json
// @Param request body request.CreateGrantRequest true "Grant Request"
// @Success 201 {object} response.Response{data=response.CreateGrantResponse}
// @Failure 400 {object} response.Response
// @Router /test/e2e [post]
func (h *GrantHandler) E2E(c *gin.Context) {
	h.create(c, service.ModeLive)
}

func (h *GrantHandler) create(c *gin.Context, mode service.Mode) {
	// 1. 绑定参数
	var req request.CreateGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	// 2. 调用 Service
	res, err := h.svc.CreateGrant(c.Request.Context(), service.CreateGrantInput{
		Recipient:     req.Recipient,
		Amount:        req.Amount,
		Reason:        req.Reason,
		FundingTxHash: req.TxHash,
		Grantor:       req.Grantor,
	}, mode)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, response.CreateGrantResponse{
		Grant:       response.NewGrantView(res.Grant),
		BasescanURL: res.ExplorerURL,
	})
}

// ListGrants 查询 grant 列表
// @Summary 查询 grant 列表
// @Description 按创建时间倒序，recipient / grantor 精确匹配 (大小写不敏感)
// @Tags Grant
// @Produce json
// @Param recipient query string false "Recipient 地址"
// @Param grantor query string false "Grantor 地址"
// @Param limit query int false "返回条数 (默认 50，最大 500)"
// @Success 200 {object} response.Response{data=response.ListGrantsResponse}
// @Failure 400 {object} response.Response
// @Router /grants [get]
func (h *GrantHandler) ListGrants(c *gin.Context) {
	var q request.ListGrantsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, errno.ErrBind.WithMessage("limit must be a positive integer"))
		return
	}

	limit := q.Limit
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	grants, total := h.ledger.List(ledger.Filter{
		Recipient: strings.TrimSpace(q.Recipient),
		Grantor:   strings.TrimSpace(q.Grantor),
		Limit:     limit,
	})
	response.Success(c, response.ListGrantsResponse{
		Grants: response.NewGrantViews(grants),
		Total:  total,
	})
}

// GetGrant 查询单个 grant
// @Summary 查询单个 grant
// @Tags Grant
// @Produce json
// @Param id path string true "Grant ID"
// @Success 200 {object} response.Response{data=response.GrantView}
// @Failure 404 {object} response.Response
// @Router /grants/{id} [get]
func (h *GrantHandler) GetGrant(c *gin.Context) {
	g, ok := h.ledger.Get(c.Param("id"))
	if !ok {
		response.Error(c, errno.ErrGrantNotFound)
		return
	}
	response.Success(c, response.NewGrantView(g))
}
