package handler

import (
	"grant-core/internal/handler/response"
	"grant-core/internal/service"
	"grant-core/internal/service/ledger"
	"grant-core/pkg/amount"
	"grant-core/pkg/errno"

	"github.com/gin-gonic/gin"
)

type GrantorHandler struct {
	svc         *service.GrantService
	ledger      *ledger.Ledger
	recentLimit int
}

func NewGrantorHandler(svc *service.GrantService, l *ledger.Ledger, recentLimit int) *GrantorHandler {
	if recentLimit <= 0 {
		recentLimit = 10
	}
	return &GrantorHandler{svc: svc, ledger: l, recentLimit: recentLimit}
}

// GetGrantor grantor 聚合统计
// @Summary 查询 grantor 统计
// @Description 未出现过的合法地址返回零值统计
// @Tags Grantor
// @Produce json
// @Param address path string true "Grantor 地址"
// @Success 200 {object} response.Response{data=response.GrantorResponse}
// @Failure 404 {object} response.Response
// @Router /grantors/{address} [get]
func (h *GrantorHandler) GetGrantor(c *gin.Context) {
	addr := c.Param("address")
	if !h.svc.IsValidAddress(addr) {
		response.Error(c, errno.ErrNotFound.WithMessage("Invalid grantor address"))
		return
	}

	stats, recent := h.ledger.GrantorStats(addr, h.recentLimit)
	response.Success(c, response.GrantorResponse{
		Address:              stats.Address,
		TotalGrants:          stats.TotalGrants,
		TotalAmount:          stats.TotalAmount.String(),
		TotalAmountFormatted: amount.FormatDecimal(stats.TotalAmount),
		RecentGrants:         response.NewGrantViews(recent),
	})
}
