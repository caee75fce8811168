package handler

import (
	"grant-core/internal/handler/response"
	"grant-core/internal/service"
	"grant-core/internal/service/ledger"
	"grant-core/pkg/amount"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	svc    *service.GrantService
	ledger *ledger.Ledger
}

func NewStatsHandler(svc *service.GrantService, l *ledger.Ledger) *StatsHandler {
	return &StatsHandler{svc: svc, ledger: l}
}

// Stats 全局汇总
// @Summary 全局统计
// @Tags Stats
// @Produce json
// @Success 200 {object} response.Response{data=response.StatsResponse}
// @Router /stats [get]
func (h *StatsHandler) Stats(c *gin.Context) {
	t := h.ledger.Totals()
	response.Success(c, response.StatsResponse{
		Totals:                t,
		TotalGrantedFormatted: amount.FormatDecimal(t.TotalGranted),
		TotalFeesFormatted:    amount.FormatDecimal(t.TotalFees),
		FeePercent:            h.svc.FeePercent(),
	})
}
