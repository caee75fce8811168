package response

import (
	"grant-core/internal/model"
	"grant-core/pkg/amount"
)

// GrantView 在原始记录 (wei) 之外附带格式化后的金额
type GrantView struct {
	model.Grant
	GrossAmountFormatted string `json:"grossAmountFormatted"`
	FeeFormatted         string `json:"feeFormatted"`
	NetAmountFormatted   string `json:"netAmountFormatted"`
}

func NewGrantView(g model.Grant) GrantView {
	return GrantView{
		Grant:                g,
		GrossAmountFormatted: amount.FormatDecimal(g.GrossAmount),
		FeeFormatted:         amount.FormatDecimal(g.Fee),
		NetAmountFormatted:   amount.FormatDecimal(g.NetAmount),
	}
}

func NewGrantViews(gs []model.Grant) []GrantView {
	out := make([]GrantView, 0, len(gs))
	for _, g := range gs {
		out = append(out, NewGrantView(g))
	}
	return out
}

// CreateGrantResponse POST /grants 的 data
type CreateGrantResponse struct {
	Grant       GrantView `json:"grant"`
	BasescanURL string    `json:"basescanUrl"`
}

type ListGrantsResponse struct {
	Grants []GrantView `json:"grants"`
	Total  int         `json:"total"`
}

type GrantorResponse struct {
	Address              string      `json:"address"`
	TotalGrants          int64       `json:"totalGrants"`
	TotalAmount          string      `json:"totalAmount"` // wei
	TotalAmountFormatted string      `json:"totalAmountFormatted"`
	RecentGrants         []GrantView `json:"recentGrants"`
}

type StatsResponse struct {
	model.Totals
	TotalGrantedFormatted string `json:"totalGrantedFormatted"`
	TotalFeesFormatted    string `json:"totalFeesFormatted"`
	FeePercent            int64  `json:"feePercent"`
}

type HealthResponse struct {
	Status           string `json:"status"`
	SigningEnabled   bool   `json:"signingEnabled"`
	Treasury         string `json:"treasury"`
	WhitelistEnabled bool   `json:"whitelistEnabled"`
	FeePercent       int64  `json:"feePercent"`
	Mode             string `json:"mode"`
}
