package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	GrantStatusCompleted = "completed"
)

// Grant 一笔已完成 (或模拟) 的 grant 记录，写入后不可变
// 金额字段均为 wei 的整数化 decimal: Fee + NetAmount == GrossAmount
type Grant struct {
	ID                 string          `json:"id"`
	Recipient          string          `json:"recipient"`
	Grantor            string          `json:"grantor"`
	Reason             string          `json:"reason"`
	GrossAmount        decimal.Decimal `json:"grossAmount"`
	Fee                decimal.Decimal `json:"fee"`
	NetAmount          decimal.Decimal `json:"netAmount"`
	FundingTxHash      string          `json:"fundingTxHash"`
	DistributionTxHash string          `json:"distributionTxHash"`
	Status             string          `json:"status"`
	Mock               bool            `json:"mock"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// GrantorStats 按 grantor 地址聚合，只增不减
type GrantorStats struct {
	Address     string          `json:"address"`
	TotalGrants int64           `json:"totalGrants"`
	TotalAmount decimal.Decimal `json:"totalAmount"` // Σ GrossAmount
}

// Totals 全量扫描得到的汇总数据
type Totals struct {
	TotalGrants      int             `json:"totalGrants"`
	TotalGranted     decimal.Decimal `json:"totalGranted"` // Σ NetAmount
	TotalFees        decimal.Decimal `json:"totalFees"`    // Σ Fee
	UniqueRecipients int             `json:"uniqueRecipients"`
	UniqueGrantors   int             `json:"uniqueGrantors"`
}
