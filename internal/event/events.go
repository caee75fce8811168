package event

import (
	"time"

	"grant-core/internal/model"
)

// GrantCompletedEvent grant 落账后发布到 MQ 的消息体
type GrantCompletedEvent struct {
	GrantID            string    `json:"grant_id"`
	Recipient          string    `json:"recipient"`
	Grantor            string    `json:"grantor"`
	GrossAmount        string    `json:"gross_amount"` // wei
	Fee                string    `json:"fee"`
	NetAmount          string    `json:"net_amount"`
	FundingTxHash      string    `json:"funding_tx_hash"`
	DistributionTxHash string    `json:"distribution_tx_hash"`
	Mock               bool      `json:"mock"`
	CreatedAt          time.Time `json:"created_at"`
}

func FromGrant(g model.Grant) GrantCompletedEvent {
	return GrantCompletedEvent{
		GrantID:            g.ID,
		Recipient:          g.Recipient,
		Grantor:            g.Grantor,
		GrossAmount:        g.GrossAmount.String(),
		Fee:                g.Fee.String(),
		NetAmount:          g.NetAmount.String(),
		FundingTxHash:      g.FundingTxHash,
		DistributionTxHash: g.DistributionTxHash,
		Mock:               g.Mock,
		CreatedAt:          g.CreatedAt,
	}
}
