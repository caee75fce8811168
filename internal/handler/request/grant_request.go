package request

// CreateGrantRequest POST /grants
// recipient / txHash 的必填校验在 service 层完成，以便返回统一的业务错误码
type CreateGrantRequest struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"` // 仅模拟模式，例如 "0.01" 或 "0.01 ETH"
	Reason    string `json:"reason" binding:"max=280"`
	TxHash    string `json:"txHash"`
	Grantor   string `json:"grantor"`
}

type CreateGrantQuery struct {
	Mock bool `form:"mock"`
}

type ListGrantsQuery struct {
	Recipient string `form:"recipient"`
	Grantor   string `form:"grantor"`
	Limit     int    `form:"limit" binding:"omitempty,min=1"`
}
