package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"grant-core/internal/handler/response"
	"grant-core/pkg/errno"

	"github.com/gin-gonic/gin"
)

// FallbackAddressFields primaryField 之后依次尝试的请求体字段
var FallbackAddressFields = []string{"grantor", "address", "wallet", "walletAddress", "from"}

// maxBodyBytes 写接口请求体上限，超出直接返回 413
const maxBodyBytes = 1 << 20

// Checker 白名单判定，由 whitelist.Gate 实现
type Checker interface {
	IsAllowed(ctx context.Context, address string) bool
}

// AddressFields 返回去重后的字段顺序: primaryField 优先，其余按固定顺序
func AddressFields(primaryField string) []string {
	fields := make([]string, 0, len(FallbackAddressFields)+1)
	if primaryField != "" {
		fields = append(fields, primaryField)
	}
	for _, f := range FallbackAddressFields {
		if f != primaryField {
			fields = append(fields, f)
		}
	}
	return fields
}

// Whitelist 从请求体中提取地址并校验白名单
// 请求体读取后会被还原，后续 handler 可以正常绑定
func Whitelist(checker Checker, primaryField string) gin.HandlerFunc {
	fields := AddressFields(primaryField)

	return func(c *gin.Context) {
		// 1. 读取并还原 body，多读一个字节用于判断是否超限
		var body []byte
		if c.Request.Body != nil {
			b, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
			if err != nil {
				response.Abort(c, errno.ErrBind)
				return
			}
			if len(b) > maxBodyBytes {
				response.Abort(c, errno.ErrBodyTooLarge)
				return
			}
			body = b
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		// 2. 按字段顺序取第一个非空地址
		address := extractAddress(body, fields)
		if address == "" {
			response.Abort(c, errno.ErrMissingAddress)
			return
		}

		// 3. 白名单判定
		if !checker.IsAllowed(c.Request.Context(), address) {
			response.Abort(c, errno.ErrForbidden)
			return
		}

		c.Set("whitelist_address", strings.ToLower(address))
		c.Next()
	}
}

func extractAddress(body []byte, fields []string) string {
	if len(body) == 0 {
		return ""
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, f := range fields {
		if v, ok := payload[f].(string); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}
