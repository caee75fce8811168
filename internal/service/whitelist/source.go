package whitelist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Source 白名单数据源
type Source interface {
	Fetch(ctx context.Context) ([]string, error)
}

// entryAddressFields 对象形式条目里依次尝试的地址字段
var entryAddressFields = []string{"address", "wallet", "walletAddress"}

// HTTPSource GET <url>，响应为 JSON 数组
// 数组元素可以是地址字符串，也可以是带 address / wallet / walletAddress 字段的对象
type HTTPSource struct {
	url    string
	client *http.Client
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求白名单失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("白名单服务返回状态码 %d", resp.StatusCode)
	}

	var entries []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("解析白名单失败: %w", err)
	}
	return parseEntries(entries), nil
}

// parseEntries 无法识别的条目直接跳过
func parseEntries(entries []json.RawMessage) []string {
	out := make([]string, 0, len(entries))
	for _, raw := range entries {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
			continue
		}

		var obj map[string]interface{}
		if err := json.Unmarshal(raw, &obj); err != nil {
			continue
		}
		for _, field := range entryAddressFields {
			if v, ok := obj[field].(string); ok && strings.TrimSpace(v) != "" {
				out = append(out, strings.TrimSpace(v))
				break
			}
		}
	}
	return out
}
