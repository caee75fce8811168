// Package amount 在人类可读的 ETH 金额与链上最小单位 (wei) 之间转换。
// 所有金额运算使用整数 (big.Int / 整数化的 decimal.Decimal)，不使用浮点数。
package amount

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"grant-core/pkg/errno"

	"github.com/shopspring/decimal"
)

const (
	// Unit 金额单位标签
	Unit = "ETH"
	// Decimals 1 ETH = 10^18 wei
	Decimals = 18
	// DisplayPrecision 展示精度 (小数位)
	DisplayPrecision = 6
	// maxInputLen uint256 上限 78 位整数 + 小数点 + 18 位小数，留少量余量给前导零
	maxInputLen = 128
)

// plainDecimal 只接受 "123"、"1.5"、".5"，不接受指数写法和符号
var plainDecimal = regexp.MustCompile(`^([0-9]+(\.[0-9]*)?|\.[0-9]+)$`)

// MaxWei 链上金额上限 (uint256)
var MaxWei = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Format 将 wei 渲染为 6 位小数的 ETH 字符串，例如 "0.010000 ETH"
// 超出展示精度的部分按四舍五入处理
func Format(wei *big.Int) string {
	if wei == nil {
		wei = new(big.Int)
	}
	return FormatDecimal(decimal.NewFromBigInt(wei, 0))
}

// FormatDecimal 与 Format 相同，入参为整数化的 decimal (模型中的金额字段)
func FormatDecimal(wei decimal.Decimal) string {
	return wei.Shift(-Decimals).StringFixed(DisplayPrecision) + " " + Unit
}

// Parse 是 Format 的逆操作: 去掉空白和可选的 "ETH" 后缀，转换为 wei
// 只接受普通十进制写法，结果不能超过 uint256
func Parse(s string) (*big.Int, error) {
	raw := strings.TrimSpace(s)
	if len(raw) >= len(Unit) && strings.EqualFold(raw[len(raw)-len(Unit):], Unit) {
		raw = strings.TrimSpace(raw[:len(raw)-len(Unit)])
	}
	if raw == "" {
		return nil, errno.ErrInvalidAmount.WithMessage("amount is empty")
	}
	if strings.HasPrefix(raw, "-") {
		return nil, errno.ErrInvalidAmount.WithMessage(fmt.Sprintf("amount %q is negative", s))
	}
	// 先校验格式和长度，再交给 decimal，避免 "1e1000000000" 这类输入展开成巨大整数
	if len(raw) > maxInputLen || !plainDecimal.MatchString(raw) {
		return nil, errno.ErrInvalidAmount.WithMessage(fmt.Sprintf("invalid amount %q", truncate(s)))
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errno.ErrInvalidAmount.WithMessage(fmt.Sprintf("invalid amount %q", s))
	}

	wei := d.Shift(Decimals)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, errno.ErrInvalidAmount.WithMessage(fmt.Sprintf("amount %q has more than %d decimals", s, Decimals))
	}
	v := wei.BigInt()
	if v.Cmp(MaxWei) > 0 {
		return nil, errno.ErrInvalidAmount.WithMessage(fmt.Sprintf("amount %q exceeds uint256", truncate(s)))
	}
	return v, nil
}

func truncate(s string) string {
	if len(s) > 32 {
		return s[:32] + "..."
	}
	return s
}

// MustParse 用于常量和测试，解析失败直接 panic
func MustParse(s string) *big.Int {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// ToDecimal 将 wei 转为整数化 decimal，用于模型存储和 JSON 输出
func ToDecimal(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, 0)
}

// ToEther 将 wei 转为 float64 ETH，仅用于监控指标等非记账场景
func ToEther(wei decimal.Decimal) float64 {
	f, _ := wei.Shift(-Decimals).Float64()
	return f
}
