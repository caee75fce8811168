// Package ledger 进程内的 grant 账本: grant 记录 + grantor 聚合统计
package ledger

import (
	"sort"
	"strings"
	"sync"

	"grant-core/internal/model"
	"grant-core/pkg/errno"

	"github.com/shopspring/decimal"
)

// Filter 列表查询条件，地址按小写精确匹配；Limit <= 0 表示不截断
type Filter struct {
	Recipient string
	Grantor   string
	Limit     int
}

// Ledger 账本，所有方法并发安全
// 记录写入后不可变，也不会被删除
type Ledger struct {
	mu sync.RWMutex

	records   []model.Grant  // 按写入顺序
	byID      map[string]int // id -> records 下标
	byFunding map[string]int // 小写 fundingTxHash -> records 下标

	grantors map[string]*model.GrantorStats
}

func New() *Ledger {
	return &Ledger{
		byID:      make(map[string]int),
		byFunding: make(map[string]int),
		grantors:  make(map[string]*model.GrantorStats),
	}
}

func fundingKey(hash string) string {
	return strings.ToLower(strings.TrimSpace(hash))
}

// FindByFundingTx 按资金交易哈希查找 (大小写不敏感)
func (l *Ledger) FindByFundingTx(hash string) (model.Grant, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	idx, ok := l.byFunding[fundingKey(hash)]
	if !ok {
		return model.Grant{}, false
	}
	return l.records[idx], true
}

// Insert 原子地 "不存在才插入"
// 同一 fundingTxHash 已存在时返回 ErrDuplicateFunding，Detail 带上已有记录的 id
func (l *Ledger) Insert(g model.Grant) error {
	key := fundingKey(g.FundingTxHash)
	if key == "" {
		return errno.ErrMissingField.WithMessage("fundingTxHash is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if idx, ok := l.byFunding[key]; ok {
		return DuplicateError(l.records[idx].ID)
	}
	if _, ok := l.byID[g.ID]; ok {
		return errno.InternalServerError.WithMessage("grant id collision: " + g.ID)
	}

	l.records = append(l.records, g)
	idx := len(l.records) - 1
	l.byID[g.ID] = idx
	l.byFunding[key] = idx

	grantor := strings.ToLower(g.Grantor)
	stats, ok := l.grantors[grantor]
	if !ok {
		stats = &model.GrantorStats{Address: grantor, TotalAmount: decimal.Zero}
		l.grantors[grantor] = stats
	}
	stats.TotalGrants++
	stats.TotalAmount = stats.TotalAmount.Add(g.GrossAmount)
	return nil
}

// DuplicateError 重复资金交易的统一错误，携带已有 grant 的 id
func DuplicateError(existingID string) error {
	return errno.ErrDuplicateFunding.WithDetail(map[string]string{"grantId": existingID})
}

// Get 按 id 查询
func (l *Ledger) Get(id string) (model.Grant, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	idx, ok := l.byID[id]
	if !ok {
		return model.Grant{}, false
	}
	return l.records[idx], true
}

// List 按 createdAt 倒序返回匹配记录；第二个返回值是截断前的匹配总数
func (l *Ledger) List(f Filter) ([]model.Grant, int) {
	recipient := strings.ToLower(f.Recipient)
	grantor := strings.ToLower(f.Grantor)

	l.mu.RLock()
	matched := make([]model.Grant, 0, len(l.records))
	for i := len(l.records) - 1; i >= 0; i-- {
		g := l.records[i]
		if recipient != "" && strings.ToLower(g.Recipient) != recipient {
			continue
		}
		if grantor != "" && strings.ToLower(g.Grantor) != grantor {
			continue
		}
		matched = append(matched, g)
	}
	l.mu.RUnlock()

	sortNewestFirst(matched)

	total := len(matched)
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, total
}

// GrantorStats grantor 的聚合统计与最近 recentN 条记录
// 未出现过的地址返回零值统计和空列表
func (l *Ledger) GrantorStats(address string, recentN int) (model.GrantorStats, []model.Grant) {
	addr := strings.ToLower(address)

	l.mu.RLock()
	stats := model.GrantorStats{Address: addr, TotalAmount: decimal.Zero}
	if s, ok := l.grantors[addr]; ok {
		stats = *s
	}
	l.mu.RUnlock()

	recent, _ := l.List(Filter{Grantor: addr, Limit: recentN})
	return stats, recent
}

// Totals 全量扫描汇总
func (l *Ledger) Totals() model.Totals {
	l.mu.RLock()
	defer l.mu.RUnlock()

	t := model.Totals{
		TotalGrants:  len(l.records),
		TotalGranted: decimal.Zero,
		TotalFees:    decimal.Zero,
	}
	recipients := make(map[string]struct{})
	grantors := make(map[string]struct{})
	for _, g := range l.records {
		t.TotalGranted = t.TotalGranted.Add(g.NetAmount)
		t.TotalFees = t.TotalFees.Add(g.Fee)
		recipients[strings.ToLower(g.Recipient)] = struct{}{}
		grantors[strings.ToLower(g.Grantor)] = struct{}{}
	}
	t.UniqueRecipients = len(recipients)
	t.UniqueGrantors = len(grantors)
	return t
}

// sortNewestFirst 输入已是 "后写入在前"，稳定排序保证同一时间戳下仍是后写入的在前
func sortNewestFirst(gs []model.Grant) {
	sort.SliceStable(gs, func(i, j int) bool {
		return gs[i].CreatedAt.After(gs[j].CreatedAt)
	})
}
