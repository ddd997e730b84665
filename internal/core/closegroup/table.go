package closegroup

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-dsn/pkg/types"
)

// ============================================================================
//                              常量定义
// ============================================================================

const (
	// BucketCount 桶数量（名字位数）
	BucketCount = types.NameSize * 8

	// DefaultBucketSize 默认 K 桶大小
	DefaultBucketSize = 20

	// PeerExpireTime 节点过期时间
	PeerExpireTime = 24 * time.Hour
)

// ============================================================================
//                              节点条目
// ============================================================================

// PeerEntry 节点表条目
type PeerEntry struct {
	// Address 节点地址（Peer 变体）
	Address types.Address

	// LastSeen 最后一次见到的时间
	LastSeen time.Time

	// FailCount 连续失败次数
	FailCount int
}

// ============================================================================
//                              K 桶
// ============================================================================

// bucket K 桶，最近活跃的在前
//
// 由 PeerTable 的锁保护。
type bucket struct {
	peers       []*PeerEntry
	replacement []*PeerEntry
}

func indexOf(list []*PeerEntry, name types.Name) int {
	for i, p := range list {
		if p.Address.Name() == name {
			return i
		}
	}
	return -1
}

func moveToFront(list []*PeerEntry, i int, p *PeerEntry) []*PeerEntry {
	list = append(list[:i], list[i+1:]...)
	return append([]*PeerEntry{p}, list...)
}

func (b *bucket) add(p *PeerEntry, size int) bool {
	name := p.Address.Name()
	if i := indexOf(b.peers, name); i >= 0 {
		b.peers = moveToFront(b.peers, i, p)
		return true
	}
	if len(b.peers) < size {
		b.peers = append([]*PeerEntry{p}, b.peers...)
		return true
	}

	// 桶已满，放入替换缓存
	if i := indexOf(b.replacement, name); i >= 0 {
		b.replacement = moveToFront(b.replacement, i, p)
		return false
	}
	b.replacement = append([]*PeerEntry{p}, b.replacement...)
	if len(b.replacement) > size {
		b.replacement = b.replacement[:size]
	}
	return false
}

func (b *bucket) remove(name types.Name) bool {
	if i := indexOf(b.peers, name); i >= 0 {
		b.peers = append(b.peers[:i], b.peers[i+1:]...)
		// 从替换缓存中提升一个节点
		if len(b.replacement) > 0 {
			b.peers = append(b.peers, b.replacement[0])
			b.replacement = b.replacement[1:]
		}
		return true
	}
	if i := indexOf(b.replacement, name); i >= 0 {
		b.replacement = append(b.replacement[:i], b.replacement[i+1:]...)
		return true
	}
	return false
}

// ============================================================================
//                              节点表
// ============================================================================

// PeerTable 已知节点表
//
// 按与本地节点名字的共同前缀长度分桶。并发安全。
type PeerTable struct {
	local      types.Name
	bucketSize int
	clock      clock.Clock

	mu      sync.RWMutex
	buckets [BucketCount]bucket
}

// NewPeerTable 创建节点表
//
// bucketSize 不大于 0 时使用 DefaultBucketSize；clk 为 nil 时使用系统时钟。
func NewPeerTable(local types.Name, bucketSize int, clk clock.Clock) *PeerTable {
	if bucketSize <= 0 {
		bucketSize = DefaultBucketSize
	}
	if clk == nil {
		clk = clock.New()
	}
	return &PeerTable{local: local, bucketSize: bucketSize, clock: clk}
}

func (t *PeerTable) bucketIndex(name types.Name) int {
	idx := types.XORDistance(t.local, name).LeadingZeros()
	if idx >= BucketCount {
		idx = BucketCount - 1
	}
	return idx
}

// Add 添加或刷新节点
//
// 本地节点和非 Peer 地址不会被加入。桶满时节点进入替换缓存并返回 false。
func (t *PeerTable) Add(addr types.Address) bool {
	name := addr.Name()
	if addr.Kind() != types.AddressPeer || name == t.local {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	entry := &PeerEntry{Address: addr, LastSeen: t.clock.Now()}
	return t.buckets[t.bucketIndex(name)].add(entry, t.bucketSize)
}

// Remove 移除节点
func (t *PeerTable) Remove(name types.Name) bool {
	if name == t.local {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buckets[t.bucketIndex(name)].remove(name)
}

// Get 获取节点条目
func (t *PeerTable) Get(name types.Name) (PeerEntry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	b := &t.buckets[t.bucketIndex(name)]
	if i := indexOf(b.peers, name); i >= 0 {
		return *b.peers[i], true
	}
	return PeerEntry{}, false
}

// MarkFailed 记录一次请求失败
//
// 连续失败次数达到 maxFails 时移除节点，返回是否被移除。
func (t *PeerTable) MarkFailed(name types.Name, maxFails int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	b := &t.buckets[t.bucketIndex(name)]
	i := indexOf(b.peers, name)
	if i < 0 {
		return false
	}
	updated := *b.peers[i]
	updated.FailCount++
	b.peers[i] = &updated
	if maxFails > 0 && updated.FailCount >= maxFails {
		return b.remove(name)
	}
	return false
}

// Size 返回节点总数（不含替换缓存）
func (t *PeerTable) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	total := 0
	for i := range t.buckets {
		total += len(t.buckets[i].peers)
	}
	return total
}

// All 返回所有节点地址
func (t *PeerTable) All() []types.Address {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []types.Address
	for i := range t.buckets {
		for _, p := range t.buckets[i].peers {
			out = append(out, p.Address)
		}
	}
	return out
}

// Nearest 返回距离目标最近的 k 个已知节点组成的副本组
//
// local 非 nil 时本地节点也参与选择，用于判断本节点是否属于副本组。
func (t *PeerTable) Nearest(target types.Name, k int, local *types.Address) CloseGroup {
	known := t.All()
	if local != nil {
		known = append(known, *local)
	}
	return Select(target, known, k)
}

// RemoveExpired 移除超过 PeerExpireTime 未见到的节点
func (t *PeerTable) RemoveExpired() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	count := 0
	for i := range t.buckets {
		b := &t.buckets[i]
		for _, p := range append([]*PeerEntry(nil), b.peers...) {
			if now.Sub(p.LastSeen) > PeerExpireTime && b.remove(p.Address.Name()) {
				count++
			}
		}
	}
	return count
}
