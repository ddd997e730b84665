package closegroup

import (
	"errors"
	"sort"

	"github.com/dep2p/go-dsn/config"
	"github.com/dep2p/go-dsn/pkg/types"
)

// CloseGroup 副本组
//
// 按需计算，不持久化。
type CloseGroup struct {
	// Target 目标名字
	Target types.Name

	// Peers 最近的节点，按到目标的距离严格升序，最多 K 个
	Peers []types.Address

	// Quorum 法定人数
	Quorum int
}

// MajorityQuorum 返回 K 的多数派 ⌊K/2⌋+1
func MajorityQuorum(k int) int {
	return k/2 + 1
}

// Select 选择距离目标最近的 k 个节点
//
// 按名字去重后排序；结果长度为 min(k, 去重后节点数)。
// 法定人数默认取 MajorityQuorum(k)。
func Select(target types.Name, known []types.Address, k int) CloseGroup {
	g := CloseGroup{Target: target, Quorum: MajorityQuorum(k)}
	if k <= 0 || len(known) == 0 {
		return g
	}

	seen := make(map[types.Name]struct{}, len(known))
	candidates := make([]types.Address, 0, len(known))
	for _, addr := range known {
		name := addr.Name()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		candidates = append(candidates, addr)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return types.Closer(target, candidates[i].Name(), candidates[j].Name()) < 0
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	g.Peers = candidates
	return g
}

// WithQuorum 返回使用指定法定人数的副本组
func (g CloseGroup) WithQuorum(q int) CloseGroup {
	g.Quorum = q
	return g
}

// Len 返回副本组大小
func (g CloseGroup) Len() int {
	return len(g.Peers)
}

// Contains 节点是否属于副本组
func (g CloseGroup) Contains(name types.Name) bool {
	for _, p := range g.Peers {
		if p.Name() == name {
			return true
		}
	}
	return false
}

// IsQuorumReached 判断响应是否达到本组的法定人数
//
// 只统计属于本组的节点。
func (g CloseGroup) IsQuorumReached(responses []Response) bool {
	return IsQuorumReached(g.members(responses), g.Quorum)
}

// MatchingQuorum 返回本组中至少 Quorum 个节点一致的响应
func (g CloseGroup) MatchingQuorum(responses []Response) ([]byte, error) {
	value, err := MatchingQuorum(g.members(responses), g.Quorum)
	var qerr *types.QuorumError
	if errors.As(err, &qerr) {
		qerr.Target = g.Target
	}
	return value, err
}

func (g CloseGroup) members(responses []Response) []Response {
	out := make([]Response, 0, len(responses))
	for _, r := range responses {
		if g.Contains(r.Peer.Name()) {
			out = append(out, r)
		}
	}
	return out
}

// Selector 按网络配置选择副本组
type Selector struct {
	k int
	q int
}

// NewSelector 创建选择器
func NewSelector(cfg config.NetworkConfig) *Selector {
	return &Selector{k: cfg.CloseGroupSize, q: cfg.EffectiveQuorum()}
}

// K 返回副本组大小
func (s *Selector) K() int {
	return s.k
}

// Quorum 返回法定人数
func (s *Selector) Quorum() int {
	return s.q
}

// Select 选择副本组并设置配置的法定人数
func (s *Selector) Select(target types.Name, known []types.Address) CloseGroup {
	return Select(target, known, s.k).WithQuorum(s.q)
}
