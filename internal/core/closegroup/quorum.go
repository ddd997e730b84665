package closegroup

import (
	"bytes"
	"sort"

	sha256 "github.com/minio/sha256-simd"

	"github.com/dep2p/go-dsn/pkg/types"
)

// Response 单个节点的响应
type Response struct {
	// Peer 响应节点
	Peer types.Address

	// Payload 响应内容
	Payload []byte

	// Err 请求失败时非空
	Err error
}

// OK 是否为成功响应
func (r Response) OK() bool {
	return r.Err == nil
}

// IsQuorumReached 判断是否有至少 q 个不同节点成功响应
func IsQuorumReached(responses []Response, q int) bool {
	seen := make(map[types.Name]struct{}, len(responses))
	for _, r := range responses {
		if r.OK() {
			seen[r.Peer.Name()] = struct{}{}
		}
	}
	return len(seen) >= q
}

// MatchingQuorum 返回至少 q 个不同节点一致的响应内容
//
// 每个节点只计入它的第一个成功响应。多个内容都达到法定人数时，
// 取支持者最多的，支持者相同则取摘要较小的。
// 未达到时返回 *types.QuorumError（匹配 ErrQuorumUnreached）。
func MatchingQuorum(responses []Response, q int) ([]byte, error) {
	type group struct {
		digest  [32]byte
		payload []byte
		peers   int
	}

	counted := make(map[types.Name]struct{}, len(responses))
	groups := make(map[[32]byte]*group)
	for _, r := range responses {
		if !r.OK() {
			continue
		}
		name := r.Peer.Name()
		if _, ok := counted[name]; ok {
			continue
		}
		counted[name] = struct{}{}

		d := sha256.Sum256(r.Payload)
		g, ok := groups[d]
		if !ok {
			g = &group{digest: d, payload: r.Payload}
			groups[d] = g
		}
		g.peers++
	}

	ranked := make([]*group, 0, len(groups))
	for _, g := range groups {
		ranked = append(ranked, g)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].peers != ranked[j].peers {
			return ranked[i].peers > ranked[j].peers
		}
		return bytes.Compare(ranked[i].digest[:], ranked[j].digest[:]) < 0
	})

	best := 0
	if len(ranked) > 0 {
		best = ranked[0].peers
	}
	if q <= 0 || best < q {
		return nil, &types.QuorumError{Required: q, Matching: best}
	}
	return ranked[0].payload, nil
}
