package register

import (
	"sort"

	"github.com/dep2p/go-dsn/internal/core/record"
	"github.com/dep2p/go-dsn/pkg/types"
)

// History 寄存器历史
//
// 不可变值。零值不可用，使用 NewHistory 或 Engine.Load 创建。
type History struct {
	address types.Address
	root    record.EntryHash
	hasRoot bool

	settled map[record.EntryHash]*record.Entry
	pending map[record.EntryHash]*record.Entry
	sizes   map[record.EntryHash]int
	size    int

	// 已确认条目的前沿，按哈希升序
	frontier []record.EntryHash
}

// NewHistory 创建空历史
func NewHistory(addr types.Address) *History {
	return &History{
		address: addr,
		settled: make(map[record.EntryHash]*record.Entry),
		pending: make(map[record.EntryHash]*record.Entry),
		sizes:   make(map[record.EntryHash]int),
	}
}

func (h *History) clone() *History {
	c := &History{
		address: h.address,
		root:    h.root,
		hasRoot: h.hasRoot,
		settled: make(map[record.EntryHash]*record.Entry, len(h.settled)+1),
		pending: make(map[record.EntryHash]*record.Entry, len(h.pending)+1),
		sizes:   make(map[record.EntryHash]int, len(h.sizes)+1),
		size:    h.size,
	}
	for k, v := range h.settled {
		c.settled[k] = v
	}
	for k, v := range h.pending {
		c.pending[k] = v
	}
	for k, v := range h.sizes {
		c.sizes[k] = v
	}
	return c
}

// Address 返回寄存器地址
func (h *History) Address() types.Address {
	return h.address
}

// Root 返回根条目哈希；历史尚无已确认条目时返回 false
func (h *History) Root() (record.EntryHash, bool) {
	return h.root, h.hasRoot
}

// Len 返回已确认条目数
func (h *History) Len() int {
	return len(h.settled)
}

// PendingLen 返回待定条目数
func (h *History) PendingLen() int {
	return len(h.pending)
}

// Size 返回所有条目（含待定）编码后的总字节数
func (h *History) Size() int {
	return h.size
}

// IsEmpty 是否没有已确认条目
func (h *History) IsEmpty() bool {
	return len(h.settled) == 0
}

// Get 按哈希查找已确认条目
func (h *History) Get(hash record.EntryHash) (*record.Entry, bool) {
	e, ok := h.settled[hash]
	return e, ok
}

// Contains 条目是否已确认
func (h *History) Contains(hash record.EntryHash) bool {
	_, ok := h.settled[hash]
	return ok
}

// IsPending 条目是否在待定集合中
func (h *History) IsPending(hash record.EntryHash) bool {
	_, ok := h.pending[hash]
	return ok
}

// Entries 返回已确认条目，按哈希升序
func (h *History) Entries() []*record.Entry {
	return sortedEntries(h.settled)
}

// Pending 返回待定条目，按哈希升序
func (h *History) Pending() []*record.Entry {
	return sortedEntries(h.pending)
}

// Frontier 返回前沿条目（没有已确认子条目的条目），按哈希升序
func (h *History) Frontier() []*record.Entry {
	out := make([]*record.Entry, len(h.frontier))
	for i, hash := range h.frontier {
		out[i] = h.settled[hash]
	}
	return out
}

// FrontierHashes 返回前沿条目哈希，按哈希升序
//
// 新条目通常以前沿作为父条目，合并所有分支。
func (h *History) FrontierHashes() []record.EntryHash {
	return append([]record.EntryHash(nil), h.frontier...)
}

// IsForked 前沿是否多于一个条目
func (h *History) IsForked() bool {
	return len(h.frontier) > 1
}

// Ordered 返回已确认条目的拓扑序（父条目在前，同层按哈希升序）
func (h *History) Ordered() []*record.Entry {
	indegree := make(map[record.EntryHash]int, len(h.settled))
	children := make(map[record.EntryHash][]record.EntryHash, len(h.settled))
	for hash, e := range h.settled {
		indegree[hash] = len(e.Parents)
		for _, p := range e.Parents {
			children[p] = append(children[p], hash)
		}
	}

	var ready []record.EntryHash
	for hash, d := range indegree {
		if d == 0 {
			ready = append(ready, hash)
		}
	}

	out := make([]*record.Entry, 0, len(h.settled))
	for len(ready) > 0 {
		sortHashes(ready)
		next := ready[0]
		ready = ready[1:]
		out = append(out, h.settled[next])
		for _, c := range children[next] {
			indegree[c]--
			if indegree[c] == 0 {
				ready = append(ready, c)
			}
		}
	}
	return out
}

// MarshalBinary 返回已确认条目的规范历史编码
//
// 待定条目不参与编码。
func (h *History) MarshalBinary() ([]byte, error) {
	return record.EncodeHistory(h.Entries())
}

// Record 返回承载已确认条目的寄存器记录
func (h *History) Record() (record.Record, error) {
	return record.NewRegister(h.address, h.Entries())
}

// recomputeFrontier 重新计算前沿
func (h *History) recomputeFrontier() {
	referenced := make(map[record.EntryHash]struct{}, len(h.settled))
	for _, e := range h.settled {
		for _, p := range e.Parents {
			referenced[p] = struct{}{}
		}
	}
	h.frontier = h.frontier[:0:0]
	for hash := range h.settled {
		if _, ok := referenced[hash]; !ok {
			h.frontier = append(h.frontier, hash)
		}
	}
	sortHashes(h.frontier)
}

// parentsSettled 条目的所有父条目是否都已确认
func (h *History) parentsSettled(e *record.Entry) bool {
	for _, p := range e.Parents {
		if _, ok := h.settled[p]; !ok {
			return false
		}
	}
	return true
}

// promote 级联提升父条目已全部确认的待定条目，返回被提升的哈希（按提升顺序）
func (h *History) promote() []record.EntryHash {
	var promoted []record.EntryHash
	for {
		var ready []record.EntryHash
		for hash, e := range h.pending {
			if h.parentsSettled(e) {
				ready = append(ready, hash)
			}
		}
		if len(ready) == 0 {
			return promoted
		}
		sortHashes(ready)
		for _, hash := range ready {
			h.settled[hash] = h.pending[hash]
			delete(h.pending, hash)
		}
		promoted = append(promoted, ready...)
	}
}

func sortedEntries(m map[record.EntryHash]*record.Entry) []*record.Entry {
	hashes := make([]record.EntryHash, 0, len(m))
	for hash := range m {
		hashes = append(hashes, hash)
	}
	sortHashes(hashes)
	out := make([]*record.Entry, len(hashes))
	for i, hash := range hashes {
		out[i] = m[hash]
	}
	return out
}

func sortHashes(hashes []record.EntryHash) {
	sort.Slice(hashes, func(i, j int) bool { return hashes[i].Compare(hashes[j]) < 0 })
}

// LowestHash 从前沿中确定性地选出哈希最小的条目
//
// 只是辅助函数，分叉时如何选择由调用方决定。前沿为空时返回 nil。
func LowestHash(frontier []*record.Entry) *record.Entry {
	var best *record.Entry
	var bestHash record.EntryHash
	for _, e := range frontier {
		hash := e.Hash()
		if best == nil || hash.Compare(bestHash) < 0 {
			best, bestHash = e, hash
		}
	}
	return best
}
