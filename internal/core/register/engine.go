package register

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dep2p/go-dsn/config"
	"github.com/dep2p/go-dsn/internal/core/record"
	"github.com/dep2p/go-dsn/pkg/lib/log"
	"github.com/dep2p/go-dsn/pkg/types"
)

var logger = log.Logger("dsn/register")

// ErrNilHistory 历史为空指针
var ErrNilHistory = errors.New("register: nil history")

// Status Apply 的结果状态
type Status int

const (
	// StatusApplied 条目已确认
	StatusApplied Status = iota + 1
	// StatusPending 父条目尚未全部到达，条目进入待定集合
	StatusPending
	// StatusDuplicate 条目已存在（已确认或待定），历史不变
	StatusDuplicate
)

// String 返回状态名称
func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusPending:
		return "pending"
	case StatusDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// ApplyResult Apply 的结果
type ApplyResult struct {
	// History 新的历史值；输入历史不变
	History *History

	// Status 条目处理状态
	Status Status

	// Hash 被处理条目的哈希
	Hash record.EntryHash

	// Promoted 因本次应用而从待定集合提升的条目
	Promoted []record.EntryHash
}

// Frontier 返回新历史的前沿
func (r ApplyResult) Frontier() []*record.Entry {
	return r.History.Frontier()
}

type verifiedKey struct {
	register types.Name
	hash     record.EntryHash
	sig      string
}

// Engine 寄存器引擎
//
// 持有大小上限和可选的签名验证缓存，其余状态都在 History 值中。
type Engine struct {
	maxSize int
	cache   *lru.Cache[verifiedKey, struct{}]
}

// NewEngine 创建寄存器引擎
//
// cfg.CacheSize 为 0 时不缓存签名验证结果。
func NewEngine(cfg config.RegisterConfig, limits config.LimitsConfig) (*Engine, error) {
	e := &Engine{maxSize: limits.MaxRegisterSize}
	if cfg.CacheSize > 0 {
		cache, err := lru.New[verifiedKey, struct{}](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("create verified entry cache: %w", err)
		}
		e.cache = cache
	}
	return e, nil
}

// verify 验证条目签名，命中缓存时跳过
func (eng *Engine) verify(addr types.Address, hash record.EntryHash, e *record.Entry) error {
	key := verifiedKey{register: addr.Name(), hash: hash, sig: string(e.Signature)}
	if eng.cache != nil && eng.cache.Contains(key) {
		return nil
	}
	if err := e.VerifySignature(addr.Key(), key.register); err != nil {
		return types.WrapValidation(key.register, types.ErrInvalidSignature, err)
	}
	if eng.cache != nil {
		eng.cache.Add(key, struct{}{})
	}
	return nil
}

func entrySize(e *record.Entry) (int, error) {
	b, err := e.MarshalBinary()
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

func (eng *Engine) checkSize(h *History) error {
	if eng.maxSize > 0 && h.size > eng.maxSize {
		return types.NewValidationError(h.address.Name(), types.ErrRecordTooLarge,
			"history %d bytes exceeds limit %d", h.size, eng.maxSize)
	}
	return nil
}

// Apply 将一个条目应用到历史
//
// 签名无效返回 ErrInvalidSignature；第二个根条目返回 ErrCorruptHistory；
// 父条目缺失不是错误，返回 StatusPending。
func (eng *Engine) Apply(h *History, e *record.Entry) (ApplyResult, error) {
	if h == nil {
		return ApplyResult{}, ErrNilHistory
	}
	hash := e.Hash()
	name := h.address.Name()

	if h.Contains(hash) || h.IsPending(hash) {
		logger.Debug("条目重复", "register", name.ShortString(), "entry", hash.String())
		return ApplyResult{History: h, Status: StatusDuplicate, Hash: hash}, nil
	}
	if err := eng.verify(h.address, hash, e); err != nil {
		return ApplyResult{}, err
	}
	if e.IsRoot() && h.hasRoot {
		return ApplyResult{}, types.NewMergeError("apply",
			fmt.Sprintf("second root %s for register %s", hash, name.ShortString()))
	}
	size, err := entrySize(e)
	if err != nil {
		return ApplyResult{}, types.NewValidationError(name, types.ErrMalformedPayload, "%v", err)
	}

	next := h.clone()
	next.sizes[hash] = size
	next.size += size
	if err := eng.checkSize(next); err != nil {
		return ApplyResult{}, err
	}

	result := ApplyResult{History: next, Hash: hash}
	if e.IsRoot() {
		next.root, next.hasRoot = hash, true
	}
	if next.parentsSettled(e) {
		next.settled[hash] = e
		result.Status = StatusApplied
		result.Promoted = next.promote()
	} else {
		next.pending[hash] = e
		result.Status = StatusPending
	}
	next.recomputeFrontier()

	logger.Debug("条目已应用",
		"register", name.ShortString(),
		"entry", hash.String(),
		"status", result.Status,
		"promoted", len(result.Promoted),
		"frontier", len(next.frontier))
	return result, nil
}

// ApplyAll 依次应用多个条目，返回最终历史
//
// 遇到第一个错误时停止。
func (eng *Engine) ApplyAll(h *History, entries []*record.Entry) (*History, error) {
	for _, e := range entries {
		res, err := eng.Apply(h, e)
		if err != nil {
			return nil, err
		}
		h = res.History
	}
	return h, nil
}

// Restore 把之前缓存的待定条目放回历史
//
// 条目在缓存前已经验证过；此后历史发生变化导致无法应用的条目被丢弃。
func (eng *Engine) Restore(h *History, entries []*record.Entry) *History {
	for _, e := range entries {
		res, err := eng.Apply(h, e)
		if err != nil {
			logger.Debug("丢弃待定条目", "register", h.address.Name().ShortString(), "entry", e.Hash().String(), "error", err)
			continue
		}
		h = res.History
	}
	return h
}

// Progress 比较同一寄存器的前后两个历史，给出写入的汇总状态
//
// 已确认条目增加为 Applied；否则待定条目增加为 Pending；否则为 Duplicate。
func Progress(before, after *History) Status {
	switch {
	case after.Len() > before.Len():
		return StatusApplied
	case after.PendingLen() > before.PendingLen():
		return StatusPending
	default:
		return StatusDuplicate
	}
}

// Merge 合并两个历史
//
// 满足交换律、结合律和幂等律。不同寄存器或不同根返回 ErrCorruptHistory。
func (eng *Engine) Merge(a, b *History) (*History, error) {
	if a == nil || b == nil {
		return nil, ErrNilHistory
	}
	if !a.address.Equal(b.address) {
		return nil, types.NewMergeError("merge",
			fmt.Sprintf("registers differ: %s vs %s", a.address.Name().ShortString(), b.address.Name().ShortString()))
	}
	if a.hasRoot && b.hasRoot && a.root != b.root {
		return nil, types.NewMergeError("merge",
			fmt.Sprintf("roots differ: %s vs %s", a.root, b.root))
	}

	out := a.clone()
	if !out.hasRoot && b.hasRoot {
		out.root, out.hasRoot = b.root, true
	}
	for hash, e := range b.settled {
		if _, ok := out.settled[hash]; ok {
			continue
		}
		delete(out.pending, hash)
		out.settled[hash] = e
	}
	for hash, e := range b.pending {
		if _, ok := out.settled[hash]; ok {
			continue
		}
		out.pending[hash] = e
	}
	for hash, n := range b.sizes {
		if _, ok := out.sizes[hash]; !ok {
			out.sizes[hash] = n
			out.size += n
		}
	}
	if err := eng.checkSize(out); err != nil {
		return nil, err
	}

	promoted := out.promote()
	out.recomputeFrontier()

	logger.Debug("历史已合并",
		"register", out.address.Name().ShortString(),
		"settled", len(out.settled),
		"pending", len(out.pending),
		"promoted", len(promoted))
	return out, nil
}

// Load 从规范历史负载构建历史
//
// 负载必须是完整的历史：恰好一个根、没有缺失父条目、所有签名有效。
func (eng *Engine) Load(addr types.Address, payload []byte) (*History, error) {
	name := addr.Name()
	if addr.Kind() != types.AddressRegister {
		return nil, types.NewValidationError(name, types.ErrMalformedPayload, "%s is not a register address", addr)
	}
	if eng.maxSize > 0 && len(payload) > eng.maxSize {
		return nil, types.NewValidationError(name, types.ErrRecordTooLarge,
			"history %d bytes exceeds limit %d", len(payload), eng.maxSize)
	}

	entries, err := record.DecodeHistory(payload)
	if err != nil {
		return nil, types.NewValidationError(name, types.ErrMalformedHistory, "decode history: %v", err)
	}
	root, err := record.CheckHistory(entries)
	if err != nil {
		return nil, types.WrapValidation(name, types.ErrMalformedHistory, err)
	}

	h := NewHistory(addr)
	h.root, h.hasRoot = root, true
	for _, he := range entries {
		if err := eng.verify(addr, he.Hash, he.Entry); err != nil {
			return nil, err
		}
		size, err := entrySize(he.Entry)
		if err != nil {
			return nil, types.NewValidationError(name, types.ErrMalformedPayload, "%v", err)
		}
		h.settled[he.Hash] = he.Entry
		h.sizes[he.Hash] = size
		h.size += size
	}
	if err := eng.checkSize(h); err != nil {
		return nil, err
	}
	h.recomputeFrontier()
	return h, nil
}

// LoadRecord 从寄存器记录构建历史
func (eng *Engine) LoadRecord(rec record.Record) (*History, error) {
	if rec.Kind != types.KindRegister {
		return nil, types.NewValidationError(rec.Address.Name(), types.ErrMalformedPayload,
			"%s record is not a register", rec.Kind)
	}
	return eng.Load(rec.Address, rec.Payload)
}

// CacheLen 返回签名缓存中的条目数
func (eng *Engine) CacheLen() int {
	if eng.cache == nil {
		return 0
	}
	return eng.cache.Len()
}
