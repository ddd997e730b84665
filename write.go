package dsn

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dep2p/go-dsn/internal/core/payment"
	"github.com/dep2p/go-dsn/internal/core/record"
	"github.com/dep2p/go-dsn/internal/core/register"
	"github.com/dep2p/go-dsn/pkg/interfaces"
	"github.com/dep2p/go-dsn/pkg/types"
)

// WriteRequest 写入请求
type WriteRequest struct {
	// Record 待写入的记录
	Record *record.Record

	// Receipt 支付收据；为空时从 Record.Proof 解码
	Receipt *types.Receipt

	// Quote 收据所引用的本节点报价；为空时按账本当前价格计价
	Quote *payment.Quote
}

// WriteResult 写入结果
type WriteResult struct {
	// RequestID 请求标识，用于日志关联
	RequestID string

	// Address 记录地址
	Address types.Address

	// Kind 记录类型
	Kind types.RecordKind

	// Stored 本次写入是否改变了持久化状态；只进入待定集合的寄存器条目为 false
	Stored bool

	// Status 寄存器合并状态，仅寄存器记录有效
	Status register.Status

	// History 合并后的寄存器历史，仅寄存器记录有效
	History *register.History
}

// Frontier 返回合并后寄存器历史的前沿
func (r *WriteResult) Frontier() []*record.Entry {
	if r.History == nil {
		return nil
	}
	return r.History.Frontier()
}

// HandleWrite 处理写入请求
//
// 流程：记录校验 → 支付校验 → 副本组成员检查 → 寄存器合并或原子接纳。
// 任一步失败都不会改变本地状态。
func (n *Node) HandleWrite(ctx context.Context, req WriteRequest) (*WriteResult, error) {
	if err := n.checkRunning(); err != nil {
		return nil, err
	}
	if req.Record == nil {
		return nil, ErrNilRecord
	}
	rec := *req.Record
	reqID := uuid.NewString()
	target := rec.Address.Name()

	reject := func(stage types.WriteStage, err error) (*WriteResult, error) {
		logger.Warn("拒绝写入",
			"request", reqID,
			"address", target.ShortString(),
			"kind", rec.Kind,
			"stage", stage,
			"error", err)
		_ = n.events.Emit(types.EvtWriteRejected{
			RequestID: reqID,
			Address:   rec.Address,
			Kind:      rec.Kind,
			Stage:     stage,
			Err:       err,
		})
		return nil, err
	}

	// 1. 记录校验；已有历史的寄存器可以只写入新条目
	err := record.Validate(rec, n.opts.config.Limits)
	fragment := false
	if errors.Is(err, types.ErrMalformedHistory) && n.hasHistory(ctx, rec) {
		err = record.ValidateFragment(rec, n.opts.config.Limits)
		fragment = err == nil
	}
	n.reporter.ObserveValidation(rec.Kind, err)
	if err != nil {
		return reject(types.StageValidation, err)
	}

	// 2. 支付校验
	err = n.checkPayment(ctx, rec, req)
	n.reporter.ObservePayment(err)
	if err != nil {
		return reject(types.StagePayment, err)
	}

	// 3. 副本组成员检查
	group, err := n.CloseGroup(ctx, target)
	if err != nil {
		return reject(types.StageCloseGroup, err)
	}
	if !group.Contains(n.Name()) {
		return reject(types.StageCloseGroup, fmt.Errorf("%w: %s (group of %d)", ErrNotResponsible, target.ShortString(), group.Len()))
	}

	// 4. 接纳
	if n.persistence == nil {
		return reject(types.StageApply, ErrNoPersistence)
	}
	result := &WriteResult{RequestID: reqID, Address: rec.Address, Kind: rec.Kind}
	switch rec.Kind {
	case types.KindRegister:
		err = n.acceptRegister(ctx, rec, fragment, result)
		n.reporter.ObserveApply(result.Status.String(), err)
	case types.KindScratchpad:
		err = n.acceptScratchpad(ctx, rec, result)
	default:
		err = n.acceptImmutable(ctx, rec, result)
	}
	if err != nil {
		return reject(types.StageApply, err)
	}

	if result.Stored {
		n.reporter.ObserveAccepted(rec.Kind, rec.Size())
	}
	_ = n.events.Emit(types.EvtWriteAccepted{
		RequestID: reqID,
		Address:   rec.Address,
		Kind:      rec.Kind,
		Size:      rec.Size(),
		Stored:    result.Stored,
	})
	logger.Info("写入已接纳",
		"request", reqID,
		"address", target.ShortString(),
		"kind", rec.Kind,
		"size", rec.Size(),
		"stored", result.Stored)
	return result, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              支付
// ════════════════════════════════════════════════════════════════════════════

// checkPayment 校验写入携带的收据覆盖记录价格
//
// 携带报价时以报价金额为准，否则按账本当前成本信号计价。
func (n *Node) checkPayment(ctx context.Context, rec record.Record, req WriteRequest) error {
	receipt := req.Receipt
	if receipt == nil && len(rec.Proof) > 0 {
		decoded, err := types.UnmarshalReceipt(rec.Proof)
		if err != nil {
			return &types.PaymentError{Target: rec.Address.Name(), Err: fmt.Errorf("%w: %v", types.ErrInvalidProof, err)}
		}
		receipt = decoded
	}
	if receipt == nil {
		return &types.PaymentError{Target: rec.Address.Name(), Err: payment.ErrMissingReceipt}
	}

	size := uint64(rec.Size())
	var expected types.Amount
	if req.Quote != nil {
		if err := n.quoter.BindQuote(receipt, req.Quote); err != nil {
			return err
		}
		if !req.Quote.Target.Equal(rec.Address) {
			return &types.PaymentError{Target: rec.Address.Name(), Err: types.ErrAddressMismatch}
		}
		if req.Quote.Kind != rec.Kind || req.Quote.Size < size {
			return fmt.Errorf("%w: quote covers %s of %d bytes, record is %s of %d bytes",
				payment.ErrQuoteMismatch, req.Quote.Kind, req.Quote.Size, rec.Kind, size)
		}
		expected = req.Quote.Price
	} else {
		if n.ledger == nil {
			return ErrNoLedger
		}
		signal, err := n.ledger.CostSignal(ctx)
		if err != nil {
			return fmt.Errorf("ledger cost signal: %w", err)
		}
		if expected, err = payment.QuotePrice(rec.Kind, size, signal, n.quoter.Pricing()); err != nil {
			return err
		}
	}

	var verifier payment.ProofVerifier
	if n.ledger != nil {
		verifier = n.ledger
	}
	return payment.ValidateReceipt(ctx, receipt, rec.Address, expected, verifier)
}

// ════════════════════════════════════════════════════════════════════════════
//                              接纳
// ════════════════════════════════════════════════════════════════════════════

// hasHistory 本地是否已保存该寄存器的历史
//
// 只有已有历史的寄存器才接受片段写入。
func (n *Node) hasHistory(ctx context.Context, rec record.Record) bool {
	if rec.Kind != types.KindRegister || n.persistence == nil {
		return false
	}
	_, err := n.persistence.LoadHistory(ctx, rec.Address)
	return err == nil
}

// acceptRegister 把写入的历史或片段合并进本地历史
//
// 只持久化已确认条目；父条目未到达的条目留在待定池中，
// 等后续写入补齐父条目时确认。
func (n *Node) acceptRegister(ctx context.Context, rec record.Record, fragment bool, result *WriteResult) error {
	name := rec.Address.Name()

	var (
		incoming *register.History
		entries  []*record.Entry
		err      error
	)
	if fragment {
		hashed, err := record.DecodeHistory(rec.Payload)
		if err != nil {
			return types.NewValidationError(name, types.ErrMalformedHistory, "decode history: %v", err)
		}
		for _, he := range hashed {
			entries = append(entries, he.Entry)
		}
	} else if incoming, err = n.engine.LoadRecord(rec); err != nil {
		return err
	}

	unlock := n.locks.lock(name)
	defer unlock()

	current, err := n.loadHistory(ctx, rec.Address)
	if err != nil {
		return err
	}
	if fragment && current.IsEmpty() {
		return types.NewValidationError(name, types.ErrMalformedHistory, "fragment without stored history")
	}
	current = n.engine.Restore(current, n.pending.Take(name))

	var merged *register.History
	if fragment {
		merged, err = n.engine.ApplyAll(current, entries)
	} else {
		merged, err = n.engine.Merge(current, incoming)
	}
	if err != nil {
		n.pending.Put(name, current.Pending())
		return err
	}

	result.History = merged
	result.Status = register.Progress(current, merged)
	if merged.Len() > current.Len() {
		data, err := merged.MarshalBinary()
		if err != nil {
			n.pending.Put(name, current.Pending())
			return err
		}
		if err := n.persistence.StoreHistory(ctx, rec.Address, data); err != nil {
			n.pending.Put(name, current.Pending())
			return fmt.Errorf("store history: %w", err)
		}
		result.Stored = true
	}
	n.pending.Put(name, merged.Pending())
	return nil
}

// loadHistory 加载本地历史，不存在时返回空历史
func (n *Node) loadHistory(ctx context.Context, addr types.Address) (*register.History, error) {
	data, err := n.persistence.LoadHistory(ctx, addr)
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		return register.NewHistory(addr), nil
	case err != nil:
		return nil, fmt.Errorf("load history: %w", err)
	}
	return n.engine.Load(addr, data)
}

// acceptScratchpad 计数器较新的版本替换本地版本
func (n *Node) acceptScratchpad(ctx context.Context, rec record.Record, result *WriteResult) error {
	incoming, err := record.UnmarshalScratchpad(rec.Payload)
	if err != nil {
		return types.NewValidationError(rec.Address.Name(), types.ErrMalformedPayload, "%v", err)
	}

	unlock := n.locks.lock(rec.Address.Name())
	defer unlock()

	var current *record.Scratchpad
	data, err := n.persistence.LoadChunk(ctx, rec.Address)
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
	case err != nil:
		return fmt.Errorf("load scratchpad: %w", err)
	default:
		if current, err = record.UnmarshalScratchpad(data); err != nil {
			return types.NewValidationError(rec.Address.Name(), types.ErrMalformedPayload, "stored scratchpad: %v", err)
		}
	}

	if record.NewerScratchpad(current, incoming) != incoming {
		return nil
	}
	if err := n.persistence.StoreChunk(ctx, rec.Address, rec.Payload); err != nil {
		return fmt.Errorf("store scratchpad: %w", err)
	}
	result.Stored = true
	return nil
}

// acceptImmutable 原子接纳内容块和交易记录，已存在时不重复写入
func (n *Node) acceptImmutable(ctx context.Context, rec record.Record, result *WriteResult) error {
	exists, err := n.persistence.HasChunk(ctx, rec.Address)
	if err != nil {
		return fmt.Errorf("check %s: %w", rec.Kind, err)
	}
	if exists {
		return nil
	}
	if err := n.persistence.StoreChunk(ctx, rec.Address, rec.Payload); err != nil {
		return fmt.Errorf("store %s: %w", rec.Kind, err)
	}
	result.Stored = true
	return nil
}
