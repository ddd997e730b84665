package mocks

import (
	"context"

	"github.com/dep2p/go-dsn/pkg/interfaces"
	"github.com/dep2p/go-dsn/pkg/types"
)

var _ interfaces.Ledger = (*MockLedger)(nil)

// MockLedger 模拟账本协作方
//
// 默认接受所有证明，成本信号为 UnitPrice。
type MockLedger struct {
	UnitPrice types.Amount

	VerifyReceiptProofFunc func(ctx context.Context, receipt *types.Receipt) (bool, error)
	CostSignalFunc         func(ctx context.Context) (types.CostSignal, error)
}

// NewMockLedger 创建使用固定单价的 MockLedger
func NewMockLedger(unitPrice uint64) *MockLedger {
	return &MockLedger{UnitPrice: types.NewAmount(unitPrice)}
}

// VerifyReceiptProof 验证收据证明
func (m *MockLedger) VerifyReceiptProof(ctx context.Context, receipt *types.Receipt) (bool, error) {
	if m.VerifyReceiptProofFunc != nil {
		return m.VerifyReceiptProofFunc(ctx, receipt)
	}
	return true, nil
}

// CostSignal 返回成本信号
func (m *MockLedger) CostSignal(ctx context.Context) (types.CostSignal, error) {
	if m.CostSignalFunc != nil {
		return m.CostSignalFunc(ctx)
	}
	return types.CostSignal{UnitPrice: m.UnitPrice}, nil
}
