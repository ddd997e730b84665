package interfaces

import (
	"context"

	"github.com/dep2p/go-dsn/pkg/types"
)

// Ledger 定义账本协作方接口
type Ledger interface {
	// VerifyReceiptProof 验证收据中的密码学证明
	//
	// 返回 false, nil 表示证明无效；error 表示账本本身不可用。
	VerifyReceiptProof(ctx context.Context, receipt *types.Receipt) (bool, error)

	// CostSignal 返回当前网络成本信号
	CostSignal(ctx context.Context) (types.CostSignal, error)
}
