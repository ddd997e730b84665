package payment

import (
	"context"
	"fmt"

	"github.com/dep2p/go-dsn/pkg/lib/crypto"
	"github.com/dep2p/go-dsn/pkg/types"
)

// ReceiptProofDomain 参考账本证明签名的域分隔前缀
const ReceiptProofDomain = "dsn/receipt-proof"

// KeyProofVerifier 参考账本实现
//
// 把收据证明视为账本密钥对收据签名字节的签名，并提供固定的成本信号。
// 用于测试和开发网络。
type KeyProofVerifier struct {
	key       crypto.PublicKey
	unitPrice types.Amount
}

// NewKeyProofVerifier 创建参考账本
func NewKeyProofVerifier(ledgerKey crypto.PublicKey, unitPrice types.Amount) *KeyProofVerifier {
	return &KeyProofVerifier{key: ledgerKey, unitPrice: unitPrice}
}

// VerifyReceiptProof 实现 interfaces.Ledger
func (v *KeyProofVerifier) VerifyReceiptProof(_ context.Context, receipt *types.Receipt) (bool, error) {
	if receipt == nil || len(receipt.Proof) == 0 {
		return false, nil
	}
	msg, err := receipt.SigningBytes()
	if err != nil {
		return false, nil
	}
	return crypto.VerifyWithDomain(v.key, ReceiptProofDomain, receipt.Proof, msg) == nil, nil
}

// CostSignal 实现 interfaces.Ledger
func (v *KeyProofVerifier) CostSignal(context.Context) (types.CostSignal, error) {
	return types.CostSignal{UnitPrice: v.unitPrice}, nil
}

// SignReceipt 使用账本私钥为收据生成证明
func SignReceipt(ledgerKey crypto.PrivateKey, receipt *types.Receipt) error {
	msg, err := receipt.SigningBytes()
	if err != nil {
		return err
	}
	proof, err := crypto.SignWithDomain(ledgerKey, ReceiptProofDomain, msg)
	if err != nil {
		return fmt.Errorf("payment: sign receipt: %w", err)
	}
	receipt.Proof = proof
	return nil
}
