package payment

import (
	"context"
	"errors"
	"fmt"

	sha256 "github.com/minio/sha256-simd"

	"github.com/dep2p/go-dsn/pkg/types"
)

// ErrMissingReceipt 写入没有附带收据
var ErrMissingReceipt = errors.New("payment: missing receipt")

// ProofVerifier 验证收据证明的账本能力
//
// interfaces.Ledger 满足此接口。
type ProofVerifier interface {
	VerifyReceiptProof(ctx context.Context, receipt *types.Receipt) (bool, error)
}

// ValidateReceipt 校验收据与目标地址、期望金额的绑定
//
// 检查顺序固定：地址绑定、金额、证明。前两项失败时不会调用 verifier。
// verifier 本身出错（账本不可用）时返回普通错误而非 PaymentError。
func ValidateReceipt(ctx context.Context, receipt *types.Receipt, target types.Address, expected types.Amount, verifier ProofVerifier) error {
	name := target.Name()
	if receipt == nil {
		return &types.PaymentError{Target: name, Err: ErrMissingReceipt, Expected: expected}
	}
	if !receipt.Target.Equal(target) {
		return &types.PaymentError{Target: name, Err: types.ErrAddressMismatch, Expected: expected, Actual: receipt.Amount}
	}
	if receipt.Amount.Lt(expected) {
		return &types.PaymentError{Target: name, Err: types.ErrInsufficientAmount, Expected: expected, Actual: receipt.Amount}
	}
	if verifier == nil {
		return &types.PaymentError{Target: name, Err: types.ErrInvalidProof, Expected: expected, Actual: receipt.Amount}
	}

	ok, err := verifier.VerifyReceiptProof(ctx, receipt)
	if err != nil {
		return fmt.Errorf("payment: verify proof: %w", err)
	}
	if !ok {
		return &types.PaymentError{Target: name, Err: types.ErrInvalidProof, Expected: expected, Actual: receipt.Amount}
	}

	logger.Debug("收据校验通过", "target", name.ShortString(), "amount", receipt.Amount, "expected", expected)
	return nil
}

// ReceiptHash 返回收据规范编码的 SHA-256 摘要
func ReceiptHash(receipt *types.Receipt) ([32]byte, error) {
	data, err := receipt.MarshalBinary()
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(data), nil
}
