package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dsn/pkg/types"
)

type failingVerifier struct{}

func (failingVerifier) VerifyReceiptProof(context.Context, *types.Receipt) (bool, error) {
	return false, errors.New("ledger unavailable")
}

// ============================================================================
// 收据校验测试
// ============================================================================

// TestValidateReceipt_Valid 测试有效收据
func TestValidateReceipt_Valid(t *testing.T) {
	ledger := newKey(t)
	verifier := NewKeyProofVerifier(ledger.GetPublic(), types.NewAmount(1))
	target := types.ChunkAddressOf([]byte("x"))

	receipt := signedReceipt(t, ledger, target, 100)
	assert.NoError(t, ValidateReceipt(context.Background(), receipt, target, types.NewAmount(100), verifier))
	assert.NoError(t, ValidateReceipt(context.Background(), receipt, target, types.NewAmount(99), verifier))
}

// TestValidateReceipt_AddressMismatch 测试为 X 付费的收据不能用于 Y
func TestValidateReceipt_AddressMismatch(t *testing.T) {
	ledger := newKey(t)
	verifier := NewKeyProofVerifier(ledger.GetPublic(), types.NewAmount(1))
	x := types.ChunkAddressOf([]byte("x"))
	y := types.ChunkAddressOf([]byte("y"))

	// 金额和证明都有效
	receipt := signedReceipt(t, ledger, x, 1000)
	require.NoError(t, ValidateReceipt(context.Background(), receipt, x, types.NewAmount(1), verifier))

	err := ValidateReceipt(context.Background(), receipt, y, types.NewAmount(1), verifier)
	assert.ErrorIs(t, err, types.ErrAddressMismatch)

	var perr *types.PaymentError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, y.Name(), perr.Target)
}

// TestValidateReceipt_Order 测试检查顺序
func TestValidateReceipt_Order(t *testing.T) {
	ledger := newKey(t)
	verifier := NewKeyProofVerifier(ledger.GetPublic(), types.NewAmount(1))
	x := types.ChunkAddressOf([]byte("x"))
	y := types.ChunkAddressOf([]byte("y"))

	// 地址与金额同时错误时先报地址
	receipt := signedReceipt(t, ledger, x, 1)
	err := ValidateReceipt(context.Background(), receipt, y, types.NewAmount(10), verifier)
	assert.ErrorIs(t, err, types.ErrAddressMismatch)

	// 金额不足时不调用账本
	err = ValidateReceipt(context.Background(), receipt, x, types.NewAmount(10), failingVerifier{})
	assert.ErrorIs(t, err, types.ErrInsufficientAmount)
	var perr *types.PaymentError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 0, perr.Actual.Cmp(types.NewAmount(1)))
	assert.Equal(t, 0, perr.Expected.Cmp(types.NewAmount(10)))

	// 证明被篡改
	receipt.Amount = types.NewAmount(10)
	err = ValidateReceipt(context.Background(), receipt, x, types.NewAmount(10), verifier)
	assert.ErrorIs(t, err, types.ErrInvalidProof)

	// 账本不可用不是支付错误
	err = ValidateReceipt(context.Background(), receipt, x, types.NewAmount(10), failingVerifier{})
	require.Error(t, err)
	assert.False(t, errors.As(err, &perr))
}

// TestValidateReceipt_Missing 测试缺失收据和证明
func TestValidateReceipt_Missing(t *testing.T) {
	x := types.ChunkAddressOf([]byte("x"))
	err := ValidateReceipt(context.Background(), nil, x, types.NewAmount(1), nil)
	assert.ErrorIs(t, err, ErrMissingReceipt)

	receipt := &types.Receipt{Amount: types.NewAmount(5), Target: x}
	err = ValidateReceipt(context.Background(), receipt, x, types.NewAmount(1), nil)
	assert.ErrorIs(t, err, types.ErrInvalidProof)

	verifier := NewKeyProofVerifier(newKey(t).GetPublic(), types.NewAmount(1))
	err = ValidateReceipt(context.Background(), receipt, x, types.NewAmount(1), verifier)
	assert.ErrorIs(t, err, types.ErrInvalidProof)
}

// TestKeyProofVerifier_WrongKey 测试其他密钥签名的证明
func TestKeyProofVerifier_WrongKey(t *testing.T) {
	x := types.ChunkAddressOf([]byte("x"))
	receipt := signedReceipt(t, newKey(t), x, 5)

	verifier := NewKeyProofVerifier(newKey(t).GetPublic(), types.NewAmount(2))
	ok, err := verifier.VerifyReceiptProof(context.Background(), receipt)
	require.NoError(t, err)
	assert.False(t, ok)

	signal, err := verifier.CostSignal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, signal.UnitPrice.Cmp(types.NewAmount(2)))
}

// TestReceiptHash 测试收据摘要
func TestReceiptHash(t *testing.T) {
	x := types.ChunkAddressOf([]byte("x"))
	a := signedReceipt(t, newKey(t), x, 5)
	h1, err := ReceiptHash(a)
	require.NoError(t, err)

	a.Amount = types.NewAmount(6)
	h2, err := ReceiptHash(a)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
