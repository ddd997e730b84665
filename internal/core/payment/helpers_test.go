package payment

import (
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dsn/config"
	"github.com/dep2p/go-dsn/pkg/lib/crypto"
	"github.com/dep2p/go-dsn/pkg/types"
)

func newKey(t *testing.T) crypto.PrivateKey {
	t.Helper()
	priv, _, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519)
	require.NoError(t, err)
	return priv
}

func newQuoter(t *testing.T) (*Quoter, *clock.Mock) {
	t.Helper()
	clk := clock.NewMock()
	q, err := NewQuoter(newKey(t), config.DefaultPaymentConfig(), clk)
	require.NoError(t, err)
	return q, clk
}

// signedReceipt 构造由 ledger 签名的收据
func signedReceipt(t *testing.T, ledger crypto.PrivateKey, target types.Address, amount uint64) *types.Receipt {
	t.Helper()
	r := &types.Receipt{
		Payer:  []byte("payer"),
		Amount: types.NewAmount(amount),
		Target: target,
	}
	require.NoError(t, SignReceipt(ledger, r))
	return r
}
