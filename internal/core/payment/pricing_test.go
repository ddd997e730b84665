package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dsn/config"
	"github.com/dep2p/go-dsn/pkg/types"
)

// TestUnits 测试计价单位数
func TestUnits(t *testing.T) {
	tests := []struct {
		size, unit, want uint64
	}{
		{0, 1024, 1},
		{1, 1024, 1},
		{1024, 1024, 1},
		{1025, 1024, 2},
		{4096, 1024, 4},
		{10, 0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Units(tt.size, tt.unit), "size=%d unit=%d", tt.size, tt.unit)
	}
}

// TestQuotePrice 测试按类型计价
func TestQuotePrice(t *testing.T) {
	pricing := config.DefaultPaymentConfig()
	signal := types.CostSignal{UnitPrice: types.NewAmount(10)}

	tests := []struct {
		kind types.RecordKind
		size uint64
		want uint64
	}{
		{types.KindChunk, 100, 10},
		{types.KindChunk, 3 * config.KiB, 30},
		{types.KindRegister, 100, 20},
		{types.KindScratchpad, 2*config.KiB + 1, 60},
		{types.KindTransaction, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			price, err := QuotePrice(tt.kind, tt.size, signal, pricing)
			require.NoError(t, err)
			assert.Equal(t, tt.want, mustUint64(t, price))
		})
	}

	// 确定性
	a, _ := QuotePrice(types.KindChunk, 5000, signal, pricing)
	b, _ := QuotePrice(types.KindChunk, 5000, signal, pricing)
	assert.Equal(t, 0, a.Cmp(b))
}

// TestQuotePrice_Errors 测试未知类型与溢出
func TestQuotePrice_Errors(t *testing.T) {
	pricing := config.DefaultPaymentConfig()

	_, err := QuotePrice(types.RecordKind(99), 1, types.CostSignal{UnitPrice: types.NewAmount(1)}, pricing)
	assert.ErrorIs(t, err, types.ErrMalformedPayload)

	var max [types.AmountSize]byte
	for i := range max {
		max[i] = 0xff
	}
	_, err = QuotePrice(types.KindRegister, 1, types.CostSignal{UnitPrice: types.AmountFromBytes(max)}, pricing)
	assert.ErrorIs(t, err, ErrPriceOverflow)
}

func mustUint64(t *testing.T, a types.Amount) uint64 {
	t.Helper()
	b := a.Bytes()
	for _, x := range b[:types.AmountSize-8] {
		require.Zero(t, x)
	}
	var v uint64
	for _, x := range b[types.AmountSize-8:] {
		v = v<<8 | uint64(x)
	}
	return v
}
