package payment

import (
	"errors"
	"fmt"

	"github.com/dep2p/go-dsn/config"
	"github.com/dep2p/go-dsn/pkg/types"
)

// ErrPriceOverflow 价格超出 256 位范围
var ErrPriceOverflow = errors.New("payment: price overflow")

// Units 返回 size 字节对应的计价单位数，至少为 1
func Units(size, unitSize uint64) uint64 {
	if unitSize == 0 || size == 0 {
		return 1
	}
	units := size / unitSize
	if size%unitSize != 0 {
		units++
	}
	return units
}

// QuotePrice 计算记录的价格
//
// 对 (kind, size, signal) 是确定性函数；未知类型返回 ErrMalformedPayload。
func QuotePrice(kind types.RecordKind, size uint64, signal types.CostSignal, pricing config.PaymentConfig) (types.Amount, error) {
	var weight uint64
	switch kind {
	case types.KindChunk, types.KindRegister, types.KindScratchpad, types.KindTransaction:
		weight = pricing.WeightFor(kind)
	default:
		return types.Amount{}, fmt.Errorf("%w: unknown record kind %s", types.ErrMalformedPayload, kind)
	}

	price, ok := signal.UnitPrice.MulUint64(weight)
	if !ok {
		return types.Amount{}, ErrPriceOverflow
	}
	price, ok = price.MulUint64(Units(size, pricing.UnitSize))
	if !ok {
		return types.Amount{}, ErrPriceOverflow
	}
	return price, nil
}
