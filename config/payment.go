package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dep2p/go-dsn/pkg/types"
)

// PaymentConfig 支付配置
//
// 价格 = 单位价格 × 类型权重 × max(1, ceil(size / UnitSize))。
// 单位价格来自账本的成本信号，这里只配置与网络约定的计价参数。
type PaymentConfig struct {
	// UnitSize 计价单位字节数
	// 默认值: 1 KiB
	UnitSize uint64 `json:"unit_size"`

	// QuoteTTL 节点报价有效期
	// 默认值: 24h
	QuoteTTL Duration `json:"quote_ttl"`

	// ChunkWeight 内容块权重
	ChunkWeight uint64 `json:"chunk_weight"`

	// RegisterWeight 寄存器权重
	RegisterWeight uint64 `json:"register_weight"`

	// ScratchpadWeight 草稿板权重
	ScratchpadWeight uint64 `json:"scratchpad_weight"`

	// TransactionWeight 交易权重
	TransactionWeight uint64 `json:"transaction_weight"`
}

// DefaultPaymentConfig 返回默认支付配置
func DefaultPaymentConfig() PaymentConfig {
	return PaymentConfig{
		UnitSize:          KiB,
		QuoteTTL:          Duration(24 * time.Hour),
		ChunkWeight:       1,
		RegisterWeight:    2,
		ScratchpadWeight:  2,
		TransactionWeight: 1,
	}
}

// Validate 验证支付配置
func (c PaymentConfig) Validate() error {
	if c.UnitSize == 0 {
		return errors.New("payment: unit_size must be positive")
	}
	if c.QuoteTTL <= 0 {
		return errors.New("payment: quote_ttl must be positive")
	}
	for _, kind := range types.RecordKinds {
		if c.WeightFor(kind) == 0 {
			return fmt.Errorf("payment: weight for %s must be positive", kind)
		}
	}
	return nil
}

// WeightFor 返回指定记录类型的价格权重
func (c PaymentConfig) WeightFor(kind types.RecordKind) uint64 {
	switch kind {
	case types.KindChunk:
		return c.ChunkWeight
	case types.KindRegister:
		return c.RegisterWeight
	case types.KindScratchpad:
		return c.ScratchpadWeight
	case types.KindTransaction:
		return c.TransactionWeight
	default:
		return 0
	}
}
