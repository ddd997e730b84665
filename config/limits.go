package config

import (
	"fmt"

	"github.com/dep2p/go-dsn/pkg/types"
)

// 大小常量
const (
	KiB = 1024
	MiB = 1024 * KiB
)

// LimitsConfig 记录大小上限配置
//
// 大小恰好等于上限时接受，超过一个字节即拒绝。
type LimitsConfig struct {
	// MaxChunkSize 内容块负载上限
	// 默认值: 4 MiB
	MaxChunkSize int `json:"max_chunk_size"`

	// MaxRegisterSize 寄存器历史（全部条目编码）上限
	// 默认值: 1 MiB
	MaxRegisterSize int `json:"max_register_size"`

	// MaxScratchpadSize 草稿板负载上限
	// 默认值: 4 MiB
	MaxScratchpadSize int `json:"max_scratchpad_size"`

	// MaxTransactionSize 交易负载上限
	// 默认值: 64 KiB
	MaxTransactionSize int `json:"max_transaction_size"`
}

// DefaultLimitsConfig 返回默认大小上限
func DefaultLimitsConfig() LimitsConfig {
	return LimitsConfig{
		MaxChunkSize:       4 * MiB,
		MaxRegisterSize:    1 * MiB,
		MaxScratchpadSize:  4 * MiB,
		MaxTransactionSize: 64 * KiB,
	}
}

// Validate 验证大小上限
func (c LimitsConfig) Validate() error {
	for _, kind := range types.RecordKinds {
		if c.MaxFor(kind) <= 0 {
			return fmt.Errorf("limits: max size for %s must be positive", kind)
		}
	}
	return nil
}

// MaxFor 返回指定记录类型的大小上限
func (c LimitsConfig) MaxFor(kind types.RecordKind) int {
	switch kind {
	case types.KindChunk:
		return c.MaxChunkSize
	case types.KindRegister:
		return c.MaxRegisterSize
	case types.KindScratchpad:
		return c.MaxScratchpadSize
	case types.KindTransaction:
		return c.MaxTransactionSize
	default:
		return 0
	}
}
