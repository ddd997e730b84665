package interfaces

import (
	"context"
	"errors"

	"github.com/dep2p/go-dsn/pkg/types"
)

// ErrNotFound 持久化层中不存在指定记录
var ErrNotFound = errors.New("persistence: not found")

// Persistence 定义持久化协作方接口
//
// 寄存器历史以规范编码（codec.TypeHistory）存取，协议层负责解码和校验。
type Persistence interface {
	// LoadHistory 加载寄存器历史的规范编码
	//
	// 不存在时返回 ErrNotFound。
	LoadHistory(ctx context.Context, addr types.Address) ([]byte, error)

	// StoreHistory 保存寄存器历史的规范编码，覆盖旧值
	StoreHistory(ctx context.Context, addr types.Address, history []byte) error

	// LoadChunk 加载不可变记录的负载
	//
	// 不存在时返回 ErrNotFound。
	LoadChunk(ctx context.Context, addr types.Address) ([]byte, error)

	// StoreChunk 保存不可变记录的负载
	StoreChunk(ctx context.Context, addr types.Address, payload []byte) error

	// HasChunk 检查不可变记录是否已存在
	HasChunk(ctx context.Context, addr types.Address) (bool, error)
}
