// Package types 定义 DSN 协议层的公共数据结构
//
// 这是整个系统的最底层包，只依赖 pkg/lib/codec。
// 所有类型都是纯值类型，可以在各模块和 goroutine 之间自由复制与共享。
//
// # 文件组织
//
//   - name.go     - Name（32 字节 SHA3 名字）、Distance（XOR 距离）、Closer
//   - address.go  - Address 标签联合（Peer/Chunk/Register/Scratchpad/Transaction）
//   - kind.go     - RecordKind 记录类型枚举
//   - amount.go   - Amount 256 位代币数量
//   - receipt.go  - Receipt 支付收据、CostSignal 成本信号
//   - events.go   - 写入接纳事件
//   - errors.go   - 错误分类（校验、合并、支付、法定人数）
//
// # 设计原则
//
//  1. 确定性：名字、距离和编码在所有节点上逐字节一致
//  2. 可比较性：Name、Address 可直接用 == 比较，可作为 map key
//  3. 规范编码：MarshalBinary 与 Unmarshal 往返逐字节一致
//
// # 使用示例
//
//	import "github.com/dep2p/go-dsn/pkg/types"
//
//	addr := types.ChunkAddressOf(payload)
//	d := types.XORDistance(addr.Name(), peer.Name())
package types
