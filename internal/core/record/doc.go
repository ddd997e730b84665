// Package record 定义 DSN 记录数据模型及其校验
//
// 记录由地址、类型、负载和附带证明组成。负载是该类型内容的规范编码：
//
//   - Chunk: 原始字节，地址名字等于负载哈希
//   - Register: 已签名条目组成的历史（按条目哈希排序）
//   - Scratchpad: 带计数器的所有者签名数据块
//   - Transaction: 账本交易的结构化描述（只做结构检查）
//
// # 校验
//
// Validate 是纯函数，不产生任何存储副作用：
//
//	err := record.Validate(rec, cfg.Limits)
//	if errors.Is(err, types.ErrContentHashMismatch) { ... }
//
// 大小恰好等于上限的负载被接受。
//
// # 架构层
//
//   - 层级：internal/core
//   - 依赖：pkg/types, pkg/lib/codec, pkg/lib/crypto, config
package record
