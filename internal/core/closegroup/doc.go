// Package closegroup 实现副本组选择与法定人数判定
//
// 副本组是距离目标名字最近的 K 个节点，按 XOR 距离严格升序排列。
// 所有诚实节点对同一目标和同一已知节点集合计算出相同的副本组。
//
// # 法定人数
//
//   - IsQuorumReached: 至少 Q 个不同节点成功响应
//   - MatchingQuorum: 至少 Q 个不同节点返回了内容一致的响应
//
// # 节点表
//
// PeerTable 是调用方维护的并发安全 K 桶表，Nearest 委托给 Select，
// 因此与纯函数的选择结果一致。
//
// # 架构层
//
//   - 层级：internal/core
//   - 依赖：pkg/types, config
package closegroup
