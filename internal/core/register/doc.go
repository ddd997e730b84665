// Package register 实现 DSN 可变寄存器的 CRDT 引擎
//
// 寄存器历史是已签名条目组成的 Merkle DAG：每个条目通过哈希引用父条目，
// 没有父条目的是根条目，一个寄存器恰好有一个根。
//
// # 合并语义
//
// Merge 对已确认条目集合和待定条目集合分别取并集，然后提升所有父条目
// 已经确认的待定条目。这个操作满足交换律、结合律和幂等律，任意顺序
// 收到同一批条目的副本最终得到相同的历史。
//
// # 乱序到达
//
// 父条目尚未到达的条目不是错误，Apply 返回 StatusPending 并把条目
// 放入历史值内部的待定集合，父条目到达后自动级联提升。
//
// # 分叉
//
// 前沿（没有已确认子条目的条目）多于一个时寄存器处于分叉状态。
// 引擎不替调用方选择值，LowestHash 只是一个确定性的辅助选择。
//
// # 并发
//
// History 是不可变值，所有操作返回新值。Engine 只持有带锁的
// 签名验证缓存，可以被并发使用。
//
// # 架构层
//
//   - 层级：internal/core
//   - 依赖：internal/core/record, pkg/types, config
package register
