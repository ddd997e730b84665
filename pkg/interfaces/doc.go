// Package interfaces 定义 DSN 协议层的外部协作方接口
//
// 协议层本身是纯计算，不接触网络、账本或磁盘。需要这些能力的地方
// 都通过本包的接口注入：
//   - transport.go    - 传输层（点对点请求、最近节点查询）
//   - ledger.go       - 账本（收据证明验证、成本信号）
//   - persistence.go  - 持久化（寄存器历史、内容块）
//
// 所有阻塞方法都接受 context.Context，由调用方控制超时和取消。
// 实现必须保证并发安全。
package interfaces
