// Package mocks 提供外部协作方的测试替身
//
// # Mock 列表
//
//   - MockTransport: 模拟 interfaces.Transport，记录 Send 调用
//   - MockLedger: 模拟 interfaces.Ledger
//   - MockPersistence: 基于内存 map 的 interfaces.Persistence
//
// # 设计原则
//
// 1. 函数式注入: 每个 Mock 都支持通过 XxxFunc 字段注入自定义行为
// 2. 调用记录: 关键 Mock 记录调用历史，便于验证测试行为
//
// # 使用示例
//
//	transport := &mocks.MockTransport{
//	    SendFunc: func(ctx context.Context, peer types.Address, req []byte) ([]byte, error) {
//	        return []byte("ok"), nil
//	    },
//	}
//	node, err := dsn.New(ctx, dsn.WithTransport(transport))
package mocks
