// Package dsn 提供去中心化内容寻址存储网络的共享协议层
//
// 协议层回答四个问题：
//
//   - 谁持有记录：统一地址和 XOR 距离决定每个地址的副本组
//   - 什么是有效记录：内容哈希和所有者签名规则
//   - 并发写如何收敛：寄存器是签名条目组成的 merkle DAG，合并满足交换律、结合律和幂等律
//   - 写入是否被接受：收据必须绑定目标地址并覆盖计算出的价格
//
// # 快速开始
//
//	node, err := dsn.Start(ctx,
//	    dsn.WithTransport(transport),
//	    dsn.WithLedger(ledger),
//	    dsn.WithPersistence(store),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer node.Close()
//
//	// 报价 → 付款（账本协作方）→ 写入
//	quote, _ := node.Quote(ctx, addr, uint64(len(payload)))
//	receipt := payForQuote(quote)
//	result, err := node.HandleWrite(ctx, dsn.WriteRequest{
//	    Record:  rec,
//	    Receipt: receipt,
//	    Quote:   quote,
//	})
//
// # 写入流程
//
//	记录校验 → 支付校验 → 副本组成员检查 → 寄存器合并 / 原子接受
//
// 每一步失败都返回带分类的错误，调用方可以用 errors.Is 区分
// ErrContentHashMismatch、ErrInsufficientAmount、ErrAddressMismatch 等。
//
// # 文件组织
//
//   - dsn.go      - 版本信息
//   - node.go     - Node 门面与生命周期
//   - write.go    - 写入流程
//   - query.go    - 副本组与法定人数查询
//   - options.go  - 配置选项
//   - fx.go       - 依赖注入装配
//   - errors.go   - 公共错误
//
// # 协作方
//
// 网络传输、账本和持久化都不在本包实现，通过 pkg/interfaces 中的
// Transport、Ledger、Persistence 接口注入。
package dsn
