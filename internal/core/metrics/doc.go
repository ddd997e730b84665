// Package metrics 提供协议层的监控指标
//
// 指标基于 Prometheus 收集器实现，注册到调用方注入的
// prometheus.Registerer 上，从不使用全局默认注册表：
//   - 记录校验结果（按记录类型和结果分类）
//   - 寄存器应用结果（applied/pending/duplicate/error）
//   - 支付校验结果
//   - 法定人数查询结果
//   - 已接受写入的字节数与最近 60 秒速率
//
// # 快速开始
//
//	reg := prometheus.NewRegistry()
//	collector, err := metrics.NewCollector(reg, "dsn", clock.New())
//	if err != nil {
//	    return err
//	}
//
//	collector.ObserveValidation(types.KindChunk, err)
//	collector.ObserveAccepted(types.KindChunk, len(payload))
//
//	stats := collector.Snapshot()
//	fmt.Printf("accepted=%d rate=%.2f B/s\n", stats.Accepted, stats.ByteRate)
//
// # 结果标签
//
// 错误通过 ResultLabel 映射为稳定的标签值，例如
// ErrContentHashMismatch → "content_hash_mismatch"，nil → "ok"。
// 未知错误统一归入 "error"，避免标签基数失控。
//
// # 禁用
//
// MetricsConfig.Enabled 为 false 时，Fx 模块提供 NopReporter，
// 调用方无需判空。
//
// # Fx 模块
//
//	app := fx.New(
//	    metrics.Module,
//	    fx.Invoke(func(r metrics.Reporter) {
//	        // 使用 r
//	    }),
//	)
package metrics
