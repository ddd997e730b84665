package metrics

import (
	"github.com/dep2p/go-dsn/pkg/types"
)

// Reporter 提供记录协议层事件的方法
type Reporter interface {
	// ObserveValidation 记录一次记录校验结果
	ObserveValidation(kind types.RecordKind, err error)

	// ObserveApply 记录一次寄存器应用结果
	// status 取值 "applied"、"pending"、"duplicate"，出错时由 err 决定标签
	ObserveApply(status string, err error)

	// ObservePayment 记录一次支付校验结果
	ObservePayment(err error)

	// ObserveQuorum 记录一次法定人数查询结果
	ObserveQuorum(err error)

	// ObserveAccepted 记录一次被接受的写入及其字节数
	ObserveAccepted(kind types.RecordKind, size int)

	// Snapshot 返回当前统计快照
	Snapshot() Stats
}

// NopReporter 不记录任何内容的 Reporter
type NopReporter struct{}

// 确保实现接口
var (
	_ Reporter = NopReporter{}
	_ Reporter = (*Collector)(nil)
)

// ObserveValidation 实现 Reporter
func (NopReporter) ObserveValidation(types.RecordKind, error) {}

// ObserveApply 实现 Reporter
func (NopReporter) ObserveApply(string, error) {}

// ObservePayment 实现 Reporter
func (NopReporter) ObservePayment(error) {}

// ObserveQuorum 实现 Reporter
func (NopReporter) ObserveQuorum(error) {}

// ObserveAccepted 实现 Reporter
func (NopReporter) ObserveAccepted(types.RecordKind, int) {}

// Snapshot 实现 Reporter
func (NopReporter) Snapshot() Stats { return Stats{} }
