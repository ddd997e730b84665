package types

// ============================================================================
//                              写入接纳事件
// ============================================================================

// WriteStage 写入处理阶段
type WriteStage string

const (
	// StageValidation 记录校验
	StageValidation WriteStage = "validation"

	// StagePayment 支付校验
	StagePayment WriteStage = "payment"

	// StageCloseGroup 副本组成员检查
	StageCloseGroup WriteStage = "closegroup"

	// StageApply 合并或存储
	StageApply WriteStage = "apply"
)

// EvtWriteAccepted 写入已接纳
type EvtWriteAccepted struct {
	// RequestID 请求标识
	RequestID string

	// Address 记录地址
	Address Address

	// Kind 记录类型
	Kind RecordKind

	// Size 负载字节数
	Size int

	// Stored 是否改变了持久化状态；重复写入和只产生待定条目的写入为 false
	Stored bool
}

// EvtWriteRejected 写入被拒绝
type EvtWriteRejected struct {
	RequestID string
	Address   Address
	Kind      RecordKind

	// Stage 拒绝发生的阶段
	Stage WriteStage

	// Err 拒绝原因
	Err error
}
