package types

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
//                              校验错误
// ============================================================================

var (
	// ErrContentHashMismatch 内容哈希与地址不一致
	ErrContentHashMismatch = errors.New("validation: content hash mismatch")

	// ErrInvalidSignature 签名无法通过所有者公钥验证
	ErrInvalidSignature = errors.New("validation: invalid signature")

	// ErrMalformedHistory 寄存器历史结构非法（空历史、多个根、缺失父条目等）
	ErrMalformedHistory = errors.New("validation: malformed history")

	// ErrMalformedPayload 负载无法解析或结构检查失败
	ErrMalformedPayload = errors.New("validation: malformed payload")

	// ErrRecordTooLarge 记录超过配置的大小上限
	ErrRecordTooLarge = errors.New("validation: record too large")
)

// ============================================================================
//                              合并错误
// ============================================================================

var (
	// ErrCorruptHistory 不可恢复的结构损坏（不同寄存器、不同根）
	//
	// 乱序到达不属于此类错误，而是返回 Pending 状态。
	ErrCorruptHistory = errors.New("merge: corrupt history")
)

// ============================================================================
//                              支付错误
// ============================================================================

var (
	// ErrInsufficientAmount 收据金额低于报价
	ErrInsufficientAmount = errors.New("payment: insufficient amount")

	// ErrAddressMismatch 收据绑定的地址与目标地址不一致
	ErrAddressMismatch = errors.New("payment: address mismatch")

	// ErrInvalidProof 收据的密码学证明验证失败
	ErrInvalidProof = errors.New("payment: invalid proof")
)

// ============================================================================
//                              法定人数错误
// ============================================================================

var (
	// ErrQuorumUnreached 一致响应数量未达到法定人数
	ErrQuorumUnreached = errors.New("quorum: unreached")
)

// ============================================================================
//                              带上下文的错误类型
// ============================================================================

// ValidationError 记录校验错误
type ValidationError struct {
	Address Name   // 记录地址
	Err     error  // 分类哨兵错误
	Message string // 详细信息
}

// Error 实现 error 接口
func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v: %s (address %s)", e.Err, e.Message, e.Address.ShortString())
	}
	return fmt.Sprintf("%v (address %s)", e.Err, e.Address.ShortString())
}

// Unwrap 实现错误解包
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError 创建校验错误
func NewValidationError(addr Name, err error, format string, args ...any) *ValidationError {
	return &ValidationError{
		Address: addr,
		Err:     err,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapValidation 将已经用哨兵包装过的错误转换为 ValidationError
//
// err 的文本中哨兵前缀只保留一次，由 Error 输出。
func WrapValidation(addr Name, sentinel, err error) *ValidationError {
	msg := err.Error()
	if msg == sentinel.Error() {
		msg = ""
	} else {
		msg = strings.Replace(msg, sentinel.Error()+": ", "", 1)
	}
	return &ValidationError{Address: addr, Err: sentinel, Message: msg}
}

// MergeError 合并错误，仅用于不可恢复的结构损坏
type MergeError struct {
	Op      string // 操作名称
	Err     error  // 底层错误
	Message string // 错误消息
}

// Error 实现 error 接口
func (e *MergeError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("register %s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("register %s: %v", e.Op, e.Err)
}

// Unwrap 实现错误解包
func (e *MergeError) Unwrap() error {
	return e.Err
}

// NewMergeError 创建合并错误
func NewMergeError(op, message string) *MergeError {
	return &MergeError{
		Op:      op,
		Err:     ErrCorruptHistory,
		Message: message,
	}
}

// PaymentError 支付校验错误
type PaymentError struct {
	Target   Name   // 目标地址
	Err      error  // 分类哨兵错误
	Expected Amount // 期望金额
	Actual   Amount // 收据金额
}

// Error 实现 error 接口
func (e *PaymentError) Error() string {
	if errors.Is(e.Err, ErrInsufficientAmount) {
		return fmt.Sprintf("%v: paid %s, expected %s (target %s)",
			e.Err, e.Actual, e.Expected, e.Target.ShortString())
	}
	return fmt.Sprintf("%v (target %s)", e.Err, e.Target.ShortString())
}

// Unwrap 实现错误解包
func (e *PaymentError) Unwrap() error {
	return e.Err
}

// QuorumError 法定人数错误
type QuorumError struct {
	Target   Name // 查询目标
	Required int  // 需要的一致响应数
	Matching int  // 实际最多的一致响应数
}

// Error 实现 error 接口
func (e *QuorumError) Error() string {
	return fmt.Sprintf("%v: %d matching of %d required (target %s)",
		ErrQuorumUnreached, e.Matching, e.Required, e.Target.ShortString())
}

// Unwrap 实现错误解包
func (e *QuorumError) Unwrap() error {
	return ErrQuorumUnreached
}
