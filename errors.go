package dsn

import (
	"errors"

	"github.com/dep2p/go-dsn/pkg/types"
)

// 节点错误
var (
	// ErrNotStarted 节点未启动
	ErrNotStarted = errors.New("dsn: node not started")

	// ErrAlreadyStarted 节点已启动
	ErrAlreadyStarted = errors.New("dsn: node already started")

	// ErrNodeClosed 节点已关闭
	ErrNodeClosed = errors.New("dsn: node closed")

	// ErrNotResponsible 本节点不在目标地址的副本组中
	ErrNotResponsible = errors.New("dsn: node not in close group")

	// ErrNoTransport 未配置传输协作方
	ErrNoTransport = errors.New("dsn: no transport")

	// ErrNoLedger 未配置账本协作方
	ErrNoLedger = errors.New("dsn: no ledger")

	// ErrNoPersistence 未配置持久化协作方
	ErrNoPersistence = errors.New("dsn: no persistence")

	// ErrNilRecord 写入请求没有记录
	ErrNilRecord = errors.New("dsn: nil record")
)

// 协议错误分类，与 pkg/types 中的哨兵错误相同
var (
	ErrContentHashMismatch = types.ErrContentHashMismatch
	ErrInvalidSignature    = types.ErrInvalidSignature
	ErrMalformedHistory    = types.ErrMalformedHistory
	ErrMalformedPayload    = types.ErrMalformedPayload
	ErrRecordTooLarge      = types.ErrRecordTooLarge
	ErrCorruptHistory      = types.ErrCorruptHistory
	ErrInsufficientAmount  = types.ErrInsufficientAmount
	ErrAddressMismatch     = types.ErrAddressMismatch
	ErrInvalidProof        = types.ErrInvalidProof
	ErrQuorumUnreached     = types.ErrQuorumUnreached
)

// 带上下文的错误类型
type (
	ValidationError = types.ValidationError
	MergeError      = types.MergeError
	PaymentError    = types.PaymentError
	QuorumError     = types.QuorumError
)
