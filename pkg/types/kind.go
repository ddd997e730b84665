package types

import "fmt"

// ============================================================================
//                              AddressKind - 地址变体
// ============================================================================

// AddressKind 地址变体标签
//
// 这是一个封闭集合：新增变体需要全网同步升级。
type AddressKind uint8

const (
	// AddressPeer 节点地址，由节点公钥派生
	AddressPeer AddressKind = 1
	// AddressChunk 不可变数据块地址，即内容哈希
	AddressChunk AddressKind = 2
	// AddressRegister CRDT 寄存器地址，由所有者公钥和子索引派生
	AddressRegister AddressKind = 3
	// AddressScratchpad 草稿板地址，由所有者公钥和索引派生
	AddressScratchpad AddressKind = 4
	// AddressTransaction 交易记录地址，由账本引用派生
	AddressTransaction AddressKind = 5
)

// String 返回地址变体名称
func (k AddressKind) String() string {
	switch k {
	case AddressPeer:
		return "peer"
	case AddressChunk:
		return "chunk"
	case AddressRegister:
		return "register"
	case AddressScratchpad:
		return "scratchpad"
	case AddressTransaction:
		return "transaction"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// IsValid 是否为已知变体
func (k AddressKind) IsValid() bool {
	return k >= AddressPeer && k <= AddressTransaction
}

// RecordKind 返回该地址变体对应的记录类型
//
// 节点地址不承载记录，返回 false。
func (k AddressKind) RecordKind() (RecordKind, bool) {
	switch k {
	case AddressChunk:
		return KindChunk, true
	case AddressRegister:
		return KindRegister, true
	case AddressScratchpad:
		return KindScratchpad, true
	case AddressTransaction:
		return KindTransaction, true
	default:
		return 0, false
	}
}

// ============================================================================
//                              RecordKind - 记录类型
// ============================================================================

// RecordKind 记录类型
//
// 封闭集合，校验和定价都对其做穷举匹配。
type RecordKind uint8

const (
	// KindChunk 不可变内容寻址数据块
	KindChunk RecordKind = 1
	// KindRegister CRDT 寄存器
	KindRegister RecordKind = 2
	// KindScratchpad 带计数器的可变草稿板
	KindScratchpad RecordKind = 3
	// KindTransaction 交易记录
	KindTransaction RecordKind = 4
)

// RecordKinds 所有记录类型
var RecordKinds = []RecordKind{KindChunk, KindRegister, KindScratchpad, KindTransaction}

// String 返回记录类型名称
func (k RecordKind) String() string {
	switch k {
	case KindChunk:
		return "chunk"
	case KindRegister:
		return "register"
	case KindScratchpad:
		return "scratchpad"
	case KindTransaction:
		return "transaction"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// IsValid 是否为已知记录类型
func (k RecordKind) IsValid() bool {
	return k >= KindChunk && k <= KindTransaction
}

// AddressKind 返回记录类型对应的地址变体
func (k RecordKind) AddressKind() AddressKind {
	switch k {
	case KindChunk:
		return AddressChunk
	case KindRegister:
		return AddressRegister
	case KindScratchpad:
		return AddressScratchpad
	case KindTransaction:
		return AddressTransaction
	default:
		return 0
	}
}
