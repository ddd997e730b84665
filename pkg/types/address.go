package types

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dep2p/go-dsn/pkg/lib/codec"
)

// 地址派生使用的域分隔前缀，防止不同变体的定义数据产生相同名字。
var (
	peerDomain        = []byte("dsn/peer")
	registerDomain    = []byte("dsn/register")
	scratchpadDomain  = []byte("dsn/scratchpad")
	transactionDomain = []byte("dsn/transaction")
)

// ErrInvalidAddress 无效的地址编码
var ErrInvalidAddress = errors.New("invalid address")

// ============================================================================
//                              Address - 统一地址
// ============================================================================

// Address 统一地址（标签联合）
//
// 每个变体由其定义数据确定性地归约为一个 Name：
//   - Peer:        HashName("dsn/peer", 公钥)
//   - Chunk:       内容哈希本身
//   - Register:    HashName("dsn/register", 所有者公钥, meta)
//   - Scratchpad:  HashName("dsn/scratchpad", 所有者公钥, 大端 index)
//   - Transaction: HashName("dsn/transaction", 账本引用)
//
// 两个地址相等当且仅当名字逐位相同。构造后不可变，可自由复制。
// 字节数据以 string 保存，保证值语义和可比较性。
type Address struct {
	kind  AddressKind
	name  Name
	data  string // 公钥 / 内容哈希 / 账本引用
	meta  Name   // 仅 Register
	index uint64 // 仅 Scratchpad
}

// PeerAddress 由节点的序列化公钥构造节点地址
func PeerAddress(publicKey []byte) Address {
	return Address{
		kind: AddressPeer,
		name: HashName(peerDomain, publicKey),
		data: string(publicKey),
	}
}

// ChunkAddress 由内容哈希构造数据块地址
func ChunkAddress(contentHash Name) Address {
	return Address{
		kind: AddressChunk,
		name: contentHash,
		data: string(contentHash[:]),
	}
}

// ChunkAddressOf 计算负载的内容哈希并构造数据块地址
func ChunkAddressOf(payload []byte) Address {
	return ChunkAddress(HashName(payload))
}

// RegisterAddress 由所有者公钥和子索引构造寄存器地址
func RegisterAddress(owner []byte, meta Name) Address {
	return Address{
		kind: AddressRegister,
		name: HashName(registerDomain, owner, meta[:]),
		data: string(owner),
		meta: meta,
	}
}

// ScratchpadAddress 由所有者公钥和索引构造草稿板地址
func ScratchpadAddress(owner []byte, index uint64) Address {
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], index)
	return Address{
		kind:  AddressScratchpad,
		name:  HashName(scratchpadDomain, owner, idx[:]),
		data:  string(owner),
		index: index,
	}
}

// TransactionAddress 由账本引用构造交易记录地址
func TransactionAddress(ledgerRef []byte) Address {
	return Address{
		kind: AddressTransaction,
		name: HashName(transactionDomain, ledgerRef),
		data: string(ledgerRef),
	}
}

// Kind 返回地址变体
func (a Address) Kind() AddressKind {
	return a.kind
}

// Name 返回归约后的 256 位名字
func (a Address) Name() Name {
	return a.name
}

// Key 返回地址中的公钥（节点公钥或所有者公钥）
//
// Chunk 和 Transaction 地址没有公钥，返回 nil。
func (a Address) Key() []byte {
	switch a.kind {
	case AddressPeer, AddressRegister, AddressScratchpad:
		return []byte(a.data)
	default:
		return nil
	}
}

// Meta 返回寄存器子索引
func (a Address) Meta() Name {
	return a.meta
}

// Index 返回草稿板索引
func (a Address) Index() uint64 {
	return a.index
}

// LedgerRef 返回交易记录的账本引用
func (a Address) LedgerRef() []byte {
	if a.kind != AddressTransaction {
		return nil
	}
	return []byte(a.data)
}

// IsZero 是否为零值地址
func (a Address) IsZero() bool {
	return a.kind == 0
}

// Equal 比较两个地址（按名字）
func (a Address) Equal(other Address) bool {
	return a.name == other.name
}

// Distance 返回到另一个地址的 XOR 距离
func (a Address) Distance(other Address) Distance {
	return XORDistance(a.name, other.name)
}

// String 返回 "<变体>:<Base58 名字>"
func (a Address) String() string {
	if a.IsZero() {
		return ""
	}
	return a.kind.String() + ":" + a.name.String()
}

// ============================================================================
//                              规范编码
// ============================================================================

// 地址编码字段
const (
	addrFieldKind  codec.Field = 1
	addrFieldData  codec.Field = 2
	addrFieldMeta  codec.Field = 3
	addrFieldIndex codec.Field = 4
)

// MarshalBinary 返回地址的规范编码
//
// 只编码定义数据；名字在解码时重新派生。
func (a Address) MarshalBinary() ([]byte, error) {
	if !a.kind.IsValid() {
		return nil, fmt.Errorf("%w: kind %s", ErrInvalidAddress, a.kind)
	}
	var meta []byte
	if a.kind == AddressRegister {
		meta = a.meta[:]
	}
	return codec.NewEncoder().
		Uint64(addrFieldKind, uint64(a.kind)).
		Bytes(addrFieldData, []byte(a.data)).
		Bytes(addrFieldMeta, meta).
		Uint64(addrFieldIndex, a.index).
		Frame(codec.TypeAddress), nil
}

// UnmarshalAddress 从规范编码解析地址
//
// 除了字段级校验之外，还要求变体无关字段为零值，保证编码唯一。
func UnmarshalAddress(data []byte) (Address, error) {
	d, err := codec.Unframe(codec.TypeAddress, data)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	kind := AddressKind(d.Uint8(addrFieldKind))
	raw := d.Bytes(addrFieldData)
	meta := d.Bytes(addrFieldMeta)
	index := d.Uint64(addrFieldIndex)
	if err := d.Finish(); err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}

	if kind != AddressRegister && len(meta) != 0 {
		return Address{}, fmt.Errorf("%w: meta on %s address", ErrInvalidAddress, kind)
	}
	if kind != AddressScratchpad && index != 0 {
		return Address{}, fmt.Errorf("%w: index on %s address", ErrInvalidAddress, kind)
	}

	switch kind {
	case AddressPeer:
		if len(raw) == 0 {
			return Address{}, fmt.Errorf("%w: empty peer key", ErrInvalidAddress)
		}
		return PeerAddress(raw), nil
	case AddressChunk:
		h, err := NameFromBytes(raw)
		if err != nil {
			return Address{}, fmt.Errorf("%w: chunk hash: %v", ErrInvalidAddress, err)
		}
		return ChunkAddress(h), nil
	case AddressRegister:
		if len(raw) == 0 {
			return Address{}, fmt.Errorf("%w: empty owner key", ErrInvalidAddress)
		}
		m, err := NameFromBytes(meta)
		if err != nil {
			return Address{}, fmt.Errorf("%w: register meta: %v", ErrInvalidAddress, err)
		}
		return RegisterAddress(raw, m), nil
	case AddressScratchpad:
		if len(raw) == 0 {
			return Address{}, fmt.Errorf("%w: empty owner key", ErrInvalidAddress)
		}
		return ScratchpadAddress(raw, index), nil
	case AddressTransaction:
		if len(raw) == 0 {
			return Address{}, fmt.Errorf("%w: empty ledger reference", ErrInvalidAddress)
		}
		return TransactionAddress(raw), nil
	default:
		return Address{}, fmt.Errorf("%w: unknown kind %d", ErrInvalidAddress, uint8(kind))
	}
}
