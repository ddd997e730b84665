package record

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/mr-tron/base58"
	"lukechampine.com/blake3"

	"github.com/dep2p/go-dsn/pkg/lib/codec"
	"github.com/dep2p/go-dsn/pkg/lib/crypto"
	"github.com/dep2p/go-dsn/pkg/types"
)

// EntrySigningDomain 寄存器条目签名的域分隔前缀
const EntrySigningDomain = "dsn/register-entry"

// EntryHashSize 条目哈希长度
const EntryHashSize = 32

// EntryHash 条目哈希，BLAKE3-256(规范(Value, Parents))
type EntryHash [EntryHashSize]byte

// String 返回 Base58 表示
func (h EntryHash) String() string {
	return base58.Encode(h[:])
}

// Compare 按字节序比较
func (h EntryHash) Compare(other EntryHash) int {
	return bytes.Compare(h[:], other[:])
}

const (
	entryFieldValue     codec.Field = 1
	entryFieldParents   codec.Field = 2
	entryFieldSignature codec.Field = 3
)

// Entry 寄存器条目
//
// 没有父条目的是根条目。创建后不可修改。
type Entry struct {
	Value     []byte
	Parents   []EntryHash // 升序且唯一
	Signature []byte
}

// NewEntry 创建并签名条目
//
// 父哈希会被排序去重。签名覆盖寄存器名字，条目不能被重放到
// 同一所有者的另一个寄存器。
func NewEntry(key crypto.PrivateKey, register types.Name, value []byte, parents []EntryHash) (*Entry, error) {
	e := &Entry{
		Value:   append([]byte(nil), value...),
		Parents: normalizeParents(parents),
	}
	h := e.Hash()
	sig, err := crypto.SignWithDomain(key, EntrySigningDomain, register[:], h[:])
	if err != nil {
		return nil, fmt.Errorf("sign entry: %w", err)
	}
	e.Signature = sig
	return e, nil
}

func normalizeParents(parents []EntryHash) []EntryHash {
	if len(parents) == 0 {
		return nil
	}
	out := append([]EntryHash(nil), parents...)
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}

// IsRoot 是否为根条目
func (e *Entry) IsRoot() bool {
	return len(e.Parents) == 0
}

func (e *Entry) parentBytes() [][]byte {
	list := make([][]byte, len(e.Parents))
	for i := range e.Parents {
		list[i] = e.Parents[i][:]
	}
	return list
}

// Hash 计算条目哈希
//
// 哈希只覆盖 Value 和 Parents，不覆盖签名。
func (e *Entry) Hash() EntryHash {
	body := codec.NewEncoder().
		Bytes(entryFieldValue, e.Value).
		BytesList(entryFieldParents, e.parentBytes()).
		Frame(codec.TypeEntry)
	return blake3.Sum256(body)
}

// VerifySignature 使用所有者公钥验证条目签名
//
// owner 是地址中保存的序列化公钥。
func (e *Entry) VerifySignature(owner []byte, register types.Name) error {
	h := e.Hash()
	return e.verifyHashed(owner, register, h)
}

func (e *Entry) verifyHashed(owner []byte, register types.Name, h EntryHash) error {
	if err := crypto.VerifyOwner(owner, EntrySigningDomain, e.Signature, register[:], h[:]); err != nil {
		return fmt.Errorf("%w: entry %s: %v", types.ErrInvalidSignature, h, err)
	}
	return nil
}

// MarshalBinary 返回条目的规范编码
func (e *Entry) MarshalBinary() ([]byte, error) {
	for i := 1; i < len(e.Parents); i++ {
		if e.Parents[i-1].Compare(e.Parents[i]) >= 0 {
			return nil, fmt.Errorf("%w: entry parents", codec.ErrUnsorted)
		}
	}
	return codec.NewEncoder().
		Bytes(entryFieldValue, e.Value).
		BytesList(entryFieldParents, e.parentBytes()).
		Bytes(entryFieldSignature, e.Signature).
		Frame(codec.TypeEntry), nil
}

// UnmarshalEntry 从规范编码解析条目
func UnmarshalEntry(data []byte) (*Entry, error) {
	d, err := codec.Unframe(codec.TypeEntry, data)
	if err != nil {
		return nil, err
	}
	value := d.Bytes(entryFieldValue)
	parents := d.SortedBytesList(entryFieldParents)
	sig := d.Bytes(entryFieldSignature)
	if err := d.Finish(); err != nil {
		return nil, err
	}

	e := &Entry{Value: value, Signature: sig}
	for _, p := range parents {
		if len(p) != EntryHashSize {
			return nil, fmt.Errorf("%w: parent hash length %d", codec.ErrInvalidLength, len(p))
		}
		var h EntryHash
		copy(h[:], p)
		e.Parents = append(e.Parents, h)
	}
	return e, nil
}
