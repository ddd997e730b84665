package record

import (
	"bytes"
	"fmt"

	"github.com/dep2p/go-dsn/pkg/lib/codec"
	"github.com/dep2p/go-dsn/pkg/lib/crypto"
	"github.com/dep2p/go-dsn/pkg/types"
)

// ScratchpadSigningDomain 草稿板签名的域分隔前缀
const ScratchpadSigningDomain = "dsn/scratchpad"

const (
	spFieldEncoding  codec.Field = 1
	spFieldData      codec.Field = 2
	spFieldCounter   codec.Field = 3
	spFieldSignature codec.Field = 4
)

// Scratchpad 草稿板
//
// 所有者签名的可替换数据块。计数器更高的版本替换旧版本。
type Scratchpad struct {
	// Encoding 应用自定义的数据编码标识
	Encoding uint64

	// Data 数据
	Data []byte

	// Counter 版本计数器
	Counter uint64

	// Signature 所有者签名
	Signature []byte
}

// NewScratchpad 创建并签名草稿板
func NewScratchpad(key crypto.PrivateKey, addr types.Address, encoding uint64, data []byte, counter uint64) (*Scratchpad, error) {
	sp := &Scratchpad{
		Encoding: encoding,
		Data:     append([]byte(nil), data...),
		Counter:  counter,
	}
	name := addr.Name()
	sig, err := crypto.SignWithDomain(key, ScratchpadSigningDomain, name[:], sp.signedBody())
	if err != nil {
		return nil, fmt.Errorf("sign scratchpad: %w", err)
	}
	sp.Signature = sig
	return sp, nil
}

func (sp *Scratchpad) signedBody() []byte {
	return codec.NewEncoder().
		Uint64(spFieldEncoding, sp.Encoding).
		Bytes(spFieldData, sp.Data).
		Uint64(spFieldCounter, sp.Counter).
		Body()
}

// Verify 使用地址中的所有者公钥验证签名
func (sp *Scratchpad) Verify(addr types.Address) error {
	if addr.Kind() != types.AddressScratchpad {
		return fmt.Errorf("%w: %s is not a scratchpad address", types.ErrMalformedPayload, addr)
	}
	name := addr.Name()
	if err := crypto.VerifyOwner(addr.Key(), ScratchpadSigningDomain, sp.Signature, name[:], sp.signedBody()); err != nil {
		return fmt.Errorf("%w: scratchpad counter %d: %v", types.ErrInvalidSignature, sp.Counter, err)
	}
	return nil
}

// MarshalBinary 返回规范编码
func (sp *Scratchpad) MarshalBinary() ([]byte, error) {
	return codec.NewEncoder().
		Uint64(spFieldEncoding, sp.Encoding).
		Bytes(spFieldData, sp.Data).
		Uint64(spFieldCounter, sp.Counter).
		Bytes(spFieldSignature, sp.Signature).
		Frame(codec.TypeScratchpad), nil
}

// UnmarshalScratchpad 从规范编码解析草稿板
func UnmarshalScratchpad(data []byte) (*Scratchpad, error) {
	d, err := codec.Unframe(codec.TypeScratchpad, data)
	if err != nil {
		return nil, err
	}
	sp := &Scratchpad{
		Encoding:  d.Uint64(spFieldEncoding),
		Data:      d.Bytes(spFieldData),
		Counter:   d.Uint64(spFieldCounter),
		Signature: d.Bytes(spFieldSignature),
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return sp, nil
}

// NewerScratchpad 返回两个版本中应保留的一个
//
// 计数器大者胜出；计数器相同时取签名字节较小者，保证所有副本选择一致。
func NewerScratchpad(a, b *Scratchpad) *Scratchpad {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.Counter != b.Counter:
		if a.Counter > b.Counter {
			return a
		}
		return b
	case bytes.Compare(a.Signature, b.Signature) <= 0:
		return a
	default:
		return b
	}
}
