package record

import (
	"fmt"

	"github.com/dep2p/go-dsn/pkg/lib/codec"
	"github.com/dep2p/go-dsn/pkg/types"
)

const (
	recFieldAddress codec.Field = 1
	recFieldKind    codec.Field = 2
	recFieldPayload codec.Field = 3
	recFieldProof   codec.Field = 4
)

// Record 存储记录
type Record struct {
	// Address 记录地址
	Address types.Address

	// Kind 记录类型，必须与地址变体对应
	Kind types.RecordKind

	// Payload 该类型内容的规范编码
	Payload []byte

	// Proof 附带的支付收据规范编码，可以为空
	Proof []byte
}

// NewChunk 创建内容块记录
func NewChunk(payload []byte) Record {
	return Record{
		Address: types.ChunkAddressOf(payload),
		Kind:    types.KindChunk,
		Payload: payload,
	}
}

// NewRegister 创建寄存器记录，负载为条目集合的规范历史编码
func NewRegister(addr types.Address, entries []*Entry) (Record, error) {
	payload, err := EncodeHistory(entries)
	if err != nil {
		return Record{}, err
	}
	return Record{Address: addr, Kind: types.KindRegister, Payload: payload}, nil
}

// NewScratchpadRecord 创建草稿板记录
func NewScratchpadRecord(addr types.Address, sp *Scratchpad) (Record, error) {
	payload, err := sp.MarshalBinary()
	if err != nil {
		return Record{}, err
	}
	return Record{Address: addr, Kind: types.KindScratchpad, Payload: payload}, nil
}

// NewTransactionRecord 创建交易记录
func NewTransactionRecord(tx *Transaction) (Record, error) {
	payload, err := tx.MarshalBinary()
	if err != nil {
		return Record{}, err
	}
	return Record{Address: tx.Address(), Kind: types.KindTransaction, Payload: payload}, nil
}

// Size 返回计价和限额使用的大小（负载字节数）
func (r Record) Size() int {
	return len(r.Payload)
}

// MarshalBinary 返回规范编码
func (r Record) MarshalBinary() ([]byte, error) {
	addr, err := r.Address.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return codec.NewEncoder().
		Bytes(recFieldAddress, addr).
		Uint64(recFieldKind, uint64(r.Kind)).
		Bytes(recFieldPayload, r.Payload).
		Bytes(recFieldProof, r.Proof).
		Frame(codec.TypeRecord), nil
}

// UnmarshalRecord 从规范编码解析记录
//
// 只做编码层检查，内容校验由 Validate 完成。
func UnmarshalRecord(data []byte) (Record, error) {
	d, err := codec.Unframe(codec.TypeRecord, data)
	if err != nil {
		return Record{}, err
	}
	rawAddr := d.Bytes(recFieldAddress)
	kind := types.RecordKind(d.Uint8(recFieldKind))
	payload := d.Bytes(recFieldPayload)
	proof := d.Bytes(recFieldProof)
	if err := d.Finish(); err != nil {
		return Record{}, err
	}

	addr, err := types.UnmarshalAddress(rawAddr)
	if err != nil {
		return Record{}, err
	}
	if !kind.IsValid() {
		return Record{}, fmt.Errorf("%w: record kind %d", codec.ErrNonCanonical, kind)
	}
	return Record{Address: addr, Kind: kind, Payload: payload, Proof: proof}, nil
}
