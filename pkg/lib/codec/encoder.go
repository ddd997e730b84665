package codec

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field 字段编号
type Field = protowire.Number

// Encoder 规范消息体编码器
//
// 字段必须按编号升序写入；同一编号只允许用于重复字段（BytesList）。
// 顺序错误属于编程错误，直接 panic。
type Encoder struct {
	buf  []byte
	last Field
}

// NewEncoder 创建编码器
func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) advance(num Field) {
	if !num.IsValid() || num <= e.last {
		panic(fmt.Sprintf("codec: field %d written after field %d", num, e.last))
	}
	e.last = num
}

// Uint64 写入 varint 字段
func (e *Encoder) Uint64(num Field, v uint64) *Encoder {
	e.advance(num)
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
	return e
}

// Bool 写入布尔字段（0/1）
func (e *Encoder) Bool(num Field, v bool) *Encoder {
	var x uint64
	if v {
		x = 1
	}
	return e.Uint64(num, x)
}

// Bytes 写入字节字段
func (e *Encoder) Bytes(num Field, b []byte) *Encoder {
	e.advance(num)
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, b)
	return e
}

// BytesList 写入重复字节字段
//
// 元素按给定顺序写出；集合语义的字段应由调用方预先排序去重。
func (e *Encoder) BytesList(num Field, list [][]byte) *Encoder {
	e.advance(num)
	for _, b := range list {
		e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
		e.buf = protowire.AppendBytes(e.buf, b)
	}
	return e
}

// Body 返回消息体字节
func (e *Encoder) Body() []byte {
	out := make([]byte, len(e.buf))
	copy(out, e.buf)
	return out
}

// Frame 返回带帧头的完整编码
func (e *Encoder) Frame(t ObjectType) []byte {
	return Frame(t, e.buf)
}
