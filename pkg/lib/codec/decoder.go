package codec

import (
	"bytes"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Decoder 规范消息体解码器
//
// 错误是粘滞的：第一次失败之后所有读取返回零值，
// 由 Finish 统一返回第一个错误。
type Decoder struct {
	buf  []byte
	last Field
	err  error
}

// NewDecoder 创建消息体解码器
func NewDecoder(body []byte) *Decoder {
	return &Decoder{buf: body}
}

// Err 返回当前错误
func (d *Decoder) Err() error {
	return d.err
}

func (d *Decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// peekTag 读取下一个标签但不消费
func (d *Decoder) peekTag() (Field, protowire.Type, int, bool) {
	if len(d.buf) == 0 {
		return 0, 0, 0, false
	}
	num, typ, n := protowire.ConsumeTag(d.buf)
	if n < 0 {
		d.fail(fmt.Errorf("%w: %v", ErrTruncated, protowire.ParseError(n)))
		return 0, 0, 0, false
	}
	if n != protowire.SizeTag(num) {
		d.fail(fmt.Errorf("%w: tag of field %d", ErrNonCanonical, num))
		return 0, 0, 0, false
	}
	return num, typ, n, true
}

// expect 消费指定编号和类型的标签
func (d *Decoder) expect(num Field, typ protowire.Type) bool {
	if d.err != nil {
		return false
	}
	if num <= d.last {
		panic(fmt.Sprintf("codec: field %d read after field %d", num, d.last))
	}
	got, gotTyp, n, ok := d.peekTag()
	if !ok {
		d.fail(fmt.Errorf("%w: missing field %d", ErrUnexpectedField, num))
		return false
	}
	if got != num || gotTyp != typ {
		d.fail(fmt.Errorf("%w: want field %d, got field %d", ErrUnexpectedField, num, got))
		return false
	}
	d.buf = d.buf[n:]
	d.last = num
	return true
}

func (d *Decoder) consumeVarint() uint64 {
	v, n := protowire.ConsumeVarint(d.buf)
	if n < 0 {
		d.fail(fmt.Errorf("%w: %v", ErrTruncated, protowire.ParseError(n)))
		return 0
	}
	if n != protowire.SizeVarint(v) {
		d.fail(fmt.Errorf("%w: varint", ErrNonCanonical))
		return 0
	}
	d.buf = d.buf[n:]
	return v
}

func (d *Decoder) consumeBytes() []byte {
	b, n := protowire.ConsumeBytes(d.buf)
	if n < 0 {
		d.fail(fmt.Errorf("%w: %v", ErrTruncated, protowire.ParseError(n)))
		return nil
	}
	if n != protowire.SizeBytes(len(b)) {
		d.fail(fmt.Errorf("%w: length prefix", ErrNonCanonical))
		return nil
	}
	d.buf = d.buf[n:]
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Uint64 读取 varint 字段
func (d *Decoder) Uint64(num Field) uint64 {
	if !d.expect(num, protowire.VarintType) {
		return 0
	}
	return d.consumeVarint()
}

// Uint8 读取枚举类字段，超出一个字节的值视为非规范编码
func (d *Decoder) Uint8(num Field) uint8 {
	v := d.Uint64(num)
	if v > math.MaxUint8 {
		d.fail(fmt.Errorf("%w: field %d value %d out of range", ErrNonCanonical, num, v))
		return 0
	}
	return uint8(v)
}

// Bool 读取布尔字段，只接受 0 或 1
func (d *Decoder) Bool(num Field) bool {
	v := d.Uint64(num)
	if v > 1 {
		d.fail(fmt.Errorf("%w: bool field %d", ErrNonCanonical, num))
		return false
	}
	return v == 1
}

// Bytes 读取字节字段
func (d *Decoder) Bytes(num Field) []byte {
	if !d.expect(num, protowire.BytesType) {
		return nil
	}
	return d.consumeBytes()
}

// FixedBytes 读取固定长度字节字段
func (d *Decoder) FixedBytes(num Field, size int) []byte {
	b := d.Bytes(num)
	if d.err == nil && len(b) != size {
		d.fail(fmt.Errorf("%w: field %d want %d bytes, got %d", ErrInvalidLength, num, size, len(b)))
		return nil
	}
	return b
}

// BytesList 读取重复字节字段（可以为空）
func (d *Decoder) BytesList(num Field) [][]byte {
	if d.err != nil {
		return nil
	}
	if num <= d.last {
		panic(fmt.Sprintf("codec: field %d read after field %d", num, d.last))
	}
	d.last = num
	var out [][]byte
	for len(d.buf) > 0 {
		got, typ, n, ok := d.peekTag()
		if !ok || got != num {
			break
		}
		if typ != protowire.BytesType {
			d.fail(fmt.Errorf("%w: field %d wire type %d", ErrUnexpectedField, num, typ))
			return nil
		}
		d.buf = d.buf[n:]
		b := d.consumeBytes()
		if d.err != nil {
			return nil
		}
		out = append(out, b)
	}
	return out
}

// SortedBytesList 读取集合语义的重复字段，要求严格升序（即有序且唯一）
func (d *Decoder) SortedBytesList(num Field) [][]byte {
	list := d.BytesList(num)
	for i := 1; i < len(list); i++ {
		if bytes.Compare(list[i-1], list[i]) >= 0 {
			d.fail(fmt.Errorf("%w: field %d", ErrUnsorted, num))
			return nil
		}
	}
	return list
}

// Finish 结束解码，检查尾随数据并返回第一个错误
func (d *Decoder) Finish() error {
	if d.err != nil {
		return d.err
	}
	if len(d.buf) != 0 {
		return fmt.Errorf("%w: %d bytes", ErrTrailingData, len(d.buf))
	}
	return nil
}
