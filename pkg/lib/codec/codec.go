// Package codec 提供 DSN 的规范字节编码
//
// 地址、条目哈希和签名都派生自编码后的字节，因此编码必须稳定：
// 对解码得到的值重新编码，必须逐字节还原原始输入。
//
// 编码格式（版本 1）：
//
//	┌──────────────────────────────────────────────────────────┐
//	│  Version:    uint8 (当前为 0x01)                          │
//	│  ObjectType: uint8 (Address/Record/Entry/...)            │
//	│  Body:       protobuf 兼容的字段序列                       │
//	└──────────────────────────────────────────────────────────┘
//
// Body 规则：
//   - 字段按编号严格升序出现，标量字段总是写出（包括零值）
//   - 重复字段以相同编号连续出现
//   - varint 必须是最短编码
//   - 不允许未知字段、重复标量字段和尾随数据
package codec

import (
	"errors"
	"fmt"
)

// Version 当前编码版本
const Version byte = 0x01

// headerSize 帧头大小：1 字节版本 + 1 字节对象类型
const headerSize = 2

// ObjectType 顶层对象类型
type ObjectType byte

const (
	// TypeAddress 地址
	TypeAddress ObjectType = 0x01
	// TypeRecord 记录
	TypeRecord ObjectType = 0x02
	// TypeEntry 寄存器条目
	TypeEntry ObjectType = 0x03
	// TypeHistory 寄存器历史
	TypeHistory ObjectType = 0x04
	// TypeScratchpad 草稿板
	TypeScratchpad ObjectType = 0x05
	// TypeTransaction 交易记录
	TypeTransaction ObjectType = 0x06
	// TypeReceipt 支付收据
	TypeReceipt ObjectType = 0x07
	// TypeQuote 报价
	TypeQuote ObjectType = 0x08
	// TypeArchive 文件归档
	TypeArchive ObjectType = 0x09
)

// String 返回对象类型名称
func (t ObjectType) String() string {
	switch t {
	case TypeAddress:
		return "address"
	case TypeRecord:
		return "record"
	case TypeEntry:
		return "entry"
	case TypeHistory:
		return "history"
	case TypeScratchpad:
		return "scratchpad"
	case TypeTransaction:
		return "transaction"
	case TypeReceipt:
		return "receipt"
	case TypeQuote:
		return "quote"
	case TypeArchive:
		return "archive"
	default:
		return fmt.Sprintf("unknown(%d)", byte(t))
	}
}

// 编解码错误
var (
	// ErrTruncated 数据被截断
	ErrTruncated = errors.New("codec: truncated data")

	// ErrUnsupportedVersion 不支持的编码版本
	ErrUnsupportedVersion = errors.New("codec: unsupported version")

	// ErrObjectTypeMismatch 对象类型不匹配
	ErrObjectTypeMismatch = errors.New("codec: object type mismatch")

	// ErrUnexpectedField 字段缺失、乱序或未知
	ErrUnexpectedField = errors.New("codec: unexpected field")

	// ErrNonCanonical 非规范编码（如非最短 varint）
	ErrNonCanonical = errors.New("codec: non-canonical encoding")

	// ErrTrailingData 存在尾随数据
	ErrTrailingData = errors.New("codec: trailing data")

	// ErrInvalidLength 固定长度字段长度错误
	ErrInvalidLength = errors.New("codec: invalid field length")

	// ErrUnsorted 集合字段未排序或存在重复
	ErrUnsorted = errors.New("codec: set field not sorted or not unique")
)

// Frame 为消息体加上版本和对象类型帧头
func Frame(t ObjectType, body []byte) []byte {
	out := make([]byte, 0, headerSize+len(body))
	out = append(out, Version, byte(t))
	return append(out, body...)
}

// Unframe 校验帧头并返回消息体解码器
func Unframe(t ObjectType, data []byte) (*Decoder, error) {
	if len(data) < headerSize {
		return nil, ErrTruncated
	}
	if data[0] != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[0])
	}
	if ObjectType(data[1]) != t {
		return nil, fmt.Errorf("%w: want %s, got %s", ErrObjectTypeMismatch, t, ObjectType(data[1]))
	}
	return NewDecoder(data[headerSize:]), nil
}

// PeekType 读取帧头中的对象类型（不校验消息体）
func PeekType(data []byte) (ObjectType, error) {
	if len(data) < headerSize {
		return 0, ErrTruncated
	}
	if data[0] != Version {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[0])
	}
	return ObjectType(data[1]), nil
}
