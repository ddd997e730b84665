package types

import (
	"bytes"
	"errors"
	"math/bits"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"
)

// ============================================================================
//                              Name - 256 位名字
// ============================================================================

// NameSize 名字字节长度（256 位）
const NameSize = 32

// Name 固定宽度的 256 位名字
//
// 所有地址变体最终都归约为一个 Name，XOR 距离在 Name 上定义。
//
// 外部表示格式：
//   - String(): Base58 编码
//   - ShortString(): Base58 前 8 个字符（日志简短标识）
type Name [NameSize]byte

// ZeroName 全零名字
var ZeroName Name

// ErrInvalidName 无效的名字
var ErrInvalidName = errors.New("invalid name: must be 32 bytes")

// HashName 计算名字哈希
//
// 使用 SHA3-256，对所有参数按顺序拼接后哈希。
// 这是内容寻址使用的唯一哈希函数：chunk 地址 = HashName(payload)。
func HashName(parts ...[]byte) Name {
	h := sha3.New256()
	for _, p := range parts {
		h.Write(p)
	}
	var n Name
	copy(n[:], h.Sum(nil))
	return n
}

// NameFromBytes 从字节切片创建 Name
func NameFromBytes(b []byte) (Name, error) {
	if len(b) != NameSize {
		return ZeroName, ErrInvalidName
	}
	var n Name
	copy(n[:], b)
	return n, nil
}

// ParseName 从 Base58 字符串解析 Name
func ParseName(s string) (Name, error) {
	if s == "" {
		return ZeroName, ErrInvalidName
	}
	b, err := base58.Decode(s)
	if err != nil {
		return ZeroName, ErrInvalidName
	}
	return NameFromBytes(b)
}

// String 返回 Base58 字符串表示
func (n Name) String() string {
	return base58.Encode(n[:])
}

// ShortString 返回短字符串表示，用于日志
func (n Name) ShortString() string {
	s := n.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// Bytes 返回名字字节的副本
func (n Name) Bytes() []byte {
	b := make([]byte, NameSize)
	copy(b, n[:])
	return b
}

// IsZero 检查是否为全零名字
func (n Name) IsZero() bool {
	return n == ZeroName
}

// Compare 按大端无符号整数比较两个名字
func (n Name) Compare(other Name) int {
	return bytes.Compare(n[:], other[:])
}

// Distance 返回与另一个名字的 XOR 距离
func (n Name) Distance(other Name) Distance {
	return XORDistance(n, other)
}

// ============================================================================
//                              Distance - XOR 距离
// ============================================================================

// Distance 两个名字之间的 XOR 距离
//
// 与 Name 同宽，按大端无符号整数比较。
// 性质：d(a,b) == d(b,a)；d(a,b) == 0 当且仅当 a == b。
type Distance [NameSize]byte

// XORDistance 计算两个名字的 XOR 距离
func XORDistance(a, b Name) Distance {
	var d Distance
	for i := 0; i < NameSize; i++ {
		d[i] = a[i] ^ b[i]
	}
	return d
}

// Cmp 比较两个距离
//
// 返回：
//
//	-1 如果 d < other
//	 0 如果 d == other
//	 1 如果 d > other
func (d Distance) Cmp(other Distance) int {
	return bytes.Compare(d[:], other[:])
}

// IsZero 距离是否为零
func (d Distance) IsZero() bool {
	return d == Distance{}
}

// LeadingZeros 返回前导零位数，即两个名字的共同前缀长度
func (d Distance) LeadingZeros() int {
	zeros := 0
	for _, b := range d {
		if b != 0 {
			return zeros + bits.LeadingZeros8(b)
		}
		zeros += 8
	}
	return zeros
}

// Closer 比较 a 和 b 到 target 的距离
//
// 返回：
//
//	-1 如果 dist(target, a) < dist(target, b)
//	 0 如果距离相等（仅当 a == b）
//	 1 如果 dist(target, a) > dist(target, b)
func Closer(target, a, b Name) int {
	return XORDistance(target, a).Cmp(XORDistance(target, b))
}
