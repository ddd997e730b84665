package types

import (
	"github.com/decred/dcrd/math/uint256"
)

// ============================================================================
//                              Amount - 代币数量
// ============================================================================

// AmountSize 金额的字节长度
const AmountSize = 32

// Amount 256 位无符号代币数量（最小单位）
//
// 值类型，所有运算返回新值。
type Amount struct {
	n uint256.Uint256
}

// ZeroAmount 零金额
var ZeroAmount Amount

// NewAmount 从 uint64 创建金额
func NewAmount(v uint64) Amount {
	var a Amount
	a.n.SetUint64(v)
	return a
}

// AmountFromBytes 从 32 字节大端表示创建金额
func AmountFromBytes(b [AmountSize]byte) Amount {
	var a Amount
	a.n.SetBytes(&b)
	return a
}

// Bytes 返回 32 字节大端表示
func (a Amount) Bytes() [AmountSize]byte {
	return a.n.Bytes()
}

// Add 返回 a + b；溢出时返回 false
func (a Amount) Add(b Amount) (Amount, bool) {
	sum := a.n
	sum.Add(&b.n)
	if sum.Lt(&a.n) {
		return Amount{}, false
	}
	return Amount{n: sum}, true
}

// MulUint64 返回 a × m；溢出时返回 false
func (a Amount) MulUint64(m uint64) (Amount, bool) {
	if a.n.IsZero() || m == 0 {
		return ZeroAmount, true
	}
	prod := a.n
	prod.MulUint64(m)

	// 除回去校验是否发生回绕
	var back, div uint256.Uint256
	back.Set(&prod)
	div.SetUint64(m)
	back.Div(&div)
	if !back.Eq(&a.n) {
		return Amount{}, false
	}
	return Amount{n: prod}, true
}

// Cmp 比较两个金额
func (a Amount) Cmp(b Amount) int {
	return a.n.Cmp(&b.n)
}

// Lt a < b
func (a Amount) Lt(b Amount) bool {
	return a.n.Lt(&b.n)
}

// IsZero 是否为零
func (a Amount) IsZero() bool {
	return a.n.IsZero()
}

// String 返回十进制表示
func (a Amount) String() string {
	return a.n.String()
}
