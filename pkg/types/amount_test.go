package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAmount_Arithmetic 测试金额运算
func TestAmount_Arithmetic(t *testing.T) {
	a := NewAmount(40)
	b := NewAmount(2)

	sum, ok := a.Add(b)
	assert.True(t, ok)
	assert.Equal(t, "42", sum.String())

	prod, ok := a.MulUint64(3)
	assert.True(t, ok)
	assert.Equal(t, 0, prod.Cmp(NewAmount(120)))

	assert.True(t, b.Lt(a))
	assert.False(t, a.Lt(b))
	assert.True(t, ZeroAmount.IsZero())
}

// TestAmount_Overflow 测试溢出检测
func TestAmount_Overflow(t *testing.T) {
	var max [AmountSize]byte
	for i := range max {
		max[i] = 0xff
	}
	top := AmountFromBytes(max)

	_, ok := top.Add(NewAmount(1))
	assert.False(t, ok)

	_, ok = top.MulUint64(2)
	assert.False(t, ok)

	same, ok := top.MulUint64(1)
	assert.True(t, ok)
	assert.Equal(t, top.Bytes(), same.Bytes())
}
