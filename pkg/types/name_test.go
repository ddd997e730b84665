package types

import (
	"crypto/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomName(t *testing.T) Name {
	t.Helper()
	var n Name
	_, err := rand.Read(n[:])
	require.NoError(t, err)
	return n
}

// ============================================================================
// XORDistance 测试
// ============================================================================

// TestXORDistance_Identity 测试 d(a,a) == 0
func TestXORDistance_Identity(t *testing.T) {
	for i := 0; i < 64; i++ {
		a := randomName(t)
		assert.True(t, XORDistance(a, a).IsZero())
	}
}

// TestXORDistance_Symmetric 测试 d(a,b) == d(b,a)
func TestXORDistance_Symmetric(t *testing.T) {
	for i := 0; i < 64; i++ {
		a, b := randomName(t), randomName(t)
		assert.Equal(t, XORDistance(a, b), XORDistance(b, a))
		assert.Equal(t, a.Distance(b), b.Distance(a))
	}
}

// TestXORDistance_ZeroIffEqual 测试距离为零当且仅当名字相同
func TestXORDistance_ZeroIffEqual(t *testing.T) {
	a := randomName(t)
	b := a
	b[NameSize-1] ^= 0x01
	assert.False(t, XORDistance(a, b).IsZero())
	assert.Equal(t, NameSize*8-1, XORDistance(a, b).LeadingZeros())
}

// TestDistance_Cmp 测试距离按大端无符号整数比较
func TestDistance_Cmp(t *testing.T) {
	var small, big Distance
	small[NameSize-1] = 0xff
	big[0] = 0x01
	assert.Equal(t, -1, small.Cmp(big))
	assert.Equal(t, 1, big.Cmp(small))
	assert.Equal(t, 0, big.Cmp(big))
}

// TestDistance_LeadingZeros 测试共同前缀长度
func TestDistance_LeadingZeros(t *testing.T) {
	var d Distance
	assert.Equal(t, NameSize*8, d.LeadingZeros())

	d[0] = 0x80
	assert.Equal(t, 0, d.LeadingZeros())

	d[0] = 0
	d[1] = 0x10
	assert.Equal(t, 11, d.LeadingZeros())
}

// ============================================================================
// Closer 测试
// ============================================================================

// TestCloser 测试按到目标的距离排序
func TestCloser(t *testing.T) {
	var target, near, far Name
	near[NameSize-1] = 0x01
	far[0] = 0x80

	assert.Equal(t, -1, Closer(target, near, far))
	assert.Equal(t, 1, Closer(target, far, near))
	assert.Equal(t, 0, Closer(target, near, near))
}

// TestCloser_SortIsTotal 测试 Closer 作为排序键产生严格全序
func TestCloser_SortIsTotal(t *testing.T) {
	target := randomName(t)
	names := make([]Name, 50)
	for i := range names {
		names[i] = randomName(t)
	}
	sort.Slice(names, func(i, j int) bool {
		return Closer(target, names[i], names[j]) < 0
	})
	for i := 1; i < len(names); i++ {
		assert.Equal(t, -1, XORDistance(target, names[i-1]).Cmp(XORDistance(target, names[i])))
	}
}

// ============================================================================
// 编码测试
// ============================================================================

// TestName_Base58 测试 Base58 往返
func TestName_Base58(t *testing.T) {
	n := randomName(t)
	parsed, err := ParseName(n.String())
	require.NoError(t, err)
	assert.Equal(t, n, parsed)
	assert.LessOrEqual(t, len(n.ShortString()), 8)

	_, err = ParseName("")
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = ParseName("0OIl")
	assert.ErrorIs(t, err, ErrInvalidName)
}

// TestHashName_Deterministic 测试哈希确定性
func TestHashName_Deterministic(t *testing.T) {
	assert.Equal(t, HashName([]byte("ab"), []byte("c")), HashName([]byte("abc")))
	assert.NotEqual(t, HashName([]byte("abc")), HashName([]byte("abd")))
}
