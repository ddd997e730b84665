package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dsn/pkg/lib/codec"
	"github.com/dep2p/go-dsn/pkg/types"
)

// TestEntry_HashIgnoresSignature 测试条目哈希不覆盖签名
func TestEntry_HashIgnoresSignature(t *testing.T) {
	o := newOwner(t)
	addr := o.register(1)
	e := o.entry(t, addr, "v1")

	unsigned := &Entry{Value: e.Value, Parents: e.Parents}
	assert.Equal(t, e.Hash(), unsigned.Hash())

	other := &Entry{Value: []byte("v2")}
	assert.NotEqual(t, e.Hash(), other.Hash())
}

// TestNewEntry_NormalizesParents 测试父哈希排序去重
func TestNewEntry_NormalizesParents(t *testing.T) {
	o := newOwner(t)
	addr := o.register(1)
	root := o.entry(t, addr, "root")
	a := o.entry(t, addr, "a", root)
	b := o.entry(t, addr, "b", root)

	e1 := o.entry(t, addr, "merge", a, b, a)
	e2 := o.entry(t, addr, "merge", b, a)
	require.Len(t, e1.Parents, 2)
	assert.Equal(t, e1.Hash(), e2.Hash())
	assert.Equal(t, -1, e1.Parents[0].Compare(e1.Parents[1]))
	assert.True(t, root.IsRoot())
	assert.False(t, e1.IsRoot())
}

// TestEntry_SignatureBindsRegister 测试签名绑定寄存器
func TestEntry_SignatureBindsRegister(t *testing.T) {
	o := newOwner(t)
	reg1, reg2 := o.register(1), o.register(2)
	e := o.entry(t, reg1, "v")

	assert.NoError(t, e.VerifySignature(o.bytes, reg1.Name()))
	assert.ErrorIs(t, e.VerifySignature(o.bytes, reg2.Name()), types.ErrInvalidSignature)

	stranger := newOwner(t)
	assert.ErrorIs(t, e.VerifySignature(stranger.bytes, reg1.Name()), types.ErrInvalidSignature)
}

// TestEntry_CanonicalRoundTrip 测试条目编码往返逐字节一致
func TestEntry_CanonicalRoundTrip(t *testing.T) {
	o := newOwner(t)
	addr := o.register(1)
	root := o.entry(t, addr, "root")
	e := o.entry(t, addr, "child", root)

	data, err := e.MarshalBinary()
	require.NoError(t, err)
	decoded, err := UnmarshalEntry(data)
	require.NoError(t, err)
	assert.Equal(t, e.Hash(), decoded.Hash())

	again, err := decoded.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, data, again)

	_, err = UnmarshalEntry(append(data, 0x00))
	assert.ErrorIs(t, err, codec.ErrTrailingData)
}

// TestEntry_MarshalRejectsUnsortedParents 测试非规范父列表
func TestEntry_MarshalRejectsUnsortedParents(t *testing.T) {
	var p1, p2 EntryHash
	p1[0], p2[0] = 2, 1
	e := &Entry{Value: []byte("x"), Parents: []EntryHash{p1, p2}}
	_, err := e.MarshalBinary()
	assert.ErrorIs(t, err, codec.ErrUnsorted)
}
