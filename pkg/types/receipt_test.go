package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReceipt() *Receipt {
	return &Receipt{
		Payer:     []byte("payer-key"),
		Amount:    NewAmount(1024),
		Target:    ChunkAddressOf([]byte("payload")),
		QuoteHash: [QuoteHashSize]byte{9, 8, 7},
		Proof:     []byte("proof"),
	}
}

// TestReceipt_CanonicalRoundTrip 测试收据编码往返
func TestReceipt_CanonicalRoundTrip(t *testing.T) {
	r := sampleReceipt()
	data, err := r.MarshalBinary()
	require.NoError(t, err)

	decoded, err := UnmarshalReceipt(data)
	require.NoError(t, err)
	assert.True(t, decoded.Target.Equal(r.Target))
	assert.Equal(t, 0, decoded.Amount.Cmp(r.Amount))
	assert.Equal(t, r.QuoteHash, decoded.QuoteHash)

	again, err := decoded.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

// TestReceipt_SigningBytes 测试签名字节不包含证明
func TestReceipt_SigningBytes(t *testing.T) {
	r := sampleReceipt()
	a, err := r.SigningBytes()
	require.NoError(t, err)

	r.Proof = []byte("another proof")
	b, err := r.SigningBytes()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	r.Amount = NewAmount(1)
	c, err := r.SigningBytes()
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

// TestUnmarshalReceipt_Rejects 测试非法收据编码
func TestUnmarshalReceipt_Rejects(t *testing.T) {
	_, err := (&Receipt{}).MarshalBinary()
	assert.ErrorIs(t, err, ErrInvalidReceipt)

	data, err := sampleReceipt().MarshalBinary()
	require.NoError(t, err)

	_, err = UnmarshalReceipt(data[:len(data)-1])
	assert.ErrorIs(t, err, ErrInvalidReceipt)

	_, err = UnmarshalReceipt(append(data, 0))
	assert.ErrorIs(t, err, ErrInvalidReceipt)
}
