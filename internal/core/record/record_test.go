package record

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/dep2p/go-dsn/pkg/lib/codec"
	"github.com/dep2p/go-dsn/pkg/types"
)

// ============================================================================
// Chunk 测试
// ============================================================================

// TestValidate_Chunk 测试合法内容块
func TestValidate_Chunk(t *testing.T) {
	rec := NewChunk([]byte("hello dsn"))
	assert.NoError(t, Validate(rec, defaultLimits()))
}

// TestValidate_ChunkBitFlip 测试任意一位翻转都导致内容哈希不匹配
func TestValidate_ChunkBitFlip(t *testing.T) {
	payload := []byte("content addressed")
	rec := NewChunk(payload)

	for i := 0; i < len(payload)*8; i++ {
		flipped := append([]byte(nil), payload...)
		flipped[i/8] ^= 1 << (i % 8)
		bad := rec
		bad.Payload = flipped

		err := Validate(bad, defaultLimits())
		require.ErrorIs(t, err, types.ErrContentHashMismatch, "bit %d", i)

		var verr *types.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, rec.Address.Name(), verr.Address)
	}
}

// TestValidate_SizeBoundary 测试大小上限边界
func TestValidate_SizeBoundary(t *testing.T) {
	limits := defaultLimits()
	limits.MaxChunkSize = 64

	atLimit := NewChunk(make([]byte, 64))
	assert.NoError(t, Validate(atLimit, limits))

	over := NewChunk(make([]byte, 65))
	assert.ErrorIs(t, Validate(over, limits), types.ErrRecordTooLarge)
}

// TestValidate_KindMismatch 测试类型与地址不一致
func TestValidate_KindMismatch(t *testing.T) {
	rec := NewChunk([]byte("x"))
	rec.Kind = types.KindScratchpad
	assert.ErrorIs(t, Validate(rec, defaultLimits()), types.ErrMalformedPayload)

	rec.Kind = types.RecordKind(42)
	assert.ErrorIs(t, Validate(rec, defaultLimits()), types.ErrMalformedPayload)
}

// ============================================================================
// Register 测试
// ============================================================================

// TestValidate_Register 测试合法寄存器历史
func TestValidate_Register(t *testing.T) {
	o := newOwner(t)
	addr := o.register(1)
	root := o.entry(t, addr, "root")
	e1 := o.entry(t, addr, "e1", root)
	e2 := o.entry(t, addr, "e2", root)
	merged := o.entry(t, addr, "m", e1, e2)

	rec, err := NewRegister(addr, []*Entry{merged, e2, root, e1})
	require.NoError(t, err)
	assert.NoError(t, Validate(rec, defaultLimits()))

	// 编码与输入顺序无关
	again, err := NewRegister(addr, []*Entry{root, e1, e2, merged})
	require.NoError(t, err)
	assert.Equal(t, rec.Payload, again.Payload)
}

// TestValidate_RegisterForeignSignature 测试非所有者签名
func TestValidate_RegisterForeignSignature(t *testing.T) {
	o := newOwner(t)
	mallory := newOwner(t)
	addr := o.register(1)

	root := o.entry(t, addr, "root")
	forged := mallory.entry(t, addr, "forged", root)

	rec, err := NewRegister(addr, []*Entry{root, forged})
	require.NoError(t, err)
	assert.ErrorIs(t, Validate(rec, defaultLimits()), types.ErrInvalidSignature)
}

// TestValidate_RegisterReplayAcrossRegisters 测试跨寄存器重放
func TestValidate_RegisterReplayAcrossRegisters(t *testing.T) {
	o := newOwner(t)
	root := o.entry(t, o.register(1), "root")

	rec, err := NewRegister(o.register(2), []*Entry{root})
	require.NoError(t, err)
	assert.ErrorIs(t, Validate(rec, defaultLimits()), types.ErrInvalidSignature)
}

// TestValidate_RegisterMalformed 测试结构非法的历史
func TestValidate_RegisterMalformed(t *testing.T) {
	o := newOwner(t)
	addr := o.register(1)
	root := o.entry(t, addr, "root")
	otherRoot := o.entry(t, addr, "other root")
	orphanParent := o.entry(t, addr, "missing")
	orphan := o.entry(t, addr, "orphan", orphanParent)

	tests := []struct {
		name    string
		entries []*Entry
	}{
		{"Empty", nil},
		{"TwoRoots", []*Entry{root, otherRoot}},
		{"UnknownParent", []*Entry{root, orphan}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NewRegister(addr, tt.entries)
			require.NoError(t, err)
			assert.ErrorIs(t, Validate(rec, defaultLimits()), types.ErrMalformedHistory)
		})
	}
}

// TestValidate_MessageNotDoubled 测试错误文本中分类前缀只出现一次
func TestValidate_MessageNotDoubled(t *testing.T) {
	o := newOwner(t)
	addr := o.register(1)
	orphan := o.entry(t, addr, "orphan", o.entry(t, addr, "missing"))

	rec, err := NewRegister(addr, []*Entry{o.entry(t, addr, "root"), orphan})
	require.NoError(t, err)
	verr := Validate(rec, defaultLimits())
	require.ErrorIs(t, verr, types.ErrMalformedHistory)
	assert.Equal(t, 1, strings.Count(verr.Error(), types.ErrMalformedHistory.Error()))
}

// TestValidateFragment 测试只携带新条目的历史片段
func TestValidateFragment(t *testing.T) {
	o := newOwner(t)
	mallory := newOwner(t)
	addr := o.register(1)
	root := o.entry(t, addr, "root")
	first := o.entry(t, addr, "first", root)
	second := o.entry(t, addr, "second", first)

	// 父条目不在片段内：完整校验失败，片段校验通过
	rec, err := NewRegister(addr, []*Entry{second})
	require.NoError(t, err)
	assert.ErrorIs(t, Validate(rec, defaultLimits()), types.ErrMalformedHistory)
	assert.NoError(t, ValidateFragment(rec, defaultLimits()))

	forged, err := NewRegister(addr, []*Entry{mallory.entry(t, addr, "forged", root)})
	require.NoError(t, err)
	assert.ErrorIs(t, ValidateFragment(forged, defaultLimits()), types.ErrInvalidSignature)

	empty, err := NewRegister(addr, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, ValidateFragment(empty, defaultLimits()), types.ErrMalformedHistory)

	chunk := NewChunk([]byte("x"))
	assert.ErrorIs(t, ValidateFragment(chunk, defaultLimits()), types.ErrMalformedPayload)
}

// TestValidate_RegisterNonCanonicalOrder 测试条目顺序非规范
func TestValidate_RegisterNonCanonicalOrder(t *testing.T) {
	o := newOwner(t)
	addr := o.register(1)
	root := o.entry(t, addr, "root")
	child := o.entry(t, addr, "child", root)

	sorted := SortEntries([]*Entry{root, child})
	var list [][]byte
	for i := len(sorted) - 1; i >= 0; i-- {
		b, err := sorted[i].Entry.MarshalBinary()
		require.NoError(t, err)
		list = append(list, b)
	}
	payload := codec.NewEncoder().BytesList(historyFieldEntries, list).Frame(codec.TypeHistory)

	rec := Record{Address: addr, Kind: types.KindRegister, Payload: payload}
	assert.ErrorIs(t, Validate(rec, defaultLimits()), types.ErrMalformedHistory)
}

// TestValidate_RegisterTooLarge 测试寄存器历史总大小上限
func TestValidate_RegisterTooLarge(t *testing.T) {
	o := newOwner(t)
	addr := o.register(1)
	rec, err := NewRegister(addr, []*Entry{o.entry(t, addr, "root")})
	require.NoError(t, err)

	limits := defaultLimits()
	limits.MaxRegisterSize = len(rec.Payload)
	assert.NoError(t, Validate(rec, limits))

	limits.MaxRegisterSize = len(rec.Payload) - 1
	assert.ErrorIs(t, Validate(rec, limits), types.ErrRecordTooLarge)
}

// ============================================================================
// Scratchpad 测试
// ============================================================================

// TestValidate_Scratchpad 测试草稿板签名
func TestValidate_Scratchpad(t *testing.T) {
	o := newOwner(t)
	addr := types.ScratchpadAddress(o.bytes, 7)

	sp, err := NewScratchpad(o.key, addr, 1, []byte("state"), 3)
	require.NoError(t, err)
	rec, err := NewScratchpadRecord(addr, sp)
	require.NoError(t, err)
	assert.NoError(t, Validate(rec, defaultLimits()))

	tampered := *sp
	tampered.Data = []byte("other")
	rec, err = NewScratchpadRecord(addr, &tampered)
	require.NoError(t, err)
	assert.ErrorIs(t, Validate(rec, defaultLimits()), types.ErrInvalidSignature)

	// 同一签名放到另一个索引下无效
	rec, err = NewScratchpadRecord(types.ScratchpadAddress(o.bytes, 8), sp)
	require.NoError(t, err)
	assert.ErrorIs(t, Validate(rec, defaultLimits()), types.ErrInvalidSignature)

	rec.Payload = []byte{0x01, 0x05, 0xff}
	assert.ErrorIs(t, Validate(rec, defaultLimits()), types.ErrMalformedPayload)
}

// TestNewerScratchpad 测试版本选择
func TestNewerScratchpad(t *testing.T) {
	low := &Scratchpad{Counter: 1, Signature: []byte{0x09}}
	high := &Scratchpad{Counter: 2, Signature: []byte{0x01}}
	tieA := &Scratchpad{Counter: 2, Signature: []byte{0x00}}

	assert.Same(t, high, NewerScratchpad(low, high))
	assert.Same(t, high, NewerScratchpad(high, low))
	assert.Same(t, tieA, NewerScratchpad(high, tieA))
	assert.Same(t, tieA, NewerScratchpad(tieA, high))
	assert.Same(t, low, NewerScratchpad(nil, low))
	assert.Same(t, low, NewerScratchpad(low, nil))
}

// ============================================================================
// Transaction 测试
// ============================================================================

func sampleTransaction() *Transaction {
	var in1, in2 [InputSize]byte
	in1[0], in2[0] = 1, 2
	return &Transaction{
		LedgerRef: []byte("tx-ref-1"),
		Inputs:    [][InputSize]byte{in1, in2},
		Outputs:   []Output{{Recipient: []byte("alice"), Amount: types.NewAmount(10)}},
		Memo:      []byte("memo"),
	}
}

// TestValidate_Transaction 测试交易结构检查
func TestValidate_Transaction(t *testing.T) {
	rec, err := NewTransactionRecord(sampleTransaction())
	require.NoError(t, err)
	assert.NoError(t, Validate(rec, defaultLimits()))

	tx, err := UnmarshalTransaction(rec.Payload)
	require.NoError(t, err)
	again, err := tx.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, rec.Payload, again)
}

// TestValidate_TransactionMalformed 测试非法交易
func TestValidate_TransactionMalformed(t *testing.T) {
	t.Run("UnsortedInputs", func(t *testing.T) {
		tx := sampleTransaction()
		tx.Inputs[0], tx.Inputs[1] = tx.Inputs[1], tx.Inputs[0]
		_, err := NewTransactionRecord(tx)
		assert.ErrorIs(t, err, types.ErrMalformedPayload)
	})

	t.Run("NoOutputs", func(t *testing.T) {
		tx := sampleTransaction()
		tx.Outputs = nil
		_, err := NewTransactionRecord(tx)
		assert.ErrorIs(t, err, types.ErrMalformedPayload)
	})

	t.Run("AddressMismatch", func(t *testing.T) {
		rec, err := NewTransactionRecord(sampleTransaction())
		require.NoError(t, err)
		rec.Address = types.TransactionAddress([]byte("another-ref"))
		assert.ErrorIs(t, Validate(rec, defaultLimits()), types.ErrMalformedPayload)
	})
}

// ============================================================================
// 批量与编码测试
// ============================================================================

// TestValidateBatch 测试批量校验互不影响
func TestValidateBatch(t *testing.T) {
	good1 := NewChunk([]byte("a"))
	good2 := NewChunk([]byte("b"))
	bad := NewChunk([]byte("c"))
	bad.Payload = []byte("d")

	err := ValidateBatch([]Record{good1, bad, good2}, defaultLimits())
	require.Error(t, err)
	errs := multierr.Errors(err)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], types.ErrContentHashMismatch)
	assert.Contains(t, errs[0].Error(), "record 1")

	assert.NoError(t, ValidateBatch([]Record{good1, good2}, defaultLimits()))
}

// TestRecord_CanonicalRoundTrip 测试记录编码往返
func TestRecord_CanonicalRoundTrip(t *testing.T) {
	rec := NewChunk([]byte("payload"))
	rec.Proof = []byte("receipt")

	data, err := rec.MarshalBinary()
	require.NoError(t, err)
	decoded, err := UnmarshalRecord(data)
	require.NoError(t, err)
	assert.Equal(t, rec.Address, decoded.Address)
	assert.Equal(t, rec.Kind, decoded.Kind)
	assert.Equal(t, rec.Payload, decoded.Payload)

	again, err := decoded.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, data, again)
	assert.Equal(t, len(rec.Payload), rec.Size())

	// 记录类型超过一个字节时拒绝，而不是截断
	addr, err := rec.Address.MarshalBinary()
	require.NoError(t, err)
	wide := codec.NewEncoder().
		Bytes(recFieldAddress, addr).
		Uint64(recFieldKind, 0x100+uint64(types.KindChunk)).
		Bytes(recFieldPayload, rec.Payload).
		Bytes(recFieldProof, rec.Proof).
		Frame(codec.TypeRecord)
	_, err = UnmarshalRecord(wide)
	assert.ErrorIs(t, err, codec.ErrNonCanonical)
}
