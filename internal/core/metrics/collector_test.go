package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dsn/pkg/types"
)

func newTestCollector(t *testing.T) (*Collector, *prometheus.Registry, *clock.Mock) {
	t.Helper()
	reg := prometheus.NewRegistry()
	clk := clock.NewMock()
	c, err := NewCollector(reg, "dsn", clk)
	require.NoError(t, err)
	return c, reg, clk
}

// ============================================================================
// Collector 测试
// ============================================================================

// TestCollector_Validations 测试校验结果按类型和结果计数
func TestCollector_Validations(t *testing.T) {
	c, _, _ := newTestCollector(t)

	c.ObserveValidation(types.KindChunk, nil)
	c.ObserveValidation(types.KindChunk, nil)
	c.ObserveValidation(types.KindChunk, types.ErrContentHashMismatch)
	c.ObserveValidation(types.KindRegister,
		types.NewValidationError(types.Name{}, types.ErrInvalidSignature, "entry %d", 1))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.validations.WithLabelValues("chunk", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.validations.WithLabelValues("chunk", "content_hash_mismatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.validations.WithLabelValues("register", "invalid_signature")))

	stats := c.Snapshot()
	assert.Equal(t, int64(2), stats.Accepted)
	assert.Equal(t, int64(2), stats.Rejected)
}

// TestCollector_Outcomes 测试寄存器、支付和法定人数结果
func TestCollector_Outcomes(t *testing.T) {
	c, _, _ := newTestCollector(t)

	c.ObserveApply("applied", nil)
	c.ObserveApply("pending", nil)
	c.ObserveApply("applied", types.NewMergeError("merge", "different roots"))
	c.ObservePayment(&types.PaymentError{Err: types.ErrAddressMismatch})
	c.ObserveQuorum(&types.QuorumError{Required: 3, Matching: 1})
	c.ObserveQuorum(nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.applies.WithLabelValues("applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.applies.WithLabelValues("pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.applies.WithLabelValues("corrupt_history")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.payments.WithLabelValues("address_mismatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.quorums.WithLabelValues("quorum_unreached")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.quorums.WithLabelValues(ResultOK)))
}

// TestCollector_AcceptedBytes 测试字节计数与速率
func TestCollector_AcceptedBytes(t *testing.T) {
	c, _, clk := newTestCollector(t)

	c.ObserveAccepted(types.KindChunk, 600)
	clk.Add(10 * time.Second)
	c.ObserveAccepted(types.KindScratchpad, 600)
	c.ObserveAccepted(types.KindChunk, -5)

	assert.Equal(t, 600.0, testutil.ToFloat64(c.acceptedBytes.WithLabelValues("chunk")))
	assert.Equal(t, 600.0, testutil.ToFloat64(c.acceptedBytes.WithLabelValues("scratchpad")))

	stats := c.Snapshot()
	assert.Equal(t, int64(1200), stats.AcceptedBytes)
	assert.InDelta(t, 20.0, stats.ByteRate, 1e-9)
}

// TestCollector_Registration 测试注册到指定注册表
func TestCollector_Registration(t *testing.T) {
	c, reg, _ := newTestCollector(t)
	c.ObserveValidation(types.KindTransaction, nil)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["dsn_record_validations_total"])
	assert.True(t, names["dsn_accepted_bytes_rate"])

	// 同一注册表重复注册失败
	_, err = NewCollector(reg, "dsn", clock.NewMock())
	assert.Error(t, err)

	_, err = NewCollector(nil, "dsn", nil)
	assert.Error(t, err)
}

// TestResultLabel 测试错误到标签的映射
func TestResultLabel(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ResultOK},
		{types.ErrRecordTooLarge, "record_too_large"},
		{fmt.Errorf("wrapped: %w", types.ErrMalformedHistory), "malformed_history"},
		{&types.PaymentError{Err: types.ErrInsufficientAmount}, "insufficient_amount"},
		{&types.PaymentError{Err: types.ErrInvalidProof}, "invalid_proof"},
		{errors.New("transport down"), ResultError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResultLabel(tt.err))
	}
}

// TestNopReporter 测试空实现
func TestNopReporter(t *testing.T) {
	var r Reporter = NopReporter{}
	r.ObserveValidation(types.KindChunk, nil)
	r.ObserveAccepted(types.KindChunk, 10)
	assert.Equal(t, Stats{}, r.Snapshot())
}
