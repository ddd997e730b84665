package metrics

import (
	"errors"

	"github.com/dep2p/go-dsn/pkg/types"
)

// ResultOK 成功结果标签
const ResultOK = "ok"

// ResultError 未分类错误的标签
const ResultError = "error"

var resultLabels = []struct {
	err   error
	label string
}{
	{types.ErrContentHashMismatch, "content_hash_mismatch"},
	{types.ErrInvalidSignature, "invalid_signature"},
	{types.ErrMalformedHistory, "malformed_history"},
	{types.ErrMalformedPayload, "malformed_payload"},
	{types.ErrRecordTooLarge, "record_too_large"},
	{types.ErrCorruptHistory, "corrupt_history"},
	{types.ErrInsufficientAmount, "insufficient_amount"},
	{types.ErrAddressMismatch, "address_mismatch"},
	{types.ErrInvalidProof, "invalid_proof"},
	{types.ErrQuorumUnreached, "quorum_unreached"},
}

// ResultLabel 将错误映射为稳定的指标标签
func ResultLabel(err error) string {
	if err == nil {
		return ResultOK
	}
	for _, l := range resultLabels {
		if errors.Is(err, l.err) {
			return l.label
		}
	}
	return ResultError
}
