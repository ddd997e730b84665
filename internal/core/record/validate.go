package record

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/dep2p/go-dsn/config"
	"github.com/dep2p/go-dsn/pkg/lib/log"
	"github.com/dep2p/go-dsn/pkg/types"
)

var logger = log.Logger("dsn/record")

// Validate 校验记录
//
// 检查顺序：类型与地址匹配、大小上限、按类型的内容校验。
// 返回的错误都是 *types.ValidationError，可用 errors.Is 匹配分类哨兵。
func Validate(rec Record, limits config.LimitsConfig) error {
	err := validate(rec, limits)
	if err != nil {
		logger.Debug("记录校验失败", "address", rec.Address.Name().ShortString(), "kind", rec.Kind, "error", err)
	}
	return err
}

func validate(rec Record, limits config.LimitsConfig) error {
	if err := checkEnvelope(rec, limits); err != nil {
		return err
	}

	switch rec.Kind {
	case types.KindChunk:
		return validateChunk(rec)
	case types.KindRegister:
		return validateRegister(rec)
	case types.KindScratchpad:
		return validateScratchpad(rec)
	case types.KindTransaction:
		return validateTransaction(rec)
	default:
		return types.NewValidationError(rec.Address.Name(), types.ErrMalformedPayload, "unknown record kind %d", rec.Kind)
	}
}

// ValidateFragment 校验寄存器历史片段
//
// 片段只携带新条目，不要求根条目和父条目齐全，但每个条目都必须由寄存器所有者签名。
// 结构检查推迟到合并时进行，父条目缺失的条目进入待定集合。
func ValidateFragment(rec Record, limits config.LimitsConfig) error {
	name := rec.Address.Name()
	if rec.Kind != types.KindRegister {
		return types.NewValidationError(name, types.ErrMalformedPayload, "%s record is not a register", rec.Kind)
	}
	if err := checkEnvelope(rec, limits); err != nil {
		return err
	}
	entries, err := DecodeHistory(rec.Payload)
	if err != nil {
		return types.NewValidationError(name, types.ErrMalformedHistory, "decode history: %v", err)
	}
	if err := VerifyFragment(rec.Address, entries); err != nil {
		return wrapValidation(name, err)
	}
	return nil
}

// checkEnvelope 检查类型与地址匹配以及大小上限
func checkEnvelope(rec Record, limits config.LimitsConfig) error {
	name := rec.Address.Name()

	if !rec.Kind.IsValid() {
		return types.NewValidationError(name, types.ErrMalformedPayload, "unknown record kind %d", rec.Kind)
	}
	if rec.Address.Kind() != rec.Kind.AddressKind() {
		return types.NewValidationError(name, types.ErrMalformedPayload,
			"%s record at %s address", rec.Kind, rec.Address.Kind())
	}
	if limit := limits.MaxFor(rec.Kind); len(rec.Payload) > limit {
		return types.NewValidationError(name, types.ErrRecordTooLarge,
			"%d bytes exceeds %s limit %d", len(rec.Payload), rec.Kind, limit)
	}
	return nil
}

func validateChunk(rec Record) error {
	if types.HashName(rec.Payload) != rec.Address.Name() {
		return types.NewValidationError(rec.Address.Name(), types.ErrContentHashMismatch,
			"payload hashes to %s", types.HashName(rec.Payload).ShortString())
	}
	return nil
}

func validateRegister(rec Record) error {
	name := rec.Address.Name()
	entries, err := DecodeHistory(rec.Payload)
	if err != nil {
		return types.NewValidationError(name, types.ErrMalformedHistory, "decode history: %v", err)
	}
	if err := VerifyHistory(rec.Address, entries); err != nil {
		return wrapValidation(name, err)
	}
	return nil
}

func validateScratchpad(rec Record) error {
	name := rec.Address.Name()
	sp, err := UnmarshalScratchpad(rec.Payload)
	if err != nil {
		return types.NewValidationError(name, types.ErrMalformedPayload, "decode scratchpad: %v", err)
	}
	if err := sp.Verify(rec.Address); err != nil {
		return wrapValidation(name, err)
	}
	return nil
}

func validateTransaction(rec Record) error {
	name := rec.Address.Name()
	tx, err := UnmarshalTransaction(rec.Payload)
	if err != nil {
		return types.NewValidationError(name, types.ErrMalformedPayload, "decode transaction: %v", err)
	}
	if tx.Address().Name() != name {
		return types.NewValidationError(name, types.ErrMalformedPayload, "ledger reference does not match address")
	}
	return nil
}

// wrapValidation 将带分类哨兵的错误包装为 ValidationError
func wrapValidation(name types.Name, err error) error {
	for _, sentinel := range []error{
		types.ErrInvalidSignature,
		types.ErrMalformedHistory,
		types.ErrMalformedPayload,
	} {
		if errors.Is(err, sentinel) {
			return types.WrapValidation(name, sentinel, err)
		}
	}
	return types.NewValidationError(name, types.ErrMalformedPayload, "%v", err)
}

// ValidateBatch 独立校验多条记录
//
// 每条记录的结果互不影响。返回所有失败的组合错误，
// 可以用 multierr.Errors 拆分。
func ValidateBatch(recs []Record, limits config.LimitsConfig) error {
	var errs error
	for i, rec := range recs {
		if err := Validate(rec, limits); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("record %d: %w", i, err))
		}
	}
	return errs
}
