package record

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dep2p/go-dsn/pkg/lib/codec"
	"github.com/dep2p/go-dsn/pkg/types"
)

// InputSize 交易输入引用长度
const InputSize = 32

const (
	txFieldLedgerRef codec.Field = 1
	txFieldInputs    codec.Field = 2
	txFieldOutputs   codec.Field = 3
	txFieldMemo      codec.Field = 4

	outFieldRecipient codec.Field = 1
	outFieldAmount    codec.Field = 2
)

var (
	errEmptyLedgerRef = errors.New("empty ledger reference")
	errUnsortedInputs = errors.New("inputs not sorted or not unique")
	errNoOutputs      = errors.New("no outputs")
	errEmptyRecipient = errors.New("output with empty recipient")
)

// Output 交易输出
type Output struct {
	Recipient []byte
	Amount    types.Amount
}

// Transaction 账本交易记录
//
// 协议层只做结构检查，交易语义由账本负责。
type Transaction struct {
	LedgerRef []byte
	Inputs    [][InputSize]byte // 升序且唯一
	Outputs   []Output
	Memo      []byte
}

// Address 返回交易的地址
func (tx *Transaction) Address() types.Address {
	return types.TransactionAddress(tx.LedgerRef)
}

// Check 执行结构检查
func (tx *Transaction) Check() error {
	if len(tx.LedgerRef) == 0 {
		return errEmptyLedgerRef
	}
	for i := 1; i < len(tx.Inputs); i++ {
		if bytes.Compare(tx.Inputs[i-1][:], tx.Inputs[i][:]) >= 0 {
			return errUnsortedInputs
		}
	}
	if len(tx.Outputs) == 0 {
		return errNoOutputs
	}
	for _, out := range tx.Outputs {
		if len(out.Recipient) == 0 {
			return errEmptyRecipient
		}
	}
	return nil
}

// MarshalBinary 返回规范编码
//
// 结构检查失败时返回错误，不会编码出非规范数据。
func (tx *Transaction) MarshalBinary() ([]byte, error) {
	if err := tx.Check(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedPayload, err)
	}
	inputs := make([][]byte, len(tx.Inputs))
	for i := range tx.Inputs {
		inputs[i] = tx.Inputs[i][:]
	}
	outputs := make([][]byte, len(tx.Outputs))
	for i, out := range tx.Outputs {
		amount := out.Amount.Bytes()
		outputs[i] = codec.NewEncoder().
			Bytes(outFieldRecipient, out.Recipient).
			Bytes(outFieldAmount, amount[:]).
			Body()
	}
	return codec.NewEncoder().
		Bytes(txFieldLedgerRef, tx.LedgerRef).
		BytesList(txFieldInputs, inputs).
		BytesList(txFieldOutputs, outputs).
		Bytes(txFieldMemo, tx.Memo).
		Frame(codec.TypeTransaction), nil
}

// UnmarshalTransaction 从规范编码解析交易并执行结构检查
func UnmarshalTransaction(data []byte) (*Transaction, error) {
	d, err := codec.Unframe(codec.TypeTransaction, data)
	if err != nil {
		return nil, err
	}
	ref := d.Bytes(txFieldLedgerRef)
	inputs := d.SortedBytesList(txFieldInputs)
	outputs := d.BytesList(txFieldOutputs)
	memo := d.Bytes(txFieldMemo)
	if err := d.Finish(); err != nil {
		return nil, err
	}

	tx := &Transaction{LedgerRef: ref, Memo: memo}
	for _, in := range inputs {
		if len(in) != InputSize {
			return nil, fmt.Errorf("%w: input length %d", codec.ErrInvalidLength, len(in))
		}
		var h [InputSize]byte
		copy(h[:], in)
		tx.Inputs = append(tx.Inputs, h)
	}
	for i, raw := range outputs {
		od := codec.NewDecoder(raw)
		recipient := od.Bytes(outFieldRecipient)
		amount := od.FixedBytes(outFieldAmount, types.AmountSize)
		if err := od.Finish(); err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		var a [types.AmountSize]byte
		copy(a[:], amount)
		tx.Outputs = append(tx.Outputs, Output{Recipient: recipient, Amount: types.AmountFromBytes(a)})
	}
	if err := tx.Check(); err != nil {
		return nil, err
	}
	return tx, nil
}
