package types

import (
	"errors"
	"fmt"

	"github.com/dep2p/go-dsn/pkg/lib/codec"
)

// ============================================================================
//                              Receipt - 支付收据
// ============================================================================

// QuoteHashSize 报价哈希长度
const QuoteHashSize = 32

// ErrInvalidReceipt 收据编码无效
var ErrInvalidReceipt = errors.New("types: invalid receipt")

// Receipt 支付收据
//
// 对协议层而言收据是不透明的：Payer 和 Proof 的含义由账本协作方定义，
// 这里只约束金额与目标地址的绑定。
type Receipt struct {
	// Payer 付款方引用（通常是账本公钥）
	Payer []byte

	// Amount 支付金额
	Amount Amount

	// Target 收据绑定的目标地址
	Target Address

	// QuoteHash 收据所覆盖报价的哈希；未引用报价时为全零
	QuoteHash [QuoteHashSize]byte

	// Proof 账本提供的密码学证明
	Proof []byte
}

// CostSignal 账本提供的当前网络成本信号
type CostSignal struct {
	// UnitPrice 每个计价单位的价格
	UnitPrice Amount
}

// 收据编码字段
const (
	receiptFieldPayer     codec.Field = 1
	receiptFieldAmount    codec.Field = 2
	receiptFieldTarget    codec.Field = 3
	receiptFieldQuoteHash codec.Field = 4
	receiptFieldProof     codec.Field = 5
)

func (r *Receipt) encode(proof []byte) ([]byte, error) {
	target, err := r.Target.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReceipt, err)
	}
	amount := r.Amount.Bytes()
	return codec.NewEncoder().
		Bytes(receiptFieldPayer, r.Payer).
		Bytes(receiptFieldAmount, amount[:]).
		Bytes(receiptFieldTarget, target).
		Bytes(receiptFieldQuoteHash, r.QuoteHash[:]).
		Bytes(receiptFieldProof, proof).
		Frame(codec.TypeReceipt), nil
}

// MarshalBinary 返回收据的规范编码
func (r *Receipt) MarshalBinary() ([]byte, error) {
	return r.encode(r.Proof)
}

// SigningBytes 返回证明应覆盖的字节（Proof 置空的规范编码）
func (r *Receipt) SigningBytes() ([]byte, error) {
	return r.encode(nil)
}

// UnmarshalReceipt 从规范编码解析收据
func UnmarshalReceipt(data []byte) (*Receipt, error) {
	d, err := codec.Unframe(codec.TypeReceipt, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReceipt, err)
	}
	r := &Receipt{}
	r.Payer = d.Bytes(receiptFieldPayer)
	amount := d.FixedBytes(receiptFieldAmount, AmountSize)
	target := d.Bytes(receiptFieldTarget)
	quoteHash := d.FixedBytes(receiptFieldQuoteHash, QuoteHashSize)
	r.Proof = d.Bytes(receiptFieldProof)
	if err := d.Finish(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReceipt, err)
	}

	var a [AmountSize]byte
	copy(a[:], amount)
	r.Amount = AmountFromBytes(a)
	copy(r.QuoteHash[:], quoteHash)

	if r.Target, err = UnmarshalAddress(target); err != nil {
		return nil, fmt.Errorf("%w: target: %v", ErrInvalidReceipt, err)
	}
	return r, nil
}
