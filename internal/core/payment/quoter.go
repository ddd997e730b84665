package payment

import (
	"bytes"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-dsn/config"
	"github.com/dep2p/go-dsn/pkg/lib/crypto"
	"github.com/dep2p/go-dsn/pkg/lib/log"
	"github.com/dep2p/go-dsn/pkg/types"
)

var logger = log.Logger("dsn/payment")

// Quoter 使用节点身份签发和检查报价
type Quoter struct {
	key     crypto.PrivateKey
	signer  []byte
	pricing config.PaymentConfig
	clock   clock.Clock
}

// NewQuoter 创建报价器
func NewQuoter(key crypto.PrivateKey, pricing config.PaymentConfig, clk clock.Clock) (*Quoter, error) {
	if key == nil {
		return nil, crypto.ErrNilPrivateKey
	}
	if err := pricing.Validate(); err != nil {
		return nil, err
	}
	signer, err := crypto.OwnerBytes(key)
	if err != nil {
		return nil, fmt.Errorf("payment: marshal signer: %w", err)
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Quoter{key: key, signer: signer, pricing: pricing, clock: clk}, nil
}

// Pricing 返回计价参数
func (q *Quoter) Pricing() config.PaymentConfig {
	return q.pricing
}

// TTL 返回报价有效期
func (q *Quoter) TTL() time.Duration {
	return q.pricing.QuoteTTL.Duration()
}

// Quote 为 (target, size) 签发报价
//
// 记录类型由目标地址变体决定，Peer 地址不可报价。
func (q *Quoter) Quote(target types.Address, size uint64, signal types.CostSignal) (*Quote, error) {
	kind, ok := target.Kind().RecordKind()
	if !ok {
		return nil, fmt.Errorf("%w: %s address cannot be quoted", types.ErrMalformedPayload, target.Kind())
	}
	price, err := QuotePrice(kind, size, signal, q.pricing)
	if err != nil {
		return nil, err
	}

	quote := &Quote{
		Target:    target,
		Kind:      kind,
		Size:      size,
		Price:     price,
		Timestamp: q.clock.Now().UTC().Truncate(time.Second),
		Signer:    append([]byte(nil), q.signer...),
	}
	e, err := quote.encoder()
	if err != nil {
		return nil, err
	}
	if quote.Signature, err = crypto.SignWithDomain(q.key, QuoteSigningDomain, e.Body()); err != nil {
		return nil, fmt.Errorf("payment: sign quote: %w", err)
	}

	logger.Debug("签发报价", "target", target.Name().ShortString(), "kind", kind, "size", size, "price", price)
	return quote, nil
}

// CheckQuote 检查报价由本节点签发、签名有效且未过期
func (q *Quoter) CheckQuote(quote *Quote) error {
	if quote == nil {
		return ErrInvalidQuote
	}
	if !bytes.Equal(quote.Signer, q.signer) {
		return fmt.Errorf("%w: issued by another node", ErrInvalidQuote)
	}
	if err := quote.Verify(); err != nil {
		return err
	}
	if quote.Expired(q.clock.Now(), q.TTL()) {
		return fmt.Errorf("%w: issued at %s", ErrQuoteExpired, quote.Timestamp.Format(time.RFC3339))
	}
	return nil
}

// BindQuote 检查收据确实引用了 quote，且报价仍然有效
//
// 通过后调用方应以 quote.Price 作为期望金额调用 ValidateReceipt。
func (q *Quoter) BindQuote(receipt *types.Receipt, quote *Quote) error {
	if receipt == nil {
		return ErrMissingReceipt
	}
	if err := q.CheckQuote(quote); err != nil {
		return err
	}
	hash, err := quote.Hash()
	if err != nil {
		return err
	}
	if receipt.QuoteHash != hash {
		return fmt.Errorf("%w: receipt references a different quote", ErrQuoteMismatch)
	}
	if !quote.Target.Equal(receipt.Target) {
		return &types.PaymentError{Target: quote.Target.Name(), Err: types.ErrAddressMismatch}
	}
	return nil
}
