package payment

import (
	"errors"
	"fmt"
	"math"
	"time"

	sha256 "github.com/minio/sha256-simd"

	"github.com/dep2p/go-dsn/pkg/lib/codec"
	"github.com/dep2p/go-dsn/pkg/lib/crypto"
	"github.com/dep2p/go-dsn/pkg/types"
)

// QuoteSigningDomain 报价签名的域分隔前缀
const QuoteSigningDomain = "dsn/quote"

var (
	// ErrInvalidQuote 报价编码或签名无效
	ErrInvalidQuote = errors.New("payment: invalid quote")

	// ErrQuoteExpired 报价已过期
	ErrQuoteExpired = errors.New("payment: quote expired")

	// ErrQuoteMismatch 收据引用的报价与提供的报价不一致
	ErrQuoteMismatch = errors.New("payment: quote mismatch")
)

const (
	quoteFieldTarget    codec.Field = 1
	quoteFieldKind      codec.Field = 2
	quoteFieldSize      codec.Field = 3
	quoteFieldPrice     codec.Field = 4
	quoteFieldTimestamp codec.Field = 5
	quoteFieldSigner    codec.Field = 6
	quoteFieldSignature codec.Field = 7
)

// Quote 节点签名的报价
type Quote struct {
	Target    types.Address
	Kind      types.RecordKind
	Size      uint64
	Price     types.Amount
	Timestamp time.Time // 精度为秒
	Signer    []byte    // 报价节点公钥的序列化形式
	Signature []byte
}

func (q *Quote) encoder() (*codec.Encoder, error) {
	target, err := q.Target.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuote, err)
	}
	if q.Timestamp.Unix() < 0 {
		return nil, fmt.Errorf("%w: timestamp before epoch", ErrInvalidQuote)
	}
	price := q.Price.Bytes()
	return codec.NewEncoder().
		Bytes(quoteFieldTarget, target).
		Uint64(quoteFieldKind, uint64(q.Kind)).
		Uint64(quoteFieldSize, q.Size).
		Bytes(quoteFieldPrice, price[:]).
		Uint64(quoteFieldTimestamp, uint64(q.Timestamp.Unix())).
		Bytes(quoteFieldSigner, q.Signer), nil
}

// MarshalBinary 返回报价的规范编码
func (q *Quote) MarshalBinary() ([]byte, error) {
	e, err := q.encoder()
	if err != nil {
		return nil, err
	}
	return e.Bytes(quoteFieldSignature, q.Signature).Frame(codec.TypeQuote), nil
}

// Hash 返回报价的 SHA-256 摘要（覆盖签名）
func (q *Quote) Hash() ([types.QuoteHashSize]byte, error) {
	data, err := q.MarshalBinary()
	if err != nil {
		return [types.QuoteHashSize]byte{}, err
	}
	return sha256.Sum256(data), nil
}

// Verify 验证报价签名
func (q *Quote) Verify() error {
	e, err := q.encoder()
	if err != nil {
		return err
	}
	if err := crypto.VerifyOwner(q.Signer, QuoteSigningDomain, q.Signature, e.Body()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuote, err)
	}
	return nil
}

// Expired 报价在 now 时刻是否已超过 ttl
func (q *Quote) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(q.Timestamp) > ttl
}

// UnmarshalQuote 从规范编码解析报价
func UnmarshalQuote(data []byte) (*Quote, error) {
	d, err := codec.Unframe(codec.TypeQuote, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuote, err)
	}
	target := d.Bytes(quoteFieldTarget)
	kind := d.Uint64(quoteFieldKind)
	size := d.Uint64(quoteFieldSize)
	price := d.FixedBytes(quoteFieldPrice, types.AmountSize)
	ts := d.Uint64(quoteFieldTimestamp)
	signer := d.Bytes(quoteFieldSigner)
	sig := d.Bytes(quoteFieldSignature)
	if err := d.Finish(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuote, err)
	}
	if kind > math.MaxUint8 || ts > math.MaxInt64 {
		return nil, fmt.Errorf("%w: field out of range", ErrInvalidQuote)
	}

	addr, err := types.UnmarshalAddress(target)
	if err != nil {
		return nil, fmt.Errorf("%w: target: %v", ErrInvalidQuote, err)
	}
	var p [types.AmountSize]byte
	copy(p[:], price)
	return &Quote{
		Target:    addr,
		Kind:      types.RecordKind(kind),
		Size:      size,
		Price:     types.AmountFromBytes(p),
		Timestamp: time.Unix(int64(ts), 0).UTC(),
		Signer:    signer,
		Signature: sig,
	}, nil
}
