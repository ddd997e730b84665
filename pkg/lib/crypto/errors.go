package crypto

import "errors"

// 密钥错误
var (
	ErrUnsupportedKeyType = errors.New("crypto: unsupported key type")
	ErrNilPrivateKey      = errors.New("crypto: nil private key")
	ErrNilPublicKey       = errors.New("crypto: nil public key")
	ErrInvalidKeySize     = errors.New("crypto: invalid key size")
	ErrInvalidPublicKey   = errors.New("crypto: invalid public key")
	ErrInvalidPrivateKey  = errors.New("crypto: invalid private key")

	// ErrMalformedKey 序列化外壳损坏或不是规范形式
	ErrMalformedKey = errors.New("crypto: malformed key encoding")
)

// 签名错误
var (
	ErrNilSignature     = errors.New("crypto: empty signature")
	ErrInvalidSignature = errors.New("crypto: invalid signature")
)
