package crypto

import (
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	sha256 "github.com/minio/sha256-simd"
)

// secp256k1PublicKey 序列化为 33 字节压缩点
type secp256k1PublicKey struct {
	k *secp256k1.PublicKey
}

func (k *secp256k1PublicKey) Bytes() []byte { return k.k.SerializeCompressed() }
func (k *secp256k1PublicKey) Type() KeyType { return KeyTypeSecp256k1 }
func (k *secp256k1PublicKey) Equals(o Key) bool { return KeyEqual(k, o) }

// Verify 对 SHA-256 摘要验证 DER 编码的 ECDSA 签名
func (k *secp256k1PublicKey) Verify(data, sig []byte) bool {
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	hash := sha256.Sum256(data)
	return parsed.Verify(hash[:], k.k)
}

// secp256k1PrivateKey 序列化为 32 字节标量
type secp256k1PrivateKey struct {
	k *secp256k1.PrivateKey
}

func (k *secp256k1PrivateKey) Bytes() []byte { return k.k.Serialize() }
func (k *secp256k1PrivateKey) Type() KeyType { return KeyTypeSecp256k1 }
func (k *secp256k1PrivateKey) Equals(o Key) bool { return KeyEqual(k, o) }

func (k *secp256k1PrivateKey) GetPublic() PublicKey {
	return &secp256k1PublicKey{k: k.k.PubKey()}
}

// Sign RFC6979 确定性签名，同一数据总得到同一签名
func (k *secp256k1PrivateKey) Sign(data []byte) ([]byte, error) {
	hash := sha256.Sum256(data)
	return ecdsa.Sign(k.k, hash[:]).Serialize(), nil
}

func generateSecp256k1(src io.Reader) (PrivateKey, error) {
	priv, err := secp256k1.GeneratePrivateKeyFromRand(src)
	if err != nil {
		return nil, fmt.Errorf("generate secp256k1 key: %w", err)
	}
	return &secp256k1PrivateKey{k: priv}, nil
}

// parseSecp256k1Public 也接受未压缩点，规范性由 UnmarshalPublicKeyBytes 检查
func parseSecp256k1Public(raw []byte) (PublicKey, error) {
	pub, err := secp256k1.ParsePubKey(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return &secp256k1PublicKey{k: pub}, nil
}

func parseSecp256k1Private(raw []byte) (PrivateKey, error) {
	if len(raw) != secp256k1.PrivKeyBytesLen {
		return nil, fmt.Errorf("%w: secp256k1 private key is %d bytes", ErrInvalidKeySize, len(raw))
	}
	priv := secp256k1.PrivKeyFromBytes(raw)
	if priv.Key.IsZero() {
		return nil, fmt.Errorf("%w: zero scalar", ErrInvalidPrivateKey)
	}
	return &secp256k1PrivateKey{k: priv}, nil
}
