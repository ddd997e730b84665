package crypto

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
	"io"
)

type ed25519PublicKey struct {
	k ed25519.PublicKey
}

func (k *ed25519PublicKey) Bytes() []byte { return append([]byte(nil), k.k...) }
func (k *ed25519PublicKey) Type() KeyType { return KeyTypeEd25519 }
func (k *ed25519PublicKey) Equals(o Key) bool { return KeyEqual(k, o) }

func (k *ed25519PublicKey) Verify(data, sig []byte) bool {
	return len(sig) == ed25519.SignatureSize && ed25519.Verify(k.k, data, sig)
}

// ed25519PrivateKey 保存 64 字节展开形式，序列化时原样输出
type ed25519PrivateKey struct {
	k ed25519.PrivateKey
}

func (k *ed25519PrivateKey) Bytes() []byte { return append([]byte(nil), k.k...) }
func (k *ed25519PrivateKey) Type() KeyType { return KeyTypeEd25519 }
func (k *ed25519PrivateKey) Equals(o Key) bool { return KeyEqual(k, o) }

func (k *ed25519PrivateKey) GetPublic() PublicKey {
	return &ed25519PublicKey{k: k.k.Public().(ed25519.PublicKey)}
}

func (k *ed25519PrivateKey) Sign(data []byte) ([]byte, error) {
	return ed25519.Sign(k.k, data), nil
}

func generateEd25519(src io.Reader) (PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(src)
	if err != nil {
		return nil, fmt.Errorf("generate ed25519 key: %w", err)
	}
	return &ed25519PrivateKey{k: priv}, nil
}

func parseEd25519Public(raw []byte) (PublicKey, error) {
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: ed25519 public key is %d bytes", ErrInvalidKeySize, len(raw))
	}
	return &ed25519PublicKey{k: append(ed25519.PublicKey(nil), raw...)}, nil
}

func parseEd25519Private(raw []byte) (PrivateKey, error) {
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: ed25519 private key is %d bytes", ErrInvalidKeySize, len(raw))
	}
	// 后 32 字节必须是种子派生出的公钥
	derived := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
	if !bytes.Equal(derived, raw) {
		return nil, fmt.Errorf("%w: ed25519 public half does not match seed", ErrInvalidPrivateKey)
	}
	return &ed25519PrivateKey{k: derived}, nil
}
