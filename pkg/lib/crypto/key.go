package crypto

import (
	"crypto/rand"
	"crypto/subtle"
)

// KeyType 所有权密钥的算法，序列化时占一个字节
type KeyType uint8

// 取值写入地址的所有者字节，不能重新编号。
const (
	KeyTypeUnspecified KeyType = 0
	KeyTypeEd25519     KeyType = 2
	KeyTypeSecp256k1   KeyType = 3
)

// KeyTypes 可以生成和解析的全部密钥类型
var KeyTypes = []KeyType{KeyTypeEd25519, KeyTypeSecp256k1}

func (kt KeyType) String() string {
	switch kt {
	case KeyTypeUnspecified:
		return "Unspecified"
	case KeyTypeEd25519:
		return "Ed25519"
	case KeyTypeSecp256k1:
		return "Secp256k1"
	default:
		return "Unknown"
	}
}

// Key 公私钥共有的行为
type Key interface {
	// Bytes 返回算法原生编码的副本
	Bytes() []byte
	Type() KeyType
	Equals(Key) bool
}

// PublicKey 所有者公钥
type PublicKey interface {
	Key
	// Verify 格式错误的签名同样返回 false
	Verify(data, sig []byte) bool
}

// PrivateKey 所有者私钥
type PrivateKey interface {
	Key
	Sign(data []byte) ([]byte, error)
	GetPublic() PublicKey
}

// GenerateKeyPair 使用系统随机源生成密钥对
func GenerateKeyPair(kt KeyType) (PrivateKey, PublicKey, error) {
	var (
		priv PrivateKey
		err  error
	)
	switch kt {
	case KeyTypeEd25519:
		priv, err = generateEd25519(rand.Reader)
	case KeyTypeSecp256k1:
		priv, err = generateSecp256k1(rand.Reader)
	default:
		return nil, nil, ErrUnsupportedKeyType
	}
	if err != nil {
		return nil, nil, err
	}
	return priv, priv.GetPublic(), nil
}

func parsePublic(kt KeyType, raw []byte) (PublicKey, error) {
	switch kt {
	case KeyTypeEd25519:
		return parseEd25519Public(raw)
	case KeyTypeSecp256k1:
		return parseSecp256k1Public(raw)
	default:
		return nil, ErrUnsupportedKeyType
	}
}

func parsePrivate(kt KeyType, raw []byte) (PrivateKey, error) {
	switch kt {
	case KeyTypeEd25519:
		return parseEd25519Private(raw)
	case KeyTypeSecp256k1:
		return parseSecp256k1Private(raw)
	default:
		return nil, ErrUnsupportedKeyType
	}
}

// KeyEqual 常量时间比较两个密钥，类型不同视为不等
func KeyEqual(a, b Key) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type() != b.Type() {
		return false
	}
	return subtle.ConstantTimeCompare(a.Bytes(), b.Bytes()) == 1
}
