// Package identity 管理节点身份
//
// 节点身份是一把签名私钥：它签名节点报价，其公钥的序列化形式
// 同时决定节点自身的 Peer 地址。
package identity

import (
	"fmt"

	"github.com/dep2p/go-dsn/pkg/lib/crypto"
	"github.com/dep2p/go-dsn/pkg/types"
)

// ============================================================================
//                              Identity
// ============================================================================

// Identity 节点身份
type Identity struct {
	privateKey crypto.PrivateKey
	publicKey  crypto.PublicKey
	owner      []byte
	address    types.Address
}

// New 从私钥创建身份
func New(priv crypto.PrivateKey) (*Identity, error) {
	if priv == nil {
		return nil, ErrNilPrivateKey
	}
	owner, err := crypto.OwnerBytes(priv)
	if err != nil {
		return nil, fmt.Errorf("identity: marshal public key: %w", err)
	}
	return &Identity{
		privateKey: priv,
		publicKey:  priv.GetPublic(),
		owner:      owner,
		address:    types.PeerAddress(owner),
	}, nil
}

// Generate 生成指定类型的新身份
func Generate(keyType crypto.KeyType) (*Identity, error) {
	priv, _, err := crypto.GenerateKeyPair(keyType)
	if err != nil {
		return nil, fmt.Errorf("identity: generate key: %w", err)
	}
	return New(priv)
}

// PrivateKey 返回私钥
func (i *Identity) PrivateKey() crypto.PrivateKey {
	return i.privateKey
}

// PublicKey 返回公钥
func (i *Identity) PublicKey() crypto.PublicKey {
	return i.publicKey
}

// Owner 返回公钥的序列化形式
func (i *Identity) Owner() []byte {
	return append([]byte(nil), i.owner...)
}

// Address 返回节点的 Peer 地址
func (i *Identity) Address() types.Address {
	return i.address
}

// KeyType 返回密钥类型
func (i *Identity) KeyType() crypto.KeyType {
	return i.privateKey.Type()
}

// ParseKeyType 解析配置中的密钥类型名称
func ParseKeyType(name string) (crypto.KeyType, error) {
	for _, kt := range crypto.KeyTypes {
		if kt.String() == name {
			return kt, nil
		}
	}
	return crypto.KeyTypeUnspecified, fmt.Errorf("%w: %q", ErrUnsupportedKeyType, name)
}
