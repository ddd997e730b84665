package crypto

import "fmt"

// ============================================================================
//                              域分隔签名
// ============================================================================

// 签名消息格式：
//
//	domain || 0x00 || part[0] || part[1] || ...
//
// 不同对象类型使用不同的域字符串，同一密钥对一类对象的签名
// 不能被重放为另一类对象的签名。调用方负责保证各部分长度固定
// 或者本身是规范编码。

// SigningMessage 构造域分隔的待签名消息
func SigningMessage(domain string, parts ...[]byte) []byte {
	n := len(domain) + 1
	for _, p := range parts {
		n += len(p)
	}
	msg := make([]byte, 0, n)
	msg = append(msg, domain...)
	msg = append(msg, 0x00)
	for _, p := range parts {
		msg = append(msg, p...)
	}
	return msg
}

// SignWithDomain 使用私钥对域分隔消息签名
func SignWithDomain(key PrivateKey, domain string, parts ...[]byte) ([]byte, error) {
	if key == nil {
		return nil, ErrNilPrivateKey
	}
	return key.Sign(SigningMessage(domain, parts...))
}

// VerifyWithDomain 使用公钥验证域分隔消息的签名
//
// 签名无效时返回 ErrInvalidSignature。
func VerifyWithDomain(key PublicKey, domain string, sig []byte, parts ...[]byte) error {
	if key == nil {
		return ErrNilPublicKey
	}
	if len(sig) == 0 {
		return ErrNilSignature
	}
	if !key.Verify(SigningMessage(domain, parts...), sig) {
		return ErrInvalidSignature
	}
	return nil
}

// VerifyOwner 使用序列化的所有者公钥验证签名
//
// owner 是 MarshalPublicKey 的输出，也就是地址中保存的所有者字节。
func VerifyOwner(owner []byte, domain string, sig []byte, parts ...[]byte) error {
	pub, err := UnmarshalPublicKeyBytes(owner)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return VerifyWithDomain(pub, domain, sig, parts...)
}

// OwnerBytes 返回私钥对应公钥的序列化形式
func OwnerBytes(key PrivateKey) ([]byte, error) {
	if key == nil {
		return nil, ErrNilPrivateKey
	}
	return MarshalPublicKey(key.GetPublic())
}
