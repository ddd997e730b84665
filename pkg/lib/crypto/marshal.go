package crypto

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// 序列化外壳：
//
//	┌──────────────┬─────────────────────┬──────────────┐
//	│ Type (uint8) │ Length (uint32, BE) │ Data         │
//	└──────────────┴─────────────────────┴──────────────┘
//
// 公钥的序列化结果直接作为地址中的所有者字节参与名字派生，
// 因此公钥只接受规范形式。
const headerSize = 5

func marshalKey(k Key) []byte {
	raw := k.Bytes()
	buf := make([]byte, headerSize+len(raw))
	buf[0] = byte(k.Type())
	binary.BigEndian.PutUint32(buf[1:headerSize], uint32(len(raw)))
	copy(buf[headerSize:], raw)
	return buf
}

func splitKey(data []byte) (KeyType, []byte, error) {
	if len(data) < headerSize {
		return KeyTypeUnspecified, nil, fmt.Errorf("%w: %d bytes", ErrMalformedKey, len(data))
	}
	length := binary.BigEndian.Uint32(data[1:headerSize])
	if uint64(len(data)) != headerSize+uint64(length) {
		return KeyTypeUnspecified, nil, fmt.Errorf("%w: length %d does not match body", ErrMalformedKey, length)
	}
	return KeyType(data[0]), data[headerSize:], nil
}

// MarshalPublicKey 输出所有者字节
func MarshalPublicKey(key PublicKey) ([]byte, error) {
	if key == nil {
		return nil, ErrNilPublicKey
	}
	return marshalKey(key), nil
}

// UnmarshalPublicKeyBytes 解析所有者字节，重新编码后必须与输入一致
func UnmarshalPublicKeyBytes(data []byte) (PublicKey, error) {
	kt, raw, err := splitKey(data)
	if err != nil {
		return nil, err
	}
	pub, err := parsePublic(kt, raw)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(marshalKey(pub), data) {
		return nil, fmt.Errorf("%w: non-canonical %s public key", ErrMalformedKey, kt)
	}
	return pub, nil
}

// MarshalPrivateKey 私钥落盘格式，与公钥共用外壳
func MarshalPrivateKey(key PrivateKey) ([]byte, error) {
	if key == nil {
		return nil, ErrNilPrivateKey
	}
	return marshalKey(key), nil
}

func UnmarshalPrivateKeyBytes(data []byte) (PrivateKey, error) {
	kt, raw, err := splitKey(data)
	if err != nil {
		return nil, err
	}
	return parsePrivate(kt, raw)
}
