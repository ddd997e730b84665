// Package crypto 提供 DSN 密码学工具
//
// 本包提供所有权密钥的生成、签名验证和序列化。
// 寄存器、草稿板的所有者，节点报价签名者和账本密钥都使用这里的密钥类型。
//
// # 支持的密钥类型
//
// 密钥类型是全网约定的封闭集合：
//
//   - Ed25519（默认推荐）：高性能椭圆曲线签名
//   - Secp256k1（区块链兼容）：基于 decred secp256k1 实现
//
// # 快速开始
//
// 生成密钥对：
//
//	priv, pub, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519)
//
// 带域分隔的签名和验证：
//
//	sig, err := crypto.SignWithDomain(priv, "dsn/register-entry", msg)
//	err = crypto.VerifyWithDomain(pub, "dsn/register-entry", msg, sig)
//
// 地址中的所有者公钥使用 MarshalPublicKey 的输出：
//
//	owner, err := crypto.MarshalPublicKey(pub)
//	addr := types.RegisterAddress(owner, meta)
//
// # 架构层
//
//   - 层级：pkg（公共包）
//   - 依赖：无内部依赖
package crypto
