// Package payment 实现写入的支付绑定
//
// 一次写入只有在携带覆盖其价格的收据时才会被接受：
//
//	price = UnitPrice × weight(kind) × max(1, ceil(size / UnitSize))
//
// UnitPrice 来自账本的成本信号，weight 与 UnitSize 来自 config.PaymentConfig。
//
// # 收据校验
//
// ValidateReceipt 按固定顺序检查：
//  1. 目标地址绑定（ErrAddressMismatch）
//  2. 金额不低于报价（ErrInsufficientAmount）
//  3. 密码学证明（ErrInvalidProof，验证算法由账本协作方提供）
//
// 地址检查放在最前面，保证为一个地址付费的收据无论金额多少
// 都不能兑换到另一个地址。
//
// # 报价
//
// Quoter 使用节点身份签名报价，报价带时间戳并在 QuoteTTL 后过期。
// 收据通过 QuoteHash 引用报价；全零表示不引用报价。
package payment
