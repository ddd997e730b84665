package config

import (
	"errors"
	"fmt"
)

// ValidateAll 验证整个配置的有效性
//
// 这是 Config.Validate() 的别名，额外处理 nil。
func ValidateAll(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}

// ValidateAndFix 验证配置并尝试自动修复常见问题
//
// 可修复的问题：
//   - 法定人数超过副本组大小 -> 使用多数派
//   - 计价单位为零 -> 使用默认值
//   - 类型权重为零 -> 使用默认权重
//   - 报价有效期非正 -> 使用默认值
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	if c.Network.Quorum > c.Network.CloseGroupSize || c.Network.Quorum < 0 {
		c.Network.Quorum = 0
	}

	def := DefaultPaymentConfig()
	if c.Payment.UnitSize == 0 {
		c.Payment.UnitSize = def.UnitSize
	}
	if c.Payment.QuoteTTL <= 0 {
		c.Payment.QuoteTTL = def.QuoteTTL
	}
	if c.Payment.ChunkWeight == 0 {
		c.Payment.ChunkWeight = def.ChunkWeight
	}
	if c.Payment.RegisterWeight == 0 {
		c.Payment.RegisterWeight = def.RegisterWeight
	}
	if c.Payment.ScratchpadWeight == 0 {
		c.Payment.ScratchpadWeight = def.ScratchpadWeight
	}
	if c.Payment.TransactionWeight == 0 {
		c.Payment.TransactionWeight = def.TransactionWeight
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed after fixes: %w", err)
	}
	return c, nil
}

// MustValidate 验证配置，如果失败则 panic
//
// 仅用于初始化阶段或测试代码。
func MustValidate(c *Config) {
	if err := ValidateAll(c); err != nil {
		panic(fmt.Sprintf("config validation failed: %v", err))
	}
}
