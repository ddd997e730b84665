package config

import "errors"

// RegisterConfig 寄存器引擎配置
type RegisterConfig struct {
	// CacheSize 已验证条目签名缓存容量
	// 0 表示禁用缓存
	// 默认值: 4096
	CacheSize int `json:"cache_size"`

	// PendingRegisters 缓存待定条目的寄存器数量上限
	// 超出时淘汰最久未写入的寄存器的待定条目；0 表示不缓存，
	// 父条目未到达的片段写入只返回 Pending 而不保留条目
	// 默认值: 1024
	PendingRegisters int `json:"pending_registers"`
}

// DefaultRegisterConfig 返回默认寄存器配置
func DefaultRegisterConfig() RegisterConfig {
	return RegisterConfig{
		CacheSize:        4096,
		PendingRegisters: 1024,
	}
}

// Validate 验证寄存器配置
func (c RegisterConfig) Validate() error {
	if c.CacheSize < 0 {
		return errors.New("register: cache_size must not be negative")
	}
	if c.PendingRegisters < 0 {
		return errors.New("register: pending_registers must not be negative")
	}
	return nil
}
