package config

import (
	"fmt"
	"time"
)

// NetworkConfig 网络参数配置
//
// 副本组大小和法定人数是全网约定值，同一网络内所有节点必须一致。
type NetworkConfig struct {
	// CloseGroupSize 副本组大小 K
	// 默认值: 5
	CloseGroupSize int `json:"close_group_size"`

	// Quorum 法定人数 Q
	// 0 表示使用多数派 ⌊K/2⌋+1
	// 默认值: 3
	Quorum int `json:"quorum"`

	// QueryTimeout 法定人数查询超时
	// 默认值: 30s
	QueryTimeout Duration `json:"query_timeout"`
}

// DefaultNetworkConfig 返回默认网络配置
func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		CloseGroupSize: 5,
		Quorum:         3,
		QueryTimeout:   Duration(30 * time.Second),
	}
}

// Validate 验证网络配置
func (c NetworkConfig) Validate() error {
	if c.CloseGroupSize < 1 {
		return fmt.Errorf("network: close_group_size must be positive, got %d", c.CloseGroupSize)
	}
	if c.Quorum < 0 || c.Quorum > c.CloseGroupSize {
		return fmt.Errorf("network: quorum must be in [0, %d], got %d", c.CloseGroupSize, c.Quorum)
	}
	if c.QueryTimeout < 0 {
		return fmt.Errorf("network: query_timeout must not be negative")
	}
	return nil
}

// EffectiveQuorum 返回实际使用的法定人数
func (c NetworkConfig) EffectiveQuorum() int {
	if c.Quorum == 0 {
		return c.CloseGroupSize/2 + 1
	}
	return c.Quorum
}

// WithCloseGroupSize 设置副本组大小
func (c NetworkConfig) WithCloseGroupSize(k int) NetworkConfig {
	c.CloseGroupSize = k
	return c
}

// WithQuorum 设置法定人数
func (c NetworkConfig) WithQuorum(q int) NetworkConfig {
	c.Quorum = q
	return c
}
