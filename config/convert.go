package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// FromJSON 从 JSON 数据创建配置
//
// 未出现的字段保留默认值。
//
// 示例 JSON:
//
//	{
//	  "network": {"close_group_size": 7, "quorum": 4},
//	  "payment": {"quote_ttl": "1h"}
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// LoadFile 从 JSON 文件加载并验证配置
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := FromJSON(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ToJSON 将配置序列化为带缩进的 JSON
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// SaveFile 将配置写入 JSON 文件
func (c *Config) SaveFile(path string) error {
	data, err := c.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// ApplyPreset 应用预设配置
//
// 支持的预设：
//   - "mainnet": 默认网络参数
//   - "devnet": 小副本组、短报价有效期，用于本地开发网络
func ApplyPreset(cfg *Config, presetName string) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	switch presetName {
	case "mainnet":
		applyMainnetPreset(cfg)
		return nil
	case "devnet":
		applyDevnetPreset(cfg)
		return nil
	case "":
		return nil
	default:
		return fmt.Errorf("unknown preset: %s", presetName)
	}
}

func applyMainnetPreset(cfg *Config) {
	cfg.Network = DefaultNetworkConfig()
	cfg.Limits = DefaultLimitsConfig()
	cfg.Payment = DefaultPaymentConfig()
}

// applyDevnetPreset 应用开发网络预设
//
// 三节点即可形成副本组，报价一小时过期。
func applyDevnetPreset(cfg *Config) {
	cfg.Network.CloseGroupSize = 3
	cfg.Network.Quorum = 2
	cfg.Network.QueryTimeout = Duration(5 * time.Second)
	cfg.Payment.QuoteTTL = Duration(time.Hour)
	cfg.Metrics.Enabled = false
}

// CloneConfig 克隆配置
//
// 所有子配置都是值类型，浅拷贝即为深拷贝。
func CloneConfig(cfg *Config) *Config {
	if cfg == nil {
		return nil
	}
	cloned := *cfg
	return &cloned
}

// ConvertForComponent 为特定组件取出子配置
func ConvertForComponent(cfg *Config, component string) (interface{}, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	switch component {
	case "identity":
		return cfg.Identity, nil
	case "network", "closegroup":
		return cfg.Network, nil
	case "limits", "record":
		return cfg.Limits, nil
	case "payment":
		return cfg.Payment, nil
	case "register":
		return cfg.Register, nil
	case "metrics":
		return cfg.Metrics, nil
	default:
		return nil, fmt.Errorf("unknown component: %s", component)
	}
}
