// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//   - 支持预设配置（mainnet/devnet）
//
// 协议常量（副本组大小、法定人数、大小上限、定价参数）都来自这里，
// 核心操作不读取任何全局状态。
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Network.CloseGroupSize = 7
//
//	// 应用预设到现有配置
//	config.ApplyPreset(cfg, "devnet")
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

// Config 是 DSN 协议层的完整配置结构
//
// 配置按照功能模块组织：
//   - Identity: 节点身份（报价签名密钥）
//   - Network: 副本组与法定人数
//   - Limits: 各类记录的大小上限
//   - Payment: 定价与报价有效期
//   - Register: 寄存器引擎
//   - Metrics: 指标收集
type Config struct {
	// Identity 身份配置
	Identity IdentityConfig `json:"identity"`

	// Network 网络参数配置
	Network NetworkConfig `json:"network"`

	// Limits 记录大小上限配置
	Limits LimitsConfig `json:"limits"`

	// Payment 支付配置
	Payment PaymentConfig `json:"payment"`

	// Register 寄存器引擎配置
	Register RegisterConfig `json:"register"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`
}

// NewConfig 创建默认配置
//
// 返回的配置使用所有组件的默认值，适用于大多数场景。
func NewConfig() *Config {
	return &Config{
		Identity: DefaultIdentityConfig(),
		Network:  DefaultNetworkConfig(),
		Limits:   DefaultLimitsConfig(),
		Payment:  DefaultPaymentConfig(),
		Register: DefaultRegisterConfig(),
		Metrics:  DefaultMetricsConfig(),
	}
}

// Validate 验证配置的有效性
//
// 检查所有子配置是否有效，如果发现无效配置则返回错误。
func (c *Config) Validate() error {
	if err := c.Identity.Validate(); err != nil {
		return err
	}
	if err := c.Network.Validate(); err != nil {
		return err
	}
	if err := c.Limits.Validate(); err != nil {
		return err
	}
	if err := c.Payment.Validate(); err != nil {
		return err
	}
	if err := c.Register.Validate(); err != nil {
		return err
	}
	return c.Metrics.Validate()
}
