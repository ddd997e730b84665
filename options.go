package dsn

import (
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-dsn/config"
	"github.com/dep2p/go-dsn/pkg/interfaces"
	"github.com/dep2p/go-dsn/pkg/lib/crypto"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 协议配置
	config *config.Config

	// 协作方
	transport   interfaces.Transport
	ledger      interfaces.Ledger
	persistence interfaces.Persistence

	// 身份私钥（覆盖配置中的密钥文件）
	privateKey crypto.PrivateKey

	// 时钟（报价时间戳与过期）
	clock clock.Clock

	// 指标注册表
	registerer prometheus.Registerer

	// 用户自定义 Fx 选项
	fxOptions []fx.Option
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{
		config: config.NewConfig(),
		clock:  clock.New(),
	}
}

// ============================================================================
//                              配置选项
// ============================================================================

// WithConfig 使用完整配置
//
// 配置会被复制，调用方之后的修改不影响节点。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("config must not be nil")
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		o.config = config.CloneConfig(cfg)
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return WithConfig(cfg)(o)
	}
}

// WithNetwork 设置副本组大小与法定人数
func WithNetwork(k, q int) Option {
	return func(o *options) error {
		network := o.config.Network.WithCloseGroupSize(k).WithQuorum(q)
		if err := network.Validate(); err != nil {
			return err
		}
		o.config.Network = network
		return nil
	}
}

// ============================================================================
//                              协作方选项
// ============================================================================

// WithTransport 设置传输协作方
func WithTransport(t interfaces.Transport) Option {
	return func(o *options) error {
		if t == nil {
			return errors.New("transport must not be nil")
		}
		o.transport = t
		return nil
	}
}

// WithLedger 设置账本协作方
func WithLedger(l interfaces.Ledger) Option {
	return func(o *options) error {
		if l == nil {
			return errors.New("ledger must not be nil")
		}
		o.ledger = l
		return nil
	}
}

// WithPersistence 设置持久化协作方
func WithPersistence(p interfaces.Persistence) Option {
	return func(o *options) error {
		if p == nil {
			return errors.New("persistence must not be nil")
		}
		o.persistence = p
		return nil
	}
}

// ============================================================================
//                              运行时选项
// ============================================================================

// WithIdentity 使用指定私钥作为节点身份
func WithIdentity(key crypto.PrivateKey) Option {
	return func(o *options) error {
		if key == nil {
			return crypto.ErrNilPrivateKey
		}
		o.privateKey = key
		return nil
	}
}

// WithClock 设置时钟，测试中使用 clock.NewMock()
func WithClock(clk clock.Clock) Option {
	return func(o *options) error {
		if clk == nil {
			return errors.New("clock must not be nil")
		}
		o.clock = clk
		return nil
	}
}

// WithRegisterer 设置指标注册表
//
// 未设置时使用节点私有的注册表，从不注册到全局默认注册表。
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) error {
		if reg == nil {
			return errors.New("registerer must not be nil")
		}
		o.registerer = reg
		return nil
	}
}

// WithFxOption 追加自定义 Fx 选项
func WithFxOption(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOptions = append(o.fxOptions, opts...)
		return nil
	}
}
