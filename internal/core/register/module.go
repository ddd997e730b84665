package register

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-dsn/config"
)

// Params Engine 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Module 是寄存器引擎的 Fx 模块
var Module = fx.Module("register",
	fx.Provide(NewEngineFromParams),
	fx.Provide(NewPendingPoolFromParams),
)

func unifiedConfig(p Params) *config.Config {
	if p.UnifiedCfg == nil {
		return config.NewConfig()
	}
	return p.UnifiedCfg
}

// NewEngineFromParams 从统一配置创建 Engine
func NewEngineFromParams(p Params) (*Engine, error) {
	cfg := unifiedConfig(p)
	return NewEngine(cfg.Register, cfg.Limits)
}

// NewPendingPoolFromParams 从统一配置创建待定条目池
func NewPendingPoolFromParams(p Params) (*PendingPool, error) {
	return NewPendingPool(unifiedConfig(p).Register.PendingRegisters)
}
