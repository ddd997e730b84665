package closegroup

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-dsn/config"
)

// Params Selector 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Module 是副本组选择的 Fx 模块
var Module = fx.Module("closegroup",
	fx.Provide(NewSelectorFromParams),
)

// NewSelectorFromParams 从统一配置创建 Selector
func NewSelectorFromParams(p Params) *Selector {
	if p.UnifiedCfg == nil {
		return NewSelector(config.DefaultNetworkConfig())
	}
	return NewSelector(p.UnifiedCfg.Network)
}
