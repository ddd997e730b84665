package payment

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-dsn/config"
	"github.com/dep2p/go-dsn/internal/core/identity"
)

// Params Quoter 依赖参数
type Params struct {
	fx.In

	Identity   *identity.Identity
	UnifiedCfg *config.Config `optional:"true"`
	Clock      clock.Clock    `optional:"true"`
}

// Module 是支付绑定的 Fx 模块
var Module = fx.Module("payment",
	fx.Provide(NewQuoterFromParams),
)

// NewQuoterFromParams 从参数创建 Quoter
func NewQuoterFromParams(p Params) (*Quoter, error) {
	pricing := config.DefaultPaymentConfig()
	if p.UnifiedCfg != nil {
		pricing = p.UnifiedCfg.Payment
	}
	return NewQuoter(p.Identity.PrivateKey(), pricing, p.Clock)
}
