package dsn

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-dsn/config"
	"github.com/dep2p/go-dsn/internal/core/closegroup"
	"github.com/dep2p/go-dsn/internal/core/eventbus"
	"github.com/dep2p/go-dsn/internal/core/identity"
	"github.com/dep2p/go-dsn/internal/core/metrics"
	"github.com/dep2p/go-dsn/internal/core/payment"
	"github.com/dep2p/go-dsn/internal/core/register"
	"github.com/dep2p/go-dsn/pkg/lib/crypto"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 配置、时钟、指标注册表、可选身份私钥
//  2. Identity → Register → CloseGroup → Payment → Metrics → EventBus
//  3. 用户自定义 Fx 选项
//  4. Node 组件注入
func buildFxApp(opts *options, node *Node) (*fx.App, error) {
	if err := opts.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		fx.Supply(opts.config),
		fx.Provide(func() clock.Clock { return opts.clock }),
	}

	if opts.registerer != nil {
		reg := opts.registerer
		modules = append(modules, fx.Provide(func() prometheus.Registerer { return reg }))
	}
	if opts.privateKey != nil {
		key := opts.privateKey
		modules = append(modules, fx.Provide(
			fx.Annotate(
				func() crypto.PrivateKey { return key },
				fx.ResultTags(`name:"identity_key"`),
			),
		))
	}

	modules = append(modules,
		identity.Module,
		register.Module,
		closegroup.Module,
		payment.Module,
		metrics.Module,
		eventbus.Module,
	)

	if len(opts.fxOptions) > 0 {
		modules = append(modules, opts.fxOptions...)
	}

	modules = append(modules,
		fx.Invoke(injectNodeComponents(node)),
		fx.Invoke(registerNodeLifecycle(node)),
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	return fx.New(modules...), nil
}

// nodeInjectParams Node 组件注入参数
type nodeInjectParams struct {
	fx.In

	Config   *config.Config
	Identity *identity.Identity
	Engine   *register.Engine
	Pending  *register.PendingPool
	Selector *closegroup.Selector
	Quoter   *payment.Quoter
	Reporter metrics.Reporter
	Events   *eventbus.Bus
	Clock    clock.Clock
}

// injectNodeComponents 创建 Node 组件注入函数
func injectNodeComponents(node *Node) interface{} {
	return func(p nodeInjectParams) {
		node.identity = p.Identity
		node.engine = p.Engine
		node.pending = p.Pending
		node.selector = p.Selector
		node.quoter = p.Quoter
		node.reporter = p.Reporter
		node.events = p.Events
		node.peers = closegroup.NewPeerTable(p.Identity.Address().Name(), p.Config.Network.CloseGroupSize, p.Clock)
	}
}

// registerNodeLifecycle 把节点状态切换挂到 Fx 生命周期
func registerNodeLifecycle(node *Node) interface{} {
	return func(lc fx.Lifecycle) {
		lc.Append(fx.StartStopHook(
			func() {
				logger.Debug("协议层组件已就绪", "address", node.identity.Address().Name().ShortString())
			},
			func() {
				logger.Debug("协议层组件已停止")
			},
		))
	}
}
