package eventbus

import (
	"go.uber.org/fx"
)

// Module 是事件总线的 Fx 模块
//
// 总线的生命周期跟随节点：Stop 之后仍可订阅，Close 时由节点关闭。
var Module = fx.Module("eventbus",
	fx.Provide(New),
)
