package closegroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-dsn/config"
)

// TestModule_Load 测试 Fx 模块加载
func TestModule_Load(t *testing.T) {
	var s *Selector

	cfg := config.NewConfig()
	cfg.Network.CloseGroupSize = 7
	cfg.Network.Quorum = 0

	app := fxtest.New(t, fx.Supply(cfg), Module, fx.Populate(&s))
	app.RequireStart()
	defer app.RequireStop()

	assert.Equal(t, 7, s.K())
	assert.Equal(t, 4, s.Quorum())
}

// TestModule_DefaultConfig 测试无配置时使用默认值
func TestModule_DefaultConfig(t *testing.T) {
	s := NewSelectorFromParams(Params{})
	assert.Equal(t, 5, s.K())
	assert.Equal(t, 3, s.Quorum())
}
