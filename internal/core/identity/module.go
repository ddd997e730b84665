package identity

import (
	"errors"
	"fmt"

	"go.uber.org/fx"

	"github.com/dep2p/go-dsn/config"
	"github.com/dep2p/go-dsn/pkg/lib/crypto"
	"github.com/dep2p/go-dsn/pkg/lib/log"
)

var logger = log.Logger("dsn/identity")

// ============================================================================
//                              模块输入依赖
// ============================================================================

// Params 身份模块依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`

	// Key 直接注入的私钥（WithIdentity 场景）
	Key crypto.PrivateKey `name:"identity_key" optional:"true"`
}

// ============================================================================
//                              服务提供
// ============================================================================

// ProvideIdentity 创建或加载节点身份
//
// 优先级：注入的私钥 > 密钥文件 > 自动生成。
func ProvideIdentity(p Params) (*Identity, error) {
	if p.Key != nil {
		return New(p.Key)
	}

	cfg := config.DefaultIdentityConfig()
	if p.UnifiedCfg != nil {
		cfg = p.UnifiedCfg.Identity
	}
	keyType, err := ParseKeyType(cfg.KeyType)
	if err != nil {
		return nil, err
	}

	if cfg.KeyFile == "" {
		if !cfg.AutoGenerate {
			return nil, errors.New("identity: no key configured")
		}
		return Generate(keyType)
	}

	key, err := LoadPrivateKeyPEM(cfg.KeyFile)
	switch {
	case err == nil:
		return New(key)
	case errors.Is(err, ErrKeyNotFound) && cfg.AutoGenerate:
		id, err := Generate(keyType)
		if err != nil {
			return nil, err
		}
		if err := SavePrivateKeyPEM(id.PrivateKey(), cfg.KeyFile); err != nil {
			logger.Warn("保存身份密钥失败", "path", cfg.KeyFile, "error", err)
		}
		return id, nil
	default:
		return nil, fmt.Errorf("identity: load %s: %w", cfg.KeyFile, err)
	}
}

// ============================================================================
//                              模块定义
// ============================================================================

// Module 是身份管理的 Fx 模块
var Module = fx.Module("identity",
	fx.Provide(ProvideIdentity),
)
