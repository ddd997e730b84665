package dsn

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dsn/config"
	"github.com/dep2p/go-dsn/pkg/lib/crypto"
	"github.com/dep2p/go-dsn/pkg/types"
)

// TestNode_Lifecycle 测试启动、停止与关闭的状态转换
func TestNode_Lifecycle(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	node := env.node

	assert.Equal(t, StateIdle, node.State())
	_, err := node.HandleWrite(ctx, paidChunk("early"))
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.ErrorIs(t, node.Stop(ctx), ErrNotStarted)

	require.NoError(t, node.Start(ctx))
	assert.True(t, node.IsRunning())
	assert.ErrorIs(t, node.Start(ctx), ErrAlreadyStarted)

	require.NoError(t, node.Stop(ctx))
	assert.Equal(t, StateStopped, node.State())

	require.NoError(t, node.Start(ctx))
	require.NoError(t, node.Close())
	assert.NoError(t, node.Close())
	assert.ErrorIs(t, node.Start(ctx), ErrNodeClosed)
	assert.ErrorIs(t, node.Stop(ctx), ErrNodeClosed)

	_, err = node.HandleWrite(ctx, paidChunk("late"))
	assert.ErrorIs(t, err, ErrNodeClosed)
}

// TestNodeState_String 测试状态名称
func TestNodeState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "unknown", NodeState(42).String())
}

// TestNode_Identity 测试注入的身份私钥决定节点地址
func TestNode_Identity(t *testing.T) {
	env := newEnv(t)
	owner, err := crypto.OwnerBytes(env.key)
	require.NoError(t, err)

	assert.Equal(t, types.PeerAddress(owner), env.node.Address())
	assert.Equal(t, types.PeerAddress(owner).Name(), env.node.Name())
}

// TestNode_Config 测试配置选项
func TestNode_Config(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Network = cfg.Network.WithCloseGroupSize(7).WithQuorum(4)

	env := newEnv(t, WithConfig(cfg))
	got := env.node.Config()
	assert.Equal(t, 7, got.Network.CloseGroupSize)
	assert.Equal(t, 4, got.Network.EffectiveQuorum())

	got.Network.CloseGroupSize = 1
	assert.Equal(t, 7, env.node.Config().Network.CloseGroupSize)

	env = newEnv(t, WithNetwork(3, 2))
	assert.Equal(t, 3, env.node.Config().Network.CloseGroupSize)
}

// TestNew_InvalidOptions 测试非法选项
func TestNew_InvalidOptions(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, WithConfig(nil))
	assert.Error(t, err)

	_, err = New(ctx, WithNetwork(3, 4))
	assert.Error(t, err)

	_, err = New(ctx, WithIdentity(nil))
	assert.ErrorIs(t, err, crypto.ErrNilPrivateKey)

	_, err = New(ctx, WithConfigFile("/nonexistent/dsn.json"))
	assert.Error(t, err)
}

// TestNode_AddPeer 测试节点表维护
func TestNode_AddPeer(t *testing.T) {
	env := newEnv(t)
	node := env.node

	assert.True(t, node.AddPeer(peerAddr("peer-1")))
	assert.False(t, node.AddPeer(node.Address()))
	assert.False(t, node.AddPeer(types.ChunkAddressOf([]byte("x"))))
	assert.Len(t, node.Peers(), 1)

	assert.True(t, node.RemovePeer(peerAddr("peer-1").Name()))
	assert.Empty(t, node.Peers())
}

// TestNode_Metrics 测试指标注册到注入的注册表
func TestNode_Metrics(t *testing.T) {
	ctx := context.Background()
	env := startEnv(t)

	_, err := env.node.HandleWrite(ctx, paidChunk("metrics"))
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(env.registry, "dsn_record_validations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stats := env.node.Stats()
	assert.Equal(t, int64(1), stats.Accepted)
	assert.Equal(t, int64(len("metrics")), stats.AcceptedBytes)
}

// TestAddressLocks 测试地址锁在释放后回收
func TestAddressLocks(t *testing.T) {
	locks := newAddressLocks()
	name := types.HashName([]byte("a"))

	unlock := locks.lock(name)
	assert.Equal(t, 1, locks.size())
	unlock()
	assert.Equal(t, 0, locks.size())
}
