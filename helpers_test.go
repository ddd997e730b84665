package dsn

import (
	"context"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dsn/internal/core/record"
	"github.com/dep2p/go-dsn/internal/mocks"
	"github.com/dep2p/go-dsn/pkg/lib/crypto"
	"github.com/dep2p/go-dsn/pkg/types"
)

// testEnv 测试节点及其协作方
type testEnv struct {
	node        *Node
	key         crypto.PrivateKey
	clock       *clock.Mock
	registry    *prometheus.Registry
	ledger      *mocks.MockLedger
	persistence *mocks.MockPersistence
}

func newKey(t *testing.T) crypto.PrivateKey {
	t.Helper()
	priv, _, err := crypto.GenerateKeyPair(crypto.KeyTypeEd25519)
	require.NoError(t, err)
	return priv
}

// newEnv 创建未启动的节点；没有传输协作方时副本组只含本节点
func newEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	env := &testEnv{
		key:         newKey(t),
		clock:       clock.NewMock(),
		registry:    prometheus.NewRegistry(),
		ledger:      mocks.NewMockLedger(1),
		persistence: mocks.NewMockPersistence(),
	}
	base := []Option{
		WithIdentity(env.key),
		WithClock(env.clock),
		WithRegisterer(env.registry),
		WithLedger(env.ledger),
		WithPersistence(env.persistence),
	}
	node, err := New(context.Background(), append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = node.Close() })
	env.node = node
	return env
}

// startEnv 创建并启动节点
func startEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	env := newEnv(t, opts...)
	require.NoError(t, env.node.Start(context.Background()))
	return env
}

// receiptFor 构造绑定到 target 的收据
func receiptFor(target types.Address, amount uint64) *types.Receipt {
	return &types.Receipt{
		Payer:  []byte("payer"),
		Amount: types.NewAmount(amount),
		Target: target,
	}
}

// paidChunk 构造携带足额收据的内容块写入请求
func paidChunk(payload string) WriteRequest {
	rec := record.NewChunk([]byte(payload))
	return WriteRequest{Record: &rec, Receipt: receiptFor(rec.Address, 1000)}
}

type owner struct {
	key   crypto.PrivateKey
	bytes []byte
}

func newOwner(t *testing.T) owner {
	t.Helper()
	key := newKey(t)
	b, err := crypto.OwnerBytes(key)
	require.NoError(t, err)
	return owner{key: key, bytes: b}
}

func (o owner) register(meta byte) types.Address {
	var m types.Name
	m[0] = meta
	return types.RegisterAddress(o.bytes, m)
}

func (o owner) entry(t *testing.T, addr types.Address, value string, parents ...*record.Entry) *record.Entry {
	t.Helper()
	hashes := make([]record.EntryHash, len(parents))
	for i, p := range parents {
		hashes[i] = p.Hash()
	}
	e, err := record.NewEntry(o.key, addr.Name(), []byte(value), hashes)
	require.NoError(t, err)
	return e
}

// paidRegister 构造携带足额收据的寄存器写入请求
func paidRegister(t *testing.T, addr types.Address, entries ...*record.Entry) WriteRequest {
	t.Helper()
	rec, err := record.NewRegister(addr, entries)
	require.NoError(t, err)
	return WriteRequest{Record: &rec, Receipt: receiptFor(addr, 1000)}
}

// paidScratchpad 构造携带足额收据的草稿板写入请求
func paidScratchpad(t *testing.T, o owner, addr types.Address, data string, counter uint64) WriteRequest {
	t.Helper()
	sp, err := record.NewScratchpad(o.key, addr, 0, []byte(data), counter)
	require.NoError(t, err)
	rec, err := record.NewScratchpadRecord(addr, sp)
	require.NoError(t, err)
	return WriteRequest{Record: &rec, Receipt: receiptFor(addr, 1000)}
}

// peerAddr 构造测试用的节点地址
func peerAddr(id string) types.Address {
	return types.PeerAddress([]byte(id))
}
