package dsn

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-dsn/config"
	"github.com/dep2p/go-dsn/internal/core/closegroup"
	"github.com/dep2p/go-dsn/internal/core/eventbus"
	"github.com/dep2p/go-dsn/internal/core/identity"
	"github.com/dep2p/go-dsn/internal/core/metrics"
	"github.com/dep2p/go-dsn/internal/core/payment"
	"github.com/dep2p/go-dsn/internal/core/register"
	"github.com/dep2p/go-dsn/pkg/interfaces"
	"github.com/dep2p/go-dsn/pkg/lib/log"
	"github.com/dep2p/go-dsn/pkg/types"
)

var logger = log.Logger("dsn")

// ════════════════════════════════════════════════════════════════════════════
//                              节点状态
// ════════════════════════════════════════════════════════════════════════════

// NodeState 节点状态
type NodeState int

const (
	// StateIdle 空闲状态（已创建，未启动）
	StateIdle NodeState = iota

	// StateStarting 启动中（Fx App 启动中）
	StateStarting

	// StateRunning 运行中
	StateRunning

	// StateStopping 停止中
	StateStopping

	// StateStopped 已停止（可重新启动）
	StateStopped
)

// String 返回状态的字符串表示
func (s NodeState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

const (
	// startTimeout Fx App 启动超时
	startTimeout = 30 * time.Second

	// closeTimeout Close 内部停止超时
	closeTimeout = 10 * time.Second

	// peerMaxFails 连续失败多少次后从节点表移除
	peerMaxFails = 3
)

// ════════════════════════════════════════════════════════════════════════════
//                              Node
// ════════════════════════════════════════════════════════════════════════════

// Node 协议层节点门面
//
// 把纯协议组件（记录校验、寄存器合并、副本组选择、支付绑定）
// 与外部协作方（传输、账本、持久化）组合为写入接纳和法定人数查询流程。
// 所有方法并发安全。
type Node struct {
	opts *options
	app  *fx.App

	// ────────────────────────────────────────────────────────────────────────
	// 由 Fx 注入的组件
	// ────────────────────────────────────────────────────────────────────────

	identity *identity.Identity
	engine   *register.Engine
	pending  *register.PendingPool
	selector *closegroup.Selector
	quoter   *payment.Quoter
	reporter metrics.Reporter
	events   *eventbus.Bus
	peers    *closegroup.PeerTable

	// ────────────────────────────────────────────────────────────────────────
	// 外部协作方
	// ────────────────────────────────────────────────────────────────────────

	transport   interfaces.Transport
	ledger      interfaces.Ledger
	persistence interfaces.Persistence

	// 可变记录的按地址写锁
	locks *addressLocks

	// ────────────────────────────────────────────────────────────────────────
	// 生命周期状态
	// ────────────────────────────────────────────────────────────────────────

	mu      sync.RWMutex
	state   NodeState
	started bool
	closed  bool
}

// New 创建新节点
//
// 创建节点但不启动，需要调用 Start() 启动。
//
// 示例：
//
//	node, err := dsn.New(ctx,
//	    dsn.WithTransport(t),
//	    dsn.WithLedger(l),
//	    dsn.WithPersistence(p),
//	)
func New(_ context.Context, opts ...Option) (*Node, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	node := &Node{
		opts:        o,
		transport:   o.transport,
		ledger:      o.ledger,
		persistence: o.persistence,
		locks:       newAddressLocks(),
	}

	var err error
	node.app, err = buildFxApp(o, node)
	if err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	if err := node.app.Err(); err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	return node, nil
}

// Start 快捷启动函数，等价于 New() + Start()
func Start(ctx context.Context, opts ...Option) (*Node, error) {
	node, err := New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if err := node.Start(ctx); err != nil {
		return nil, fmt.Errorf("start node: %w", err)
	}
	return node, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              基本信息
// ════════════════════════════════════════════════════════════════════════════

// Address 返回节点的 Peer 地址
func (n *Node) Address() types.Address {
	return n.identity.Address()
}

// Name 返回节点名字
func (n *Node) Name() types.Name {
	return n.identity.Address().Name()
}

// Config 返回节点配置的副本
func (n *Node) Config() *config.Config {
	return config.CloneConfig(n.opts.config)
}

// Stats 返回接纳统计快照
func (n *Node) Stats() metrics.Stats {
	return n.reporter.Snapshot()
}

// State 返回节点状态
func (n *Node) State() NodeState {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state
}

// IsRunning 节点是否运行中
func (n *Node) IsRunning() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state == StateRunning
}

// ════════════════════════════════════════════════════════════════════════════
//                              节点表
// ════════════════════════════════════════════════════════════════════════════

// AddPeer 添加已知节点，返回是否进入节点表
func (n *Node) AddPeer(addr types.Address) bool {
	return n.peers.Add(addr)
}

// RemovePeer 移除已知节点
func (n *Node) RemovePeer(name types.Name) bool {
	return n.peers.Remove(name)
}

// Peers 返回节点表中的所有节点
func (n *Node) Peers() []types.Address {
	return n.peers.All()
}

// ════════════════════════════════════════════════════════════════════════════
//                              事件订阅
// ════════════════════════════════════════════════════════════════════════════

// SubscribeOption 订阅选项
type SubscribeOption = eventbus.Option

// BufSize 设置订阅缓冲区大小
var BufSize = eventbus.BufSize

// Subscribe 订阅写入事件
//
// eventType 为 new(types.EvtWriteAccepted) 或 new(types.EvtWriteRejected)。
// 订阅者处理过慢时事件被丢弃；节点 Close 时通道被关闭。
func (n *Node) Subscribe(eventType interface{}, opts ...SubscribeOption) (interfaces.Subscription, error) {
	sub, err := n.events.Subscribe(eventType, opts...)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期
// ════════════════════════════════════════════════════════════════════════════

// Start 启动节点
//
// 可以多次调用 Start/Stop，Close 之后不可再启动。
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrNodeClosed
	}
	if n.started {
		return ErrAlreadyStarted
	}

	n.state = StateStarting
	logger.Info("正在启动节点")

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	if err := n.app.Start(startCtx); err != nil {
		n.state = StateIdle
		logger.Error("节点启动失败", "error", err)
		return fmt.Errorf("start fx app: %w", err)
	}

	n.state = StateRunning
	n.started = true
	logger.Info("节点启动成功",
		"address", n.Name().ShortString(),
		"k", n.selector.K(),
		"quorum", n.selector.Quorum(),
		"transport", n.transport != nil,
		"ledger", n.ledger != nil,
		"persistence", n.persistence != nil)
	return nil
}

// Stop 停止节点，之后可以再次 Start
func (n *Node) Stop(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrNodeClosed
	}
	if !n.started {
		return ErrNotStarted
	}
	return n.stopLocked(ctx)
}

func (n *Node) stopLocked(ctx context.Context) error {
	n.state = StateStopping
	logger.Info("正在停止节点")

	err := n.app.Stop(ctx)
	n.state = StateStopped
	n.started = false
	if err != nil {
		logger.Error("停止节点失败", "error", err)
		return fmt.Errorf("stop fx app: %w", err)
	}
	logger.Info("节点已停止")
	return nil
}

// Close 关闭节点并释放所有资源
//
// 与 Stop 的区别：Close 之后节点不可重新启动。重复调用返回 nil。
func (n *Node) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil
	}

	var err error
	if n.started {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		err = n.stopLocked(ctx)
		cancel()
	}
	_ = n.events.Close()
	n.closed = true
	logger.Info("节点已关闭")
	return err
}

// checkRunning 检查节点处于运行状态
func (n *Node) checkRunning() error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return ErrNodeClosed
	}
	if !n.started {
		return ErrNotStarted
	}
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              按地址加锁
// ════════════════════════════════════════════════════════════════════════════

// addressLocks 可变记录（寄存器、草稿板）的按地址互斥锁
//
// 同一地址的读-合并-写串行执行；锁在无人等待时释放。
type addressLocks struct {
	mu    sync.Mutex
	locks map[types.Name]*addressLock
}

type addressLock struct {
	mu   sync.Mutex
	refs int
}

func newAddressLocks() *addressLocks {
	return &addressLocks{locks: make(map[types.Name]*addressLock)}
}

// lock 获取地址锁，返回解锁函数
func (l *addressLocks) lock(name types.Name) func() {
	l.mu.Lock()
	al, ok := l.locks[name]
	if !ok {
		al = &addressLock{}
		l.locks[name] = al
	}
	al.refs++
	l.mu.Unlock()

	al.mu.Lock()
	return func() {
		al.mu.Unlock()
		l.mu.Lock()
		al.refs--
		if al.refs == 0 {
			delete(l.locks, name)
		}
		l.mu.Unlock()
	}
}

// size 返回当前持有或等待中的锁数量
func (l *addressLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
