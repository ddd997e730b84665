package mocks

import (
	"context"
	"sync"

	"github.com/dep2p/go-dsn/pkg/interfaces"
	"github.com/dep2p/go-dsn/pkg/types"
)

var _ interfaces.Transport = (*MockTransport)(nil)

// SendCall 记录一次 Send 调用
type SendCall struct {
	Peer    types.Address
	Request []byte
}

// MockTransport 模拟传输协作方
//
// 未设置 FindClosestPeersFunc 时返回 Peers 字段。
type MockTransport struct {
	// Peers 默认的已知节点
	Peers []types.Address

	SendFunc             func(ctx context.Context, peer types.Address, request []byte) ([]byte, error)
	FindClosestPeersFunc func(ctx context.Context, target types.Name, k int) ([]types.Address, error)

	mu        sync.Mutex
	SendCalls []SendCall
}

// Send 发送请求
func (m *MockTransport) Send(ctx context.Context, peer types.Address, request []byte) ([]byte, error) {
	m.mu.Lock()
	m.SendCalls = append(m.SendCalls, SendCall{Peer: peer, Request: request})
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(ctx, peer, request)
	}
	return nil, nil
}

// FindClosestPeers 查询最近节点
func (m *MockTransport) FindClosestPeers(ctx context.Context, target types.Name, k int) ([]types.Address, error) {
	if m.FindClosestPeersFunc != nil {
		return m.FindClosestPeersFunc(ctx, target, k)
	}
	return m.Peers, nil
}

// SendCount 返回 Send 调用次数
func (m *MockTransport) SendCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SendCalls)
}
