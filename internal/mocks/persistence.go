package mocks

import (
	"context"
	"sync"

	"github.com/dep2p/go-dsn/pkg/interfaces"
	"github.com/dep2p/go-dsn/pkg/types"
)

var _ interfaces.Persistence = (*MockPersistence)(nil)

// MockPersistence 基于内存的持久化协作方
//
// 设置 Err 后所有调用返回该错误。
type MockPersistence struct {
	Err error

	mu        sync.RWMutex
	histories map[types.Name][]byte
	chunks    map[types.Name][]byte
	writes    int
}

// NewMockPersistence 创建空的 MockPersistence
func NewMockPersistence() *MockPersistence {
	return &MockPersistence{
		histories: make(map[types.Name][]byte),
		chunks:    make(map[types.Name][]byte),
	}
}

// LoadHistory 加载寄存器历史
func (m *MockPersistence) LoadHistory(_ context.Context, addr types.Address) ([]byte, error) {
	return m.load(m.histories, addr)
}

// StoreHistory 保存寄存器历史
func (m *MockPersistence) StoreHistory(_ context.Context, addr types.Address, history []byte) error {
	return m.store(m.histories, addr, history)
}

// LoadChunk 加载不可变记录
func (m *MockPersistence) LoadChunk(_ context.Context, addr types.Address) ([]byte, error) {
	return m.load(m.chunks, addr)
}

// StoreChunk 保存不可变记录
func (m *MockPersistence) StoreChunk(_ context.Context, addr types.Address, payload []byte) error {
	return m.store(m.chunks, addr, payload)
}

// HasChunk 检查记录是否存在
func (m *MockPersistence) HasChunk(_ context.Context, addr types.Address) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.chunks[addr.Name()]
	return ok, nil
}

// Writes 返回成功写入次数
func (m *MockPersistence) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

func (m *MockPersistence) load(table map[types.Name][]byte, addr types.Address) ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := table[addr.Name()]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *MockPersistence) store(table map[types.Name][]byte, addr types.Address, data []byte) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	table[addr.Name()] = append([]byte(nil), data...)
	m.writes++
	return nil
}
