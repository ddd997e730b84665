package register

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dep2p/go-dsn/internal/core/record"
	"github.com/dep2p/go-dsn/pkg/types"
)

// PendingPool 按寄存器缓存父条目尚未到达的条目
//
// 持久化只保存已确认条目，待定条目留在这里，等下一次写入同一寄存器时
// 通过 Engine.Restore 放回历史。容量按寄存器计，超出时淘汰最久未写入的寄存器。
// 调用方负责对同一寄存器的 Take/Put 串行化。
type PendingPool struct {
	cache *lru.Cache[types.Name, []*record.Entry]
}

// NewPendingPool 创建待定条目池
//
// size 为 0 时不缓存任何条目。
func NewPendingPool(size int) (*PendingPool, error) {
	p := &PendingPool{}
	if size > 0 {
		cache, err := lru.New[types.Name, []*record.Entry](size)
		if err != nil {
			return nil, fmt.Errorf("create pending pool: %w", err)
		}
		p.cache = cache
	}
	return p, nil
}

// Take 取出并移除寄存器的待定条目，nil 池视为禁用
func (p *PendingPool) Take(name types.Name) []*record.Entry {
	if p == nil || p.cache == nil {
		return nil
	}
	entries, ok := p.cache.Peek(name)
	if !ok {
		return nil
	}
	p.cache.Remove(name)
	return entries
}

// Put 保存寄存器的待定条目，空集合时清除记录
func (p *PendingPool) Put(name types.Name, entries []*record.Entry) {
	if p == nil || p.cache == nil {
		return
	}
	if len(entries) == 0 {
		p.cache.Remove(name)
		return
	}
	p.cache.Add(name, entries)
}

// Len 返回缓存了待定条目的寄存器数
func (p *PendingPool) Len() int {
	if p == nil || p.cache == nil {
		return 0
	}
	return p.cache.Len()
}
