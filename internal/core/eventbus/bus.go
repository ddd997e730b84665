package eventbus

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-dsn/pkg/lib/log"
)

var logger = log.Logger("dsn/eventbus")

var (
	// ErrClosed 事件总线已关闭
	ErrClosed = errors.New("eventbus: closed")

	// ErrInvalidEventType 事件类型为空
	ErrInvalidEventType = errors.New("eventbus: invalid event type")

	// ErrNonPointerType 订阅时必须传入事件类型的指针
	ErrNonPointerType = errors.New("eventbus: subscribe called with non-pointer type")
)

// Bus 事件总线
type Bus struct {
	mu     sync.RWMutex
	topics map[reflect.Type]*topic
	closed bool
}

// topic 单个事件类型的订阅者集合
type topic struct {
	mu      sync.Mutex
	typ     reflect.Type
	subs    []*Subscription
	dropped atomic.Int64
}

// New 创建事件总线
func New() *Bus {
	return &Bus{topics: make(map[reflect.Type]*topic)}
}

// Subscribe 订阅事件
//
// eventType 为事件类型的指针，例如 new(types.EvtWriteAccepted)；
// 通道中收到的是事件值。
func (b *Bus) Subscribe(eventType interface{}, opts ...Option) (*Subscription, error) {
	typ, err := elemType(eventType)
	if err != nil {
		return nil, err
	}

	s := settings{bufSize: defaultBufSize}
	for _, opt := range opts {
		opt(&s)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}

	t, ok := b.topics[typ]
	if !ok {
		t = &topic{typ: typ}
		b.topics[typ] = t
	}
	sub := &Subscription{bus: b, typ: typ, out: make(chan interface{}, s.bufSize)}
	t.mu.Lock()
	t.subs = append(t.subs, sub)
	t.mu.Unlock()
	return sub, nil
}

// Emit 发布事件，不阻塞
//
// 没有订阅者时直接返回。
func (b *Bus) Emit(event interface{}) error {
	typ := reflect.TypeOf(event)
	if typ == nil {
		return ErrInvalidEventType
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	if t, ok := b.topics[typ]; ok {
		t.emit(event)
	}
	return nil
}

// SubscriberCount 返回某事件类型的订阅者数量
func (b *Bus) SubscriberCount(eventType interface{}) int {
	typ, err := elemType(eventType)
	if err != nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.topics[typ]
	if !ok {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

// Close 关闭总线和所有订阅，可重复调用
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	topics := b.topics
	b.topics = make(map[reflect.Type]*topic)
	b.mu.Unlock()

	for _, t := range topics {
		t.mu.Lock()
		subs := t.subs
		t.subs = nil
		t.mu.Unlock()
		for _, sub := range subs {
			sub.closeChannel()
		}
	}
	return nil
}

// removeSub 移除订阅，订阅者为空时删除主题
func (b *Bus) removeSub(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.topics[sub.typ]
	if !ok {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, s := range t.subs {
		if s == sub {
			t.subs = append(t.subs[:i], t.subs[i+1:]...)
			break
		}
	}
	if len(t.subs) == 0 {
		delete(b.topics, sub.typ)
	}
}

func (t *topic) emit(event interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, sub := range t.subs {
		select {
		case sub.out <- event:
		default:
			// 每丢弃 100 个事件警告一次
			if dropped := t.dropped.Add(1); dropped%100 == 1 {
				logger.Warn("慢消费者检测", "dropped", dropped, "type", t.typ.String())
			}
		}
	}
}

func elemType(eventType interface{}) (reflect.Type, error) {
	if eventType == nil {
		return nil, ErrInvalidEventType
	}
	typ := reflect.TypeOf(eventType)
	if typ.Kind() != reflect.Ptr {
		return nil, ErrNonPointerType
	}
	return typ.Elem(), nil
}
