package eventbus

import (
	"reflect"
	"sync"
)

// Subscription 订阅
type Subscription struct {
	bus *Bus
	typ reflect.Type
	out chan interface{}

	closeOnce sync.Once
}

// Out 返回事件通道，订阅或总线关闭后通道被关闭
func (s *Subscription) Out() <-chan interface{} {
	return s.out
}

// Close 取消订阅，可重复调用
func (s *Subscription) Close() error {
	s.bus.removeSub(s)
	s.closeChannel()
	return nil
}

func (s *Subscription) closeChannel() {
	s.closeOnce.Do(func() {
		close(s.out)
	})
}
