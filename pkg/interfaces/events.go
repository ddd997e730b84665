package interfaces

// Subscription 事件订阅
type Subscription interface {
	// Out 返回事件通道，取消订阅或节点关闭后通道被关闭
	Out() <-chan interface{}

	// Close 取消订阅
	Close() error
}
