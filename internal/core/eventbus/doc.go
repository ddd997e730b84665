// Package eventbus 实现进程内事件总线
//
// 节点通过总线发布写入接纳结果（types.EvtWriteAccepted、types.EvtWriteRejected），
// 调用方按事件类型订阅。
//
// # 快速开始
//
//	bus := eventbus.New()
//	sub, _ := bus.Subscribe(new(types.EvtWriteAccepted), eventbus.BufSize(64))
//	defer sub.Close()
//
//	go func() {
//	    for evt := range sub.Out() {
//	        e := evt.(types.EvtWriteAccepted)
//	        // 处理事件
//	    }
//	}()
//
//	bus.Emit(types.EvtWriteAccepted{...})
//
// # 投递语义
//
// 发布不会阻塞：订阅者缓冲区满时事件被丢弃，并按丢弃次数节流告警。
// 总线关闭后所有订阅通道被关闭，再次订阅或发布返回 ErrClosed。
package eventbus
