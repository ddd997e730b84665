package interfaces

import (
	"context"

	"github.com/dep2p/go-dsn/pkg/types"
)

// Transport 定义传输协作方接口
//
// 协议层只需要两个能力：向某个节点发送请求并取回响应，
// 以及查询本地已知的、距离目标最近的 k 个节点。
// 连接复用、帧格式和重试策略都属于实现方。
type Transport interface {
	// Send 向 peer 发送请求字节并返回响应字节
	//
	// peer 必须是 Peer 变体的地址。
	Send(ctx context.Context, peer types.Address, request []byte) ([]byte, error)

	// FindClosestPeers 返回已知的距离 target 最近的至多 k 个节点
	//
	// 返回的集合无需排序；调用方使用 closegroup.Select 重新排序截断。
	FindClosestPeers(ctx context.Context, target types.Name, k int) ([]types.Address, error)
}
