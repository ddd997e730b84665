package dsn

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-dsn/internal/core/closegroup"
	"github.com/dep2p/go-dsn/internal/core/payment"
	"github.com/dep2p/go-dsn/internal/core/record"
	"github.com/dep2p/go-dsn/internal/core/register"
	"github.com/dep2p/go-dsn/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              报价
// ════════════════════════════════════════════════════════════════════════════

// Quote 按账本当前成本信号为 (target, size) 签发报价
func (n *Node) Quote(ctx context.Context, target types.Address, size uint64) (*payment.Quote, error) {
	if err := n.checkRunning(); err != nil {
		return nil, err
	}
	if n.ledger == nil {
		return nil, ErrNoLedger
	}
	signal, err := n.ledger.CostSignal(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger cost signal: %w", err)
	}
	return n.quoter.Quote(target, size, signal)
}

// ════════════════════════════════════════════════════════════════════════════
//                              副本组
// ════════════════════════════════════════════════════════════════════════════

// CloseGroup 计算目标的副本组
//
// 候选集合为节点表、传输层返回的最近节点以及本节点自身。
// 传输层查询失败时退回到节点表。
func (n *Node) CloseGroup(ctx context.Context, target types.Name) (closegroup.CloseGroup, error) {
	known := n.peers.All()

	if n.transport != nil {
		found, err := n.transport.FindClosestPeers(ctx, target, n.selector.K())
		switch {
		case err == nil:
			for _, addr := range found {
				n.peers.Add(addr)
			}
			known = append(known, found...)
		case ctx.Err() != nil:
			return closegroup.CloseGroup{}, ctx.Err()
		default:
			logger.Warn("查询最近节点失败，使用本地节点表", "target", target.ShortString(), "error", err)
		}
	}

	known = append(known, n.Address())
	return n.selector.Select(target, known), nil
}

// QueryQuorum 向目标副本组中的远端节点发送请求，返回法定人数一致的响应
//
// 所有请求共享 NetworkConfig.QueryTimeout 截止时间；
// 失败的节点在节点表中累计失败次数。
func (n *Node) QueryQuorum(ctx context.Context, target types.Name, request []byte) ([]byte, error) {
	if err := n.checkRunning(); err != nil {
		return nil, err
	}
	if n.transport == nil {
		return nil, ErrNoTransport
	}

	group, err := n.CloseGroup(ctx, target)
	if err != nil {
		return nil, err
	}

	if timeout := n.opts.config.Network.QueryTimeout.Duration(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	self := n.Name()
	responses := make([]closegroup.Response, len(group.Peers))
	var g errgroup.Group
	for i, peer := range group.Peers {
		if peer.Name() == self {
			responses[i] = closegroup.Response{Peer: peer, Err: errSelf}
			continue
		}
		g.Go(func() error {
			payload, err := n.transport.Send(ctx, peer, request)
			responses[i] = closegroup.Response{Peer: peer, Payload: payload, Err: err}
			if err != nil {
				logger.Debug("节点请求失败", "peer", peer.Name().ShortString(), "error", err)
				n.peers.MarkFailed(peer.Name(), peerMaxFails)
			}
			return nil
		})
	}
	_ = g.Wait()

	value, err := group.MatchingQuorum(responses)
	n.reporter.ObserveQuorum(err)
	if err != nil {
		logger.Warn("法定人数未达到", "target", target.ShortString(), "group", group.Len(), "error", err)
		return nil, err
	}
	return value, nil
}

// errSelf 本节点不通过传输层向自己发送请求
var errSelf = errors.New("dsn: self is not queried")

// ════════════════════════════════════════════════════════════════════════════
//                              本地读取
// ════════════════════════════════════════════════════════════════════════════

// GetChunk 读取本地保存的内容块或交易负载
//
// 内容块会重新校验内容哈希。
func (n *Node) GetChunk(ctx context.Context, addr types.Address) ([]byte, error) {
	if n.persistence == nil {
		return nil, ErrNoPersistence
	}
	data, err := n.persistence.LoadChunk(ctx, addr)
	if err != nil {
		return nil, err
	}
	if addr.Kind() == types.AddressChunk && types.HashName(data) != addr.Name() {
		return nil, types.NewValidationError(addr.Name(), types.ErrContentHashMismatch, "stored chunk corrupted")
	}
	return data, nil
}

// GetRegister 读取本地保存的寄存器历史
func (n *Node) GetRegister(ctx context.Context, addr types.Address) (*register.History, error) {
	if n.persistence == nil {
		return nil, ErrNoPersistence
	}
	data, err := n.persistence.LoadHistory(ctx, addr)
	if err != nil {
		return nil, err
	}
	return n.engine.Load(addr, data)
}

// GetScratchpad 读取本地保存的草稿板并校验签名
func (n *Node) GetScratchpad(ctx context.Context, addr types.Address) (*record.Scratchpad, error) {
	if n.persistence == nil {
		return nil, ErrNoPersistence
	}
	data, err := n.persistence.LoadChunk(ctx, addr)
	if err != nil {
		return nil, err
	}
	sp, err := record.UnmarshalScratchpad(data)
	if err != nil {
		return nil, types.NewValidationError(addr.Name(), types.ErrMalformedPayload, "%v", err)
	}
	if err := sp.Verify(addr); err != nil {
		return nil, err
	}
	return sp, nil
}
