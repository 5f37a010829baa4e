// Package proxy 解析 EIP-1967 代理合约
//
// 读取实现槽 0x360894...2bbc；全零表示不是代理。
// 合约是否为代理在部署后不可变，因此结果按地址永久缓存，
// 并发的首次查询通过 singleflight 合并为一次存储读取。
package proxy

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/singleflight"

	cacheconfig "github.com/weisyn/mintgate/internal/config/cache"
	"github.com/weisyn/mintgate/internal/core/contract"
	"github.com/weisyn/mintgate/internal/core/infrastructure/cache"
	"github.com/weisyn/mintgate/internal/core/ledger"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
)

// ImplementationSlot EIP-1967 逻辑合约地址槽
//
// bytes32(uint256(keccak256("eip1967.proxy.implementation")) - 1)
var ImplementationSlot = common.HexToHash("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc")

// Resolver 代理解析器
type Resolver struct {
	ledger ledger.Client
	cache  *cache.Registry
	group  singleflight.Group
	logger log.Logger
}

// NewResolver 创建代理解析器
func NewResolver(client ledger.Client, registry *cache.Registry, logger log.Logger) *Resolver {
	return &Resolver{
		ledger: client,
		cache:  registry,
		logger: logger,
	}
}

// Implementation 读取实现槽中的逻辑合约地址（不缓存）
func (r *Resolver) Implementation(ctx context.Context, address common.Address) (common.Address, error) {
	value, err := r.ledger.StorageAt(ctx, address, ImplementationSlot)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(value), nil
}

// IsProxyContract 判断地址是否为代理合约
func (r *Resolver) IsProxyContract(ctx context.Context, address common.Address) (bool, error) {
	key := address.Hex()
	if isProxy, ok := cache.GetTyped[bool](r.cache, cacheconfig.NameProxyResolution, key); ok {
		return isProxy, nil
	}

	// 共享读取不绑定任何单个调用方的取消，每个调用方只受自己的 ctx 约束
	shared := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (interface{}, error) {
		if isProxy, ok := cache.GetTyped[bool](r.cache, cacheconfig.NameProxyResolution, key); ok {
			return isProxy, nil
		}
		impl, err := r.Implementation(shared, address)
		if err != nil {
			return false, err
		}
		isProxy := impl != (common.Address{})
		r.cache.Set(cacheconfig.NameProxyResolution, key, isProxy)
		if r.logger != nil {
			r.logger.Debugf("代理解析: address=%s proxy=%t implementation=%s", key, isProxy, impl.Hex())
		}
		return isProxy, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Binding 按代理解析结果选择合约绑定
func (r *Resolver) Binding(ctx context.Context, address common.Address) (*contract.Binding, error) {
	isProxy, err := r.IsProxyContract(ctx, address)
	if err != nil {
		return nil, err
	}
	return contract.ForContract(address, isProxy), nil
}
