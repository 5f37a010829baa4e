// Package contract 提供 Avatar 合约的 ABI 绑定
//
// 🎯 **职责**：
// - 内嵌 Avatar / AvatarUpgradeable / TransparentUpgradeableProxy / ProxyAdmin 的 ABI
// - 编码调用数据、解码只读调用结果
// - 加载 hardhat 风格的编译产物（abi + bytecode）用于部署
// - 从节点错误中提取 revert 原因
//
// 调用方先通过代理解析确定绑定（不可变合约或可升级合约），再发起方法调用。
package contract

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/weisyn/mintgate/pkg/types"
)

// 合约名称
const (
	NameImmutable   = "Avatar"
	NameUpgradeable = "AvatarUpgradeable"
	NameProxy       = "TransparentUpgradeableProxy"
	NameProxyAdmin  = "ProxyAdmin"
)

// 合约方法
const (
	MethodName                    = "name"
	MethodSymbol                  = "symbol"
	MethodTotalSupply             = "totalSupply"
	MethodOwner                   = "owner"
	MethodMaxSupply               = "maxSupply"
	MethodFinalization            = "finalization"
	MethodExists                  = "exists"
	MethodTokenURI                = "tokenURI"
	MethodTokenContentHashes      = "tokenContentHashes"
	MethodOwnerOf                 = "ownerOf"
	MethodBalanceOf               = "balanceOf"
	MethodContentHashExists       = "contentHashExists"
	MethodGetAllContentHash       = "getAllContentHash"
	MethodGetTokenIDByContentHash = "getTokenIdByContentHash"
	MethodMintForCreator          = "mintForCreator"
	MethodMintTo                  = "mintTo"
	MethodBatchTransfer           = "batchTransfer"
	MethodBatchTransferToN        = "batchTransferToN"
	MethodBatchBurn               = "batchBurn"
	MethodTransferFrom            = "transferFrom"
	MethodSetMaxSupply            = "setMaxSupply"
	MethodSetBaseTokenURI         = "setBaseTokenURI"
)

var (
	//go:embed abi/Avatar.json
	avatarABIJSON string
	//go:embed abi/AvatarUpgradeable.json
	avatarUpgradeableABIJSON string
	//go:embed abi/TransparentUpgradeableProxy.json
	proxyABIJSON string
	//go:embed abi/ProxyAdmin.json
	proxyAdminABIJSON string
)

var (
	// AvatarABI 不可变合约 ABI
	AvatarABI = mustParseABI(NameImmutable, avatarABIJSON)
	// AvatarUpgradeableABI 可升级合约（逻辑合约）ABI
	AvatarUpgradeableABI = mustParseABI(NameUpgradeable, avatarUpgradeableABIJSON)
	// ProxyABI 透明代理 ABI（仅构造函数）
	ProxyABI = mustParseABI(NameProxy, proxyABIJSON)
	// ProxyAdminABI 代理管理员 ABI（构造函数无参，部署者即 owner）
	ProxyAdminABI = mustParseABI(NameProxyAdmin, proxyAdminABIJSON)

	// TransferEventTopic keccak256("Transfer(address,address,uint256)")
	TransferEventTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))
)

func mustParseABI(name, raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("parse %s abi: %v", name, err))
	}
	return parsed
}

// Caller 只读调用能力（ledger.Client 满足该接口）
type Caller interface {
	Call(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
}

// Binding 绑定到具体地址的合约
type Binding struct {
	Name    string
	ABI     abi.ABI
	Address common.Address
}

// ForContract 按代理解析结果选择绑定
func ForContract(address common.Address, upgradeable bool) *Binding {
	if upgradeable {
		return &Binding{Name: NameUpgradeable, ABI: AvatarUpgradeableABI, Address: address}
	}
	return &Binding{Name: NameImmutable, ABI: AvatarABI, Address: address}
}

// Pack 编码方法调用数据
func (b *Binding) Pack(method string, args ...interface{}) ([]byte, error) {
	data, err := b.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: pack %s.%s: %w", types.ErrInvalidArgument, b.Name, method, err)
	}
	return data, nil
}

// CallMsg 构造调用消息
func (b *Binding) CallMsg(from common.Address, method string, args ...interface{}) (ethereum.CallMsg, error) {
	data, err := b.Pack(method, args...)
	if err != nil {
		return ethereum.CallMsg{}, err
	}
	to := b.Address
	return ethereum.CallMsg{From: from, To: &to, Data: data}, nil
}

// Call 执行只读调用并解码返回值
func (b *Binding) Call(ctx context.Context, caller Caller, method string, args ...interface{}) ([]interface{}, error) {
	msg, err := b.CallMsg(common.Address{}, method, args...)
	if err != nil {
		return nil, err
	}
	out, err := caller.Call(ctx, msg)
	if err != nil {
		return nil, err
	}
	values, err := b.ABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("%w: unpack %s.%s: %w", types.ErrLedger, b.Name, method, err)
	}
	return values, nil
}

// CallOne 执行只读调用并返回第一个返回值
//
// 典型用法：CallOne[*big.Int](ctx, binding, client, MethodTotalSupply)
func CallOne[T any](ctx context.Context, b *Binding, caller Caller, method string, args ...interface{}) (T, error) {
	var zero T
	values, err := b.Call(ctx, caller, method, args...)
	if err != nil {
		return zero, err
	}
	if len(values) == 0 {
		return zero, fmt.Errorf("%w: %s.%s returned no values", types.ErrLedger, b.Name, method)
	}
	value, ok := values[0].(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s.%s returned %T, want %T", types.ErrLedger, b.Name, method, values[0], zero)
	}
	return value, nil
}
