package orchestrator

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/weisyn/mintgate/internal/core/contract"
	"github.com/weisyn/mintgate/pkg/types"
)

// Deploy 部署 Avatar 合约
//
// 📋 **两种形态**：
//   - 不可变：一笔创建交易，构造参数 (name, symbol, baseTokenURI, maxSupply, operators)
//   - 可升级：未配置管理员时先创建 ProxyAdmin（owner 为部署者），再创建逻辑合约，
//     等待上链后创建透明代理；代理构造数据为初始化函数调用，admin 为 ProxyAdmin
//     或配置的管理员地址，且不能是部署者本身；结果地址为代理地址
//
// 最终价格 = max(base, base*c/100)，c 取请求值，否则取配置值。
func (o *Orchestrator) Deploy(ctx context.Context, req types.DeployRequest) types.Outcome[*types.DeployResult] {
	result, err := o.deployContract(ctx, req)
	return finish(ctx, o, OpDeploy, result, "Deploy tx committed", err)
}

func (o *Orchestrator) deployContract(ctx context.Context, req types.DeployRequest) (*types.DeployResult, error) {
	if req.Name == "" || req.Symbol == "" {
		return nil, fmt.Errorf("%w: name and symbol are required", types.ErrInvalidArgument)
	}
	maxSupply := req.MaxSupply
	if maxSupply == nil || maxSupply.Sign() <= 0 {
		return nil, fmt.Errorf("%w: maxSupply must be positive", types.ErrInvalidArgument)
	}

	key, err := o.ownerKey(req.PrivateKey)
	if err != nil {
		return nil, err
	}
	price, err := o.quote(ctx, OpDeploy, req.GasPriceC)
	if err != nil {
		return nil, err
	}

	from := crypto.PubkeyToAddress(key.PublicKey)
	nonce, err := o.ledger.PendingNonce(ctx, from)
	if err != nil {
		return nil, err
	}
	operators := o.selector.Operators()

	result := &types.DeployResult{
		Name:         req.Name,
		Symbol:       req.Symbol,
		BaseTokenURI: req.BaseTokenURI,
	}

	var last *gethtypes.Transaction
	if req.Upgradeable {
		deployed, err := o.deployUpgradeable(ctx, key, price, nonce, req, operators)
		if err != nil {
			return nil, err
		}
		result.Implementation = deployed.impl.Hex()
		result.ProxyAdmin = deployed.admin.Hex()
		result.Address = deployed.proxy.Hex()
		last = deployed.tx
	} else {
		artifact, err := o.artifacts.Get(contract.NameImmutable)
		if err != nil {
			return nil, err
		}
		data, err := artifact.DeployData(req.Name, req.Symbol, req.BaseTokenURI, maxSupply, operators)
		if err != nil {
			return nil, err
		}
		tx, err := o.submit(ctx, txCall{operation: OpDeploy, key: key, data: data, price: price, nonce: &nonce})
		if err != nil {
			return nil, err
		}
		result.Address = crypto.CreateAddress(from, nonce).Hex()
		last = tx
	}
	result.TxHash = last.Hash().Hex()

	if req.Wait {
		r, err := o.waitMined(ctx, last.Hash(), o.deploy.PollingInterval)
		if err != nil {
			return nil, err
		}
		result.Deployed = r.Status == gethtypes.ReceiptStatusSuccessful
		if !result.Deployed {
			return nil, fmt.Errorf("%w: deploy tx %s reverted", types.ErrLedger, result.TxHash)
		}
	}

	o.log(ctx).Infof("Deploy %s(%s) at %s, upgradeable=%t, TxHash=%s",
		req.Name, req.Symbol, result.Address, req.Upgradeable, result.TxHash)
	return result, nil
}

// upgradeableDeployment 可升级部署产生的地址与代理交易
type upgradeableDeployment struct {
	admin common.Address
	impl  common.Address
	proxy common.Address
	tx    *gethtypes.Transaction
}

// deployUpgradeable 依次创建 ProxyAdmin（按需）、逻辑合约与透明代理
//
// 透明代理不会把管理员的调用转发给逻辑合约，因此 admin 必须与合约 owner 不同，
// 否则 owner 将无法调用 mintTo / setMaxSupply 等方法。
func (o *Orchestrator) deployUpgradeable(ctx context.Context, key *ecdsa.PrivateKey, price *big.Int, nonce uint64, req types.DeployRequest, operators []common.Address) (*upgradeableDeployment, error) {
	from := crypto.PubkeyToAddress(key.PublicKey)
	out := &upgradeableDeployment{admin: o.deploy.ProxyAdmin}

	if out.admin == from {
		return nil, fmt.Errorf("%w: proxy admin %s must differ from contract owner", types.ErrConfiguration, from.Hex())
	}

	// 所有产物先加载，避免部分交易已发出后才发现缺失
	logic, err := o.artifacts.Get(contract.NameUpgradeable)
	if err != nil {
		return nil, err
	}
	proxy, err := o.artifacts.Get(contract.NameProxy)
	if err != nil {
		return nil, err
	}
	var adminArtifact *contract.Artifact
	if out.admin == (common.Address{}) {
		if adminArtifact, err = o.artifacts.Get(contract.NameProxyAdmin); err != nil {
			return nil, err
		}
	}

	next := nonce
	if adminArtifact != nil {
		adminData, err := adminArtifact.DeployData()
		if err != nil {
			return nil, err
		}
		adminNonce := next
		if _, err := o.submit(ctx, txCall{operation: OpDeploy, key: key, data: adminData, price: price, nonce: &adminNonce}); err != nil {
			return nil, err
		}
		out.admin = crypto.CreateAddress(from, adminNonce)
		next++
	}

	logicData, err := logic.DeployData()
	if err != nil {
		return nil, err
	}
	logicNonce := next
	logicTx, err := o.submit(ctx, txCall{operation: OpDeploy, key: key, data: logicData, price: price, nonce: &logicNonce})
	if err != nil {
		return nil, err
	}
	out.impl = crypto.CreateAddress(from, logicNonce)
	next++

	// 代理构造时委托调用初始化函数，逻辑合约必须先上链才能估算
	r, err := o.waitMined(ctx, logicTx.Hash(), o.deploy.PollingInterval)
	if err != nil {
		return nil, err
	}
	if r.Status != gethtypes.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: implementation tx %s reverted", types.ErrLedger, logicTx.Hash().Hex())
	}

	initData, err := contract.AvatarUpgradeableABI.Pack(o.deploy.Initializer,
		req.Name, req.Symbol, req.BaseTokenURI, req.MaxSupply, operators)
	if err != nil {
		return nil, fmt.Errorf("%w: pack %s: %w", types.ErrInvalidArgument, o.deploy.Initializer, err)
	}
	proxyData, err := proxy.DeployData(out.impl, out.admin, initData)
	if err != nil {
		return nil, err
	}
	proxyNonce := next
	out.tx, err = o.submit(ctx, txCall{operation: OpDeploy, key: key, data: proxyData, price: price, nonce: &proxyNonce})
	if err != nil {
		return nil, err
	}
	out.proxy = crypto.CreateAddress(from, proxyNonce)
	return out, nil
}
