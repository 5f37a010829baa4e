// Package signer 从配置的身份池中选择签名身份
//
// 三个身份池（铸造者、合约所有者、金库）在启动时由配置构建，进程生命周期内不可变。
// 地址匹配先统一为校验和格式，再逐个比较。
package signer

import (
	"fmt"
	"math/rand/v2"

	"github.com/ethereum/go-ethereum/common"

	mintconfig "github.com/weisyn/mintgate/internal/config/mint"
	"github.com/weisyn/mintgate/pkg/types"
)

// Selector 签名身份选择器
type Selector struct {
	minters   []types.SigningIdentity
	owners    []types.SigningIdentity
	vaults    []types.SigningIdentity
	operators []common.Address
	random    bool
}

// NewSelector 由铸造配置构建选择器
func NewSelector(config *mintconfig.Config) *Selector {
	options := config.GetOptions()
	s := &Selector{
		minters: toIdentities(options.Minters, types.RoleMinter),
		owners:  toIdentities(options.ContractOwners, types.RoleContractOwner),
		vaults:  toIdentities(options.Vaults, types.RoleVault),
		random:  options.RandomMinter,
	}
	for _, op := range options.Operators {
		s.operators = append(s.operators, common.HexToAddress(op))
	}
	return s
}

func toIdentities(entries []types.UserKeyEntry, role types.KeyRole) []types.SigningIdentity {
	identities := make([]types.SigningIdentity, 0, len(entries))
	for _, e := range entries {
		identities = append(identities, types.SigningIdentity{
			Address: common.HexToAddress(e.Address),
			KeyRef:  e.KeyRef,
			Role:    role,
		})
	}
	return identities
}

// RandomMinter 配置的默认选择方式
func (s *Selector) RandomMinter() bool {
	return s.random
}

// SelectMinter 选择铸造者
//
// random=false 时总是返回第一个；random=true 时均匀随机。
func (s *Selector) SelectMinter(random bool) (types.SigningIdentity, error) {
	if len(s.minters) == 0 {
		return types.SigningIdentity{}, fmt.Errorf("%w: %w: minters", types.ErrConfiguration, types.ErrEmptyPool)
	}
	if !random {
		return s.minters[0], nil
	}
	return s.minters[rand.IntN(len(s.minters))], nil
}

// SelectContractOwner 按地址查找合约所有者身份
func (s *Selector) SelectContractOwner(address common.Address) (types.SigningIdentity, error) {
	return match(s.owners, address, "contract owner")
}

// DefaultContractOwner 返回池中第一个合约所有者（部署默认身份）
func (s *Selector) DefaultContractOwner() (types.SigningIdentity, error) {
	if len(s.owners) == 0 {
		return types.SigningIdentity{}, fmt.Errorf("%w: contract owner not configured", types.ErrNotFound)
	}
	return s.owners[0], nil
}

// SelectVault 按地址查找金库身份
func (s *Selector) SelectVault(address common.Address) (types.SigningIdentity, error) {
	identity, err := match(s.vaults, address, "vault")
	if err != nil {
		return identity, err
	}
	if identity.KeyRef == "" {
		return types.SigningIdentity{}, fmt.Errorf("%w: vault %s", types.ErrInvalidKeyRef, address.Hex())
	}
	return identity, nil
}

// Operators 部署时授权的操作员地址
func (s *Selector) Operators() []common.Address {
	out := make([]common.Address, len(s.operators))
	copy(out, s.operators)
	return out
}

func match(pool []types.SigningIdentity, address common.Address, kind string) (types.SigningIdentity, error) {
	want := address.Hex()
	for _, identity := range pool {
		if identity.Address.Hex() == want {
			return identity, nil
		}
	}
	return types.SigningIdentity{}, fmt.Errorf("%w: %s %s", types.ErrNotFound, kind, want)
}
