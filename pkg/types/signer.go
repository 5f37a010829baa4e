package types

import "github.com/ethereum/go-ethereum/common"

// KeyRole 密钥角色
type KeyRole string

const (
	// RoleMinter 铸造者
	RoleMinter KeyRole = "minter"
	// RoleContractOwner 合约所有者
	RoleContractOwner KeyRole = "owner"
	// RoleVault 金库
	RoleVault KeyRole = "vault"
)

// SigningIdentity 签名身份
//
// 由配置持有，进程生命周期内不可变；核心只读取。
type SigningIdentity struct {
	Address common.Address
	// KeyRef 密钥库口令引用（环境变量名）
	KeyRef string
	Role   KeyRole
}
