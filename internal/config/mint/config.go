package mint

import (
	"github.com/weisyn/mintgate/pkg/types"
)

// MintOptions 铸造与签名身份配置选项
type MintOptions struct {
	RandomMinter   bool                 `json:"random_minter"`
	Minters        []types.UserKeyEntry `json:"minters"`
	ContractOwners []types.UserKeyEntry `json:"contract_owners"`
	Vaults         []types.UserKeyEntry `json:"vaults"`
	Operators      []string             `json:"operators"`

	MaxSupplyReason string `json:"max_supply_reason"`
	StrictReceipt   bool   `json:"strict_receipt"`

	// ResponseCodes 结果码到对外数字码的映射
	ResponseCodes map[types.ResultCode]int `json:"api_response_code"`
}

// Config 铸造配置实现
type Config struct {
	options *MintOptions
}

// New 创建铸造配置
func New(user *types.UserMintConfig) *Config {
	options := &MintOptions{
		RandomMinter:    defaultRandomMinter,
		MaxSupplyReason: defaultMaxSupplyReason,
		StrictReceipt:   defaultStrictReceipt,
		ResponseCodes: map[types.ResultCode]int{
			types.CodeOK:        defaultCodeOK,
			types.CodeDuplicate: defaultCodeDuplicate,
			types.CodeThreshold: defaultCodeThreshold,
			types.CodeNotFound:  defaultCodeNotFound,
			types.CodeError:     defaultCodeError,
			types.CodeMaxSupply: defaultCodeMaxSupply,
		},
	}

	if user != nil {
		if user.RandomMinter != nil {
			options.RandomMinter = *user.RandomMinter
		}
		options.Minters = append(options.Minters, user.Minters...)
		if user.ContractOwner != nil {
			options.ContractOwners = append(options.ContractOwners, *user.ContractOwner)
		}
		options.ContractOwners = append(options.ContractOwners, user.ContractOwners...)
		options.Vaults = append(options.Vaults, user.Vaults...)
		options.Operators = append(options.Operators, user.Operators...)
		if user.MaxSupplyReason != nil {
			options.MaxSupplyReason = *user.MaxSupplyReason
		}
		if user.StrictReceipt != nil {
			options.StrictReceipt = *user.StrictReceipt
		}
		applyResponseCodes(options.ResponseCodes, user.APIResponseCode)
	}

	return &Config{options: options}
}

// applyResponseCodes 覆盖对外数字码
func applyResponseCodes(codes map[types.ResultCode]int, user *types.UserResponseCodeConfig) {
	if user == nil {
		return
	}
	set := func(code types.ResultCode, v *int) {
		if v != nil {
			codes[code] = *v
		}
	}
	set(types.CodeOK, user.OK)
	set(types.CodeDuplicate, user.Duplicate)
	set(types.CodeThreshold, user.Threshold)
	set(types.CodeNotFound, user.NotFound)
	set(types.CodeError, user.Error)
	set(types.CodeMaxSupply, user.MaxSupply)
}

// GetOptions 获取配置选项
func (c *Config) GetOptions() *MintOptions {
	return c.options
}

// ResponseCode 获取结果码对应的数字码
func (c *Config) ResponseCode(code types.ResultCode) int {
	if v, ok := c.options.ResponseCodes[code]; ok {
		return v
	}
	return c.options.ResponseCodes[types.CodeError]
}
