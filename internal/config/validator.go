package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	cacheconfig "github.com/weisyn/mintgate/internal/config/cache"
	"github.com/weisyn/mintgate/pkg/types"
)

// ValidationError 配置验证错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("配置验证失败 [%s]: %s", e.Field, e.Message)
}

// ValidateMandatoryConfig 验证必填配置项
//
// 🎯 **配置验证职责**：在启动时 fail-fast，避免服务带着无效策略接受请求
//
// 📋 **必填配置项**：
// - ledger.rpc_url: 账本 JSON-RPC 端点
// - tx.gas_price_threshold_gwei: 熔断阈值（十进制 gwei）
// - mint.minters: 至少一个铸造身份
//
// 📋 **取值约束**：
// - tx.gas_limit_c >= 100
// - tx.confirmations >= 1
// - 所有身份地址必须是合法的十六进制地址
// - cache.inflight.backend 只能是 memory 或 redis
func ValidateMandatoryConfig(appConfig *types.AppConfig) error {
	var errors []error

	if appConfig == nil {
		return &ValidationErrors{Errors: []error{&ValidationError{
			Field:   "config",
			Message: "配置不能为空",
		}}}
	}

	// 1. 账本端点
	if appConfig.Ledger == nil || appConfig.Ledger.RPCURL == nil || strings.TrimSpace(*appConfig.Ledger.RPCURL) == "" {
		errors = append(errors, &ValidationError{
			Field:   "ledger.rpc_url",
			Message: "账本RPC端点不能为空",
		})
	} else if u, err := url.Parse(*appConfig.Ledger.RPCURL); err != nil || u.Scheme == "" {
		errors = append(errors, &ValidationError{
			Field:   "ledger.rpc_url",
			Message: fmt.Sprintf("账本RPC端点格式无效: %q", *appConfig.Ledger.RPCURL),
		})
	}

	// 2. 交易参数
	if appConfig.Tx == nil || appConfig.Tx.GasPriceThresholdGwei == nil || strings.TrimSpace(*appConfig.Tx.GasPriceThresholdGwei) == "" {
		errors = append(errors, &ValidationError{
			Field:   "tx.gas_price_threshold_gwei",
			Message: "熔断阈值不能为空，必须显式配置（例如 \"100\"）",
		})
	} else if d, err := decimal.NewFromString(*appConfig.Tx.GasPriceThresholdGwei); err != nil || d.IsNegative() {
		errors = append(errors, &ValidationError{
			Field:   "tx.gas_price_threshold_gwei",
			Message: fmt.Sprintf("熔断阈值必须是非负十进制数: %q", *appConfig.Tx.GasPriceThresholdGwei),
		})
	}
	if appConfig.Tx != nil {
		if appConfig.Tx.GasLimitC != nil && *appConfig.Tx.GasLimitC < 100 {
			errors = append(errors, &ValidationError{
				Field:   "tx.gas_limit_c",
				Message: "gas_limit_c 必须 >= 100",
			})
		}
		if appConfig.Tx.Confirmations != nil && *appConfig.Tx.Confirmations < 1 {
			errors = append(errors, &ValidationError{
				Field:   "tx.confirmations",
				Message: "confirmations 必须 >= 1",
			})
		}
	}

	// 3. 签名身份
	if appConfig.Mint == nil || len(appConfig.Mint.Minters) == 0 {
		errors = append(errors, &ValidationError{
			Field:   "mint.minters",
			Message: "铸造身份不能为空，必须配置至少一个 minter",
		})
	}
	if appConfig.Mint != nil {
		errors = append(errors, validateKeyEntries("mint.minters", appConfig.Mint.Minters)...)
		errors = append(errors, validateKeyEntries("mint.vaults", appConfig.Mint.Vaults)...)
		if appConfig.Mint.ContractOwner != nil {
			errors = append(errors, validateKeyEntries("mint.contract_owner", []types.UserKeyEntry{*appConfig.Mint.ContractOwner})...)
		}
		errors = append(errors, validateKeyEntries("mint.contract_owners", appConfig.Mint.ContractOwners)...)
		for i, op := range appConfig.Mint.Operators {
			if !common.IsHexAddress(op) {
				errors = append(errors, &ValidationError{
					Field:   fmt.Sprintf("mint.operators[%d]", i),
					Message: fmt.Sprintf("地址格式无效: %q", op),
				})
			}
		}
	}

	// 4. 在途锁后端
	if appConfig.Cache != nil && appConfig.Cache.Inflight != nil && appConfig.Cache.Inflight.Backend != nil {
		switch *appConfig.Cache.Inflight.Backend {
		case cacheconfig.InflightBackendMemory, cacheconfig.InflightBackendRedis:
		default:
			errors = append(errors, &ValidationError{
				Field:   "cache.inflight.backend",
				Message: fmt.Sprintf("不支持的在途锁后端: %q（可选 memory、redis）", *appConfig.Cache.Inflight.Backend),
			})
		}
	}

	if len(errors) > 0 {
		return &ValidationErrors{Errors: errors}
	}

	return nil
}

// validateKeyEntries 校验身份条目地址
func validateKeyEntries(field string, entries []types.UserKeyEntry) []error {
	var errors []error
	for i, entry := range entries {
		if !common.IsHexAddress(entry.Address) {
			errors = append(errors, &ValidationError{
				Field:   fmt.Sprintf("%s[%d].address", field, i),
				Message: fmt.Sprintf("地址格式无效: %q", entry.Address),
			})
		}
	}
	return errors
}

// ValidationErrors 多个验证错误
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	msg := "配置验证失败，发现以下问题：\n"
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap 支持 errors.Is / errors.As 遍历
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}
