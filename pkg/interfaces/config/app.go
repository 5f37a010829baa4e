// Package config provides application configuration interfaces.
package config

import "github.com/weisyn/mintgate/pkg/types"

// AppOptions 应用配置选项接口
// 提供获取应用配置的统一接口
type AppOptions interface {
	// GetAppConfig 获取应用配置
	GetAppConfig() *types.AppConfig

	// GetConfigFilePath 配置文件路径；配置不是来自文件时为空
	GetConfigFilePath() string
}
