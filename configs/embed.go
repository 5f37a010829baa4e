// Package configs 内嵌各环境的示例配置
package configs

import _ "embed"

//go:embed development/config.json
var developmentConfig []byte

//go:embed production/config.json
var productionConfig []byte

// GetDevelopmentConfig 获取开发环境配置
func GetDevelopmentConfig() []byte {
	return developmentConfig
}

// GetProductionConfig 获取生产环境配置
func GetProductionConfig() []byte {
	return productionConfig
}

// ByEnvironment 按环境名返回配置；未知环境返回 nil
func ByEnvironment(env string) []byte {
	switch env {
	case "dev", "development":
		return developmentConfig
	case "prod", "production":
		return productionConfig
	default:
		return nil
	}
}
