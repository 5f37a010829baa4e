package keystore

import "github.com/weisyn/mintgate/pkg/types"

const (
	// defaultDir 默认 keystore 目录
	defaultDir = "./data/keystore"
	// defaultPassphraseEnv 未指定 key_ref 时使用的口令环境变量
	defaultPassphraseEnv = "MINTGATE_KEYSTORE_PASSPHRASE"
)

// KeystoreOptions 密钥库配置选项
type KeystoreOptions struct {
	Dir           string `json:"dir"`
	PassphraseEnv string `json:"passphrase_env"`
}

// Config 密钥库配置实现
type Config struct {
	options *KeystoreOptions
}

// New 创建密钥库配置
func New(user *types.UserKeystoreConfig) *Config {
	options := &KeystoreOptions{
		Dir:           defaultDir,
		PassphraseEnv: defaultPassphraseEnv,
	}
	if user != nil {
		if user.Dir != nil {
			options.Dir = *user.Dir
		}
		if user.PassphraseEnv != nil {
			options.PassphraseEnv = *user.PassphraseEnv
		}
	}
	return &Config{options: options}
}

// GetOptions 获取配置选项
func (c *Config) GetOptions() *KeystoreOptions {
	return c.options
}
