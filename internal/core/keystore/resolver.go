// Package keystore 解析签名密钥
//
// 密钥以 V3 keystore JSON 文件形式保存在 keystore.dir 中，
// 口令从环境变量读取：优先使用身份的 KeyRef 指定的变量，否则使用 keystore.passphrase_env。
// 解密结果在进程内按地址缓存，避免每个请求重复执行 scrypt。
package keystore

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	keystoreconfig "github.com/weisyn/mintgate/internal/config/keystore"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/mintgate/pkg/types"
)

// Resolver 签名密钥解析接口
type Resolver interface {
	// ResolveSigningKey 解析签名身份对应的私钥，找不到时返回 types.ErrKeyNotFound
	ResolveSigningKey(identity types.SigningIdentity) (*ecdsa.PrivateKey, error)
}

// FileResolver 基于 keystore 目录的实现
type FileResolver struct {
	ks            *keystore.KeyStore
	passphraseEnv string
	logger        log.Logger

	mu   sync.Mutex
	keys map[common.Address]*ecdsa.PrivateKey
}

// Open 打开 keystore 目录
func Open(dir string) *keystore.KeyStore {
	return keystore.NewKeyStore(dir, keystore.StandardScryptN, keystore.StandardScryptP)
}

// NewFileResolver 创建解析器
func NewFileResolver(options *keystoreconfig.KeystoreOptions, logger log.Logger) *FileResolver {
	return &FileResolver{
		ks:            Open(options.Dir),
		passphraseEnv: options.PassphraseEnv,
		logger:        logger,
		keys:          make(map[common.Address]*ecdsa.PrivateKey),
	}
}

// ResolveSigningKey 解析签名密钥
func (r *FileResolver) ResolveSigningKey(identity types.SigningIdentity) (*ecdsa.PrivateKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if key, ok := r.keys[identity.Address]; ok {
		return key, nil
	}

	account, err := r.ks.Find(accounts.Account{Address: identity.Address})
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%s)", types.ErrKeyNotFound, identity.Address.Hex(), identity.Role)
	}

	keyJSON, err := os.ReadFile(account.URL.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", types.ErrKeyNotFound, account.URL.Path, err)
	}

	key, err := keystore.DecryptKey(keyJSON, r.passphrase(identity.KeyRef))
	if err != nil {
		return nil, fmt.Errorf("%w: decrypt %s: %v", types.ErrKeyNotFound, identity.Address.Hex(), err)
	}

	if r.logger != nil {
		r.logger.Infof("签名密钥已加载: role=%s address=%s", identity.Role, identity.Address.Hex())
	}
	r.keys[identity.Address] = key.PrivateKey
	return key.PrivateKey, nil
}

// passphrase 读取口令环境变量
func (r *FileResolver) passphrase(keyRef string) string {
	if keyRef != "" {
		if v, ok := os.LookupEnv(keyRef); ok {
			return v
		}
	}
	return os.Getenv(r.passphraseEnv)
}

// ParsePrivateKey 解析请求中携带的十六进制私钥
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: private key: %v", types.ErrInvalidArgument, err)
	}
	return key, nil
}

var _ Resolver = (*FileResolver)(nil)
