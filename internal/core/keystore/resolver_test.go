package keystore

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	keystoreconfig "github.com/weisyn/mintgate/internal/config/keystore"
	"github.com/weisyn/mintgate/pkg/types"
)

// newTestResolver 在临时目录中导入一把密钥
func newTestResolver(t *testing.T, passphrase string) (*FileResolver, common.Address) {
	t.Helper()
	dir := t.TempDir()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	ks := keystore.NewKeyStore(dir, keystore.LightScryptN, keystore.LightScryptP)
	account, err := ks.ImportECDSA(key, passphrase)
	require.NoError(t, err)

	resolver := NewFileResolver(&keystoreconfig.KeystoreOptions{
		Dir:           dir,
		PassphraseEnv: "MINTGATE_TEST_DEFAULT_PASS",
	}, nil)
	return resolver, account.Address
}

func TestResolveSigningKey_KeyRefEnv(t *testing.T) {
	resolver, addr := newTestResolver(t, "s3cret")
	t.Setenv("MINTER_A_PASS", "s3cret")

	key, err := resolver.ResolveSigningKey(types.SigningIdentity{
		Address: addr, KeyRef: "MINTER_A_PASS", Role: types.RoleMinter,
	})
	require.NoError(t, err)
	assert.Equal(t, addr, crypto.PubkeyToAddress(key.PublicKey))

	// 第二次命中进程内缓存
	again, err := resolver.ResolveSigningKey(types.SigningIdentity{Address: addr, KeyRef: "MINTER_A_PASS"})
	require.NoError(t, err)
	assert.Same(t, key, again)
}

func TestResolveSigningKey_DefaultEnvFallback(t *testing.T) {
	resolver, addr := newTestResolver(t, "fallback")
	t.Setenv("MINTGATE_TEST_DEFAULT_PASS", "fallback")

	key, err := resolver.ResolveSigningKey(types.SigningIdentity{Address: addr, KeyRef: "UNSET_VARIABLE_FOR_TEST"})
	require.NoError(t, err)
	assert.Equal(t, addr, crypto.PubkeyToAddress(key.PublicKey))
}

func TestResolveSigningKey_WrongPassphrase(t *testing.T) {
	resolver, addr := newTestResolver(t, "right")
	t.Setenv("WRONG_PASS", "wrong")

	_, err := resolver.ResolveSigningKey(types.SigningIdentity{Address: addr, KeyRef: "WRONG_PASS"})
	assert.ErrorIs(t, err, types.ErrKeyNotFound)
}

func TestResolveSigningKey_UnknownAddress(t *testing.T) {
	resolver, _ := newTestResolver(t, "x")
	_, err := resolver.ResolveSigningKey(types.SigningIdentity{
		Address: common.HexToAddress("0x00000000000000000000000000000000000000ff"),
	})
	assert.ErrorIs(t, err, types.ErrKeyNotFound)
}

func TestParsePrivateKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := common.Bytes2Hex(crypto.FromECDSA(key))

	parsed, err := ParsePrivateKey("0x" + hexKey)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), crypto.PubkeyToAddress(parsed.PublicKey))

	parsed, err = ParsePrivateKey(hexKey)
	require.NoError(t, err)
	assert.NotNil(t, parsed)

	_, err = ParsePrivateKey("zz")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}
