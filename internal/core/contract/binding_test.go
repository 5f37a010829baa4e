package contract

import (
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deployconfig "github.com/weisyn/mintgate/internal/config/deploy"
	"github.com/weisyn/mintgate/pkg/types"
)

// fakeCaller 按方法返回预设的编码结果
type fakeCaller struct {
	abi     abi.ABI
	results map[string][]interface{}
	calls   int
}

func (f *fakeCaller) Call(_ context.Context, msg ethereum.CallMsg) ([]byte, error) {
	f.calls++
	method, err := f.abi.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	values, ok := f.results[method.Name]
	if !ok {
		return nil, errors.New("execution reverted")
	}
	return method.Outputs.Pack(values...)
}

func TestTransferEventTopic(t *testing.T) {
	assert.Equal(t,
		common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"),
		TransferEventTopic)
	assert.Equal(t, TransferEventTopic, AvatarABI.Events["Transfer"].ID)
}

func TestForContract_SelectsBinding(t *testing.T) {
	addr := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	immutable := ForContract(addr, false)
	assert.Equal(t, NameImmutable, immutable.Name)
	_, hasCtor := immutable.ABI.Methods["__Avatar_init"]
	assert.False(t, hasCtor)

	upgradeable := ForContract(addr, true)
	assert.Equal(t, NameUpgradeable, upgradeable.Name)
	_, hasInit := upgradeable.ABI.Methods["__Avatar_init"]
	assert.True(t, hasInit)
	assert.Equal(t, addr, upgradeable.Address)
}

func TestCallOne(t *testing.T) {
	caller := &fakeCaller{
		abi: AvatarABI,
		results: map[string][]interface{}{
			MethodTotalSupply:       {big.NewInt(42)},
			MethodContentHashExists: {true},
			MethodGetAllContentHash: {[]string{"a", "b"}},
		},
	}
	binding := ForContract(common.HexToAddress("0x01"), false)
	ctx := context.Background()

	supply, err := CallOne[*big.Int](ctx, binding, caller, MethodTotalSupply)
	require.NoError(t, err)
	assert.Equal(t, int64(42), supply.Int64())

	exists, err := CallOne[bool](ctx, binding, caller, MethodContentHashExists, "a")
	require.NoError(t, err)
	assert.True(t, exists)

	all, err := CallOne[[]string](ctx, binding, caller, MethodGetAllContentHash)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, all)

	// 类型不匹配
	_, err = CallOne[string](ctx, binding, caller, MethodTotalSupply)
	assert.ErrorIs(t, err, types.ErrLedger)
}

func TestPack_InvalidArguments(t *testing.T) {
	binding := ForContract(common.HexToAddress("0x01"), false)
	_, err := binding.Pack(MethodMintTo, "not-an-address", big.NewInt(1))
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = binding.Pack("noSuchMethod")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

type revertError struct {
	data string
}

func (e *revertError) Error() string          { return "execution reverted" }
func (e *revertError) ErrorData() interface{} { return e.data }

func TestRevertReason(t *testing.T) {
	stringType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: stringType}}.Pack("reach the max supply")
	require.NoError(t, err)
	data := append([]byte{0x08, 0xc3, 0x79, 0xa0}, packed...)

	wrapped := errors.Join(types.ErrLedger, &revertError{data: "0x" + common.Bytes2Hex(data)})
	assert.Equal(t, "reach the max supply", RevertReason(wrapped))

	plain := errors.New("insufficient funds")
	assert.Equal(t, "insufficient funds", RevertReason(plain))
	assert.Equal(t, "", RevertReason(nil))
}

func TestArtifactStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Avatar.json")
	artifactJSON := `{"contractName":"Avatar","abi":` + avatarABIJSON + `,"bytecode":"0x6080604052"}`
	require.NoError(t, os.WriteFile(path, []byte(artifactJSON), 0o600))

	store := NewArtifactStore(&deployconfig.DeployOptions{ImmutableArtifact: path})
	artifact, err := store.Get(NameImmutable)
	require.NoError(t, err)
	assert.Equal(t, "Avatar", artifact.Name)

	data, err := artifact.DeployData("n", "s", "uri", big.NewInt(10), []common.Address{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0x52}, data[:5])
	assert.Greater(t, len(data), 5)

	// 再次获取走内存
	require.NoError(t, os.Remove(path))
	again, err := store.Get(NameImmutable)
	require.NoError(t, err)
	assert.Same(t, artifact, again)

	_, err = store.Get(NameUpgradeable)
	assert.ErrorIs(t, err, types.ErrConfiguration)
	_, err = store.Get("Unknown")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}
