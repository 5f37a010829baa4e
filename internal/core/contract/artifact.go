package contract

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"

	deployconfig "github.com/weisyn/mintgate/internal/config/deploy"
	"github.com/weisyn/mintgate/pkg/types"
)

// hardhatArtifact hardhat 编译产物的 JSON 结构（只取需要的字段）
type hardhatArtifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// Artifact 可部署的合约产物
type Artifact struct {
	Name     string
	ABI      abi.ABI
	Bytecode []byte
}

// ParseArtifact 解析 hardhat 产物
func ParseArtifact(data []byte) (*Artifact, error) {
	var raw hardhatArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode artifact: %w", types.ErrConfiguration, err)
	}
	parsed, err := abi.JSON(strings.NewReader(string(raw.ABI)))
	if err != nil {
		return nil, fmt.Errorf("%w: artifact %s abi: %w", types.ErrConfiguration, raw.ContractName, err)
	}
	bytecode, err := hexutil.Decode(raw.Bytecode)
	if err != nil || len(bytecode) == 0 {
		return nil, fmt.Errorf("%w: artifact %s has no bytecode", types.ErrConfiguration, raw.ContractName)
	}
	return &Artifact{Name: raw.ContractName, ABI: parsed, Bytecode: bytecode}, nil
}

// LoadArtifact 从文件加载 hardhat 产物
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read artifact %s: %w", types.ErrConfiguration, path, err)
	}
	return ParseArtifact(data)
}

// DeployData 合约创建交易的数据：bytecode ++ abi.encode(constructor args)
func (a *Artifact) DeployData(args ...interface{}) ([]byte, error) {
	packed, err := a.ABI.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("%w: pack %s constructor: %w", types.ErrInvalidArgument, a.Name, err)
	}
	data := make([]byte, 0, len(a.Bytecode)+len(packed))
	data = append(data, a.Bytecode...)
	return append(data, packed...), nil
}

// ArtifactStore 按配置路径懒加载部署产物
//
// 产物只在首次部署时读取，加载成功后常驻内存。
type ArtifactStore struct {
	options *deployconfig.DeployOptions

	mu     sync.Mutex
	loaded map[string]*Artifact
	loader func(path string) (*Artifact, error)
}

// NewArtifactStore 创建产物存储
func NewArtifactStore(options *deployconfig.DeployOptions) *ArtifactStore {
	return &ArtifactStore{
		options: options,
		loaded:  make(map[string]*Artifact),
		loader:  LoadArtifact,
	}
}

// Register 直接登记产物（测试或内置产物）
func (s *ArtifactStore) Register(name string, artifact *Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded[name] = artifact
}

// Get 获取指定合约的产物
func (s *ArtifactStore) Get(name string) (*Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if artifact, ok := s.loaded[name]; ok {
		return artifact, nil
	}

	var path string
	switch name {
	case NameImmutable:
		path = s.options.ImmutableArtifact
	case NameUpgradeable:
		path = s.options.UpgradeableArtifact
	case NameProxy:
		path = s.options.ProxyArtifact
	case NameProxyAdmin:
		path = s.options.ProxyAdminArtifact
	default:
		return nil, fmt.Errorf("%w: unknown contract %q", types.ErrInvalidArgument, name)
	}

	artifact, err := s.loader(path)
	if err != nil {
		return nil, err
	}
	s.loaded[name] = artifact
	return artifact, nil
}
