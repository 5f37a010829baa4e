package ledgertest

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/weisyn/mintgate/internal/core/contract"
)

// revertError 带 Error(string) 编码数据的 revert 错误
type revertError struct {
	reason string
}

func (e *revertError) Error() string { return "execution reverted: " + e.reason }

func (e *revertError) ErrorData() interface{} {
	stringType, _ := abi.NewType("string", "", nil)
	packed, _ := abi.Arguments{{Type: stringType}}.Pack(e.reason)
	selector := []byte{0x08, 0xc3, 0x79, 0xa0}
	return hexutil.Encode(append(selector, packed...))
}

// Revert 构造带原因的 revert 错误
func Revert(reason string) error {
	return &revertError{reason: reason}
}

// AvatarSim Avatar 合约的内存模拟
type AvatarSim struct {
	mu sync.Mutex

	Address         common.Address
	Name            string
	Symbol          string
	Owner           common.Address
	MaxSupply       *big.Int
	Finalization    bool
	BaseTokenURI    string
	MaxSupplyReason string

	nextID  int64
	owners  map[int64]common.Address
	hashes  map[int64]string
	byHash  map[string]int64
	ordered []string
}

// NewAvatarSim 创建合约模拟
func NewAvatarSim(address, owner common.Address) *AvatarSim {
	return &AvatarSim{
		Address:         address,
		Name:            "Avatar",
		Symbol:          "AVT",
		Owner:           owner,
		MaxSupply:       big.NewInt(1000),
		BaseTokenURI:    "ipfs://base/",
		MaxSupplyReason: "reach the max supply",
		nextID:          1,
		owners:          make(map[int64]common.Address),
		hashes:          make(map[int64]string),
		byHash:          make(map[string]int64),
	}
}

// Mint 直接铸造（测试预置数据），返回 tokenId
func (s *AvatarSim) Mint(to common.Address, contentHash string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mint(to, contentHash)
}

// Minted 已铸造数量
func (s *AvatarSim) Minted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.owners)
}

// TokenIDOf 查询内容指纹对应的 tokenId
func (s *AvatarSim) TokenIDOf(contentHash string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byHash[contentHash]
	return id, ok
}

func (s *AvatarSim) mint(to common.Address, contentHash string) int64 {
	id := s.nextID
	s.nextID++
	s.owners[id] = to
	if contentHash != "" {
		s.hashes[id] = contentHash
		s.byHash[contentHash] = id
		s.ordered = append(s.ordered, contentHash)
	}
	return id
}

func decode(data []byte) (*abi.Method, []interface{}, error) {
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("short calldata")
	}
	method, err := contract.AvatarABI.MethodById(data[:4])
	if err != nil {
		method, err = contract.AvatarUpgradeableABI.MethodById(data[:4])
		if err != nil {
			return nil, nil, err
		}
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, nil, err
	}
	return method, args, nil
}

// View 执行只读方法
func (s *AvatarSim) View(data []byte) ([]byte, error) {
	method, args, err := decode(data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var result []interface{}
	switch method.Name {
	case contract.MethodName:
		result = []interface{}{s.Name}
	case contract.MethodSymbol:
		result = []interface{}{s.Symbol}
	case contract.MethodTotalSupply:
		result = []interface{}{big.NewInt(int64(len(s.owners)))}
	case contract.MethodOwner:
		result = []interface{}{s.Owner}
	case contract.MethodMaxSupply:
		result = []interface{}{new(big.Int).Set(s.MaxSupply)}
	case contract.MethodFinalization:
		result = []interface{}{s.Finalization}
	case contract.MethodExists:
		_, ok := s.owners[args[0].(*big.Int).Int64()]
		result = []interface{}{ok}
	case contract.MethodTokenURI:
		id := args[0].(*big.Int).Int64()
		if _, ok := s.owners[id]; !ok {
			return nil, Revert("URI query for nonexistent token")
		}
		result = []interface{}{fmt.Sprintf("%s%d", s.BaseTokenURI, id)}
	case contract.MethodTokenContentHashes:
		result = []interface{}{s.hashes[args[0].(*big.Int).Int64()]}
	case contract.MethodOwnerOf:
		owner, ok := s.owners[args[0].(*big.Int).Int64()]
		if !ok {
			return nil, Revert("owner query for nonexistent token")
		}
		result = []interface{}{owner}
	case contract.MethodBalanceOf:
		owner := args[0].(common.Address)
		var n int64
		for _, o := range s.owners {
			if o == owner {
				n++
			}
		}
		result = []interface{}{big.NewInt(n)}
	case contract.MethodContentHashExists:
		_, ok := s.byHash[args[0].(string)]
		result = []interface{}{ok}
	case contract.MethodGetAllContentHash:
		all := make([]string, len(s.ordered))
		copy(all, s.ordered)
		result = []interface{}{all}
	case contract.MethodGetTokenIDByContentHash:
		result = []interface{}{big.NewInt(s.byHash[args[0].(string)])}
	default:
		return nil, fmt.Errorf("%s is not a view method", method.Name)
	}
	return method.Outputs.Pack(result...)
}

// Check 预执行（估算 gas 时调用），返回 revert 错误
func (s *AvatarSim) Check(from common.Address, data []byte) error {
	method, args, err := decode(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.check(from, method, args)
}

func (s *AvatarSim) check(from common.Address, method *abi.Method, args []interface{}) error {
	switch method.Name {
	case contract.MethodMintForCreator, contract.MethodMintTo:
		quantity := args[1].(*big.Int).Int64()
		if int64(len(s.owners))+quantity > s.MaxSupply.Int64() {
			return Revert(s.MaxSupplyReason)
		}
		if method.Name == contract.MethodMintForCreator {
			for _, h := range args[2].([]string) {
				if _, ok := s.byHash[h]; ok {
					return Revert("content hash exists")
				}
			}
		}
	case contract.MethodSetMaxSupply, contract.MethodSetBaseTokenURI:
		if from != s.Owner {
			return Revert("Ownable: caller is not the owner")
		}
	case contract.MethodBatchTransfer, contract.MethodBatchBurn, contract.MethodBatchTransferToN, contract.MethodTransferFrom:
	default:
		return fmt.Errorf("%s is not a write method", method.Name)
	}
	return nil
}

// Execute 执行写方法，返回产生的日志
func (s *AvatarSim) Execute(from common.Address, data []byte) ([]*gethtypes.Log, error) {
	method, args, err := decode(data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(from, method, args); err != nil {
		return nil, err
	}

	var logs []*gethtypes.Log
	transfer := func(fromAddr, to common.Address, id int64) {
		logs = append(logs, &gethtypes.Log{
			Address: s.Address,
			Topics: []common.Hash{
				contract.TransferEventTopic,
				common.BytesToHash(fromAddr.Bytes()),
				common.BytesToHash(to.Bytes()),
				common.BigToHash(big.NewInt(id)),
			},
		})
	}

	switch method.Name {
	case contract.MethodMintForCreator:
		to := args[0].(common.Address)
		for _, h := range args[2].([]string) {
			transfer(common.Address{}, to, s.mint(to, h))
		}
	case contract.MethodMintTo:
		to := args[0].(common.Address)
		for i := int64(0); i < args[1].(*big.Int).Int64(); i++ {
			transfer(common.Address{}, to, s.mint(to, ""))
		}
	case contract.MethodBatchTransfer:
		fromAddr, to := args[0].(common.Address), args[1].(common.Address)
		for id := args[2].(*big.Int).Int64(); id <= args[3].(*big.Int).Int64(); id++ {
			s.owners[id] = to
			transfer(fromAddr, to, id)
		}
	case contract.MethodBatchTransferToN:
		fromAddr := args[0].(common.Address)
		recipients := args[1].([]common.Address)
		for i, id := range args[2].([]*big.Int) {
			s.owners[id.Int64()] = recipients[i]
			transfer(fromAddr, recipients[i], id.Int64())
		}
	case contract.MethodBatchBurn:
		for id := args[0].(*big.Int).Int64(); id <= args[1].(*big.Int).Int64(); id++ {
			owner := s.owners[id]
			delete(s.owners, id)
			transfer(owner, common.Address{}, id)
		}
	case contract.MethodTransferFrom:
		fromAddr, to, id := args[0].(common.Address), args[1].(common.Address), args[2].(*big.Int).Int64()
		s.owners[id] = to
		transfer(fromAddr, to, id)
	case contract.MethodSetMaxSupply:
		s.MaxSupply = new(big.Int).Set(args[0].(*big.Int))
	case contract.MethodSetBaseTokenURI:
		s.BaseTokenURI = args[0].(string)
	}
	return logs, nil
}
