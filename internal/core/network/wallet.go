package network

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/tyler-smith/go-bip39"

	corekeystore "github.com/weisyn/mintgate/internal/core/keystore"
	"github.com/weisyn/mintgate/pkg/types"
)

// 默认熵长度（128 bit，12 个助记词）
const defaultEntropyBits = 128

// keystore V3 scrypt 参数
var (
	scryptN = keystore.StandardScryptN
	scryptP = keystore.StandardScryptP
)

// DefaultDerivationPath m/44'/60'/0'/0/0
func DefaultDerivationPath() accounts.DerivationPath {
	return append(accounts.DerivationPath(nil), accounts.DefaultBaseDerivationPath...)
}

// ParseDerivationPath 解析派生路径；空串取默认路径
//
// 绝对路径以 m/ 开头，相对路径拼接在 m/44'/60'/0'/0 之后。
func ParseDerivationPath(path string) (accounts.DerivationPath, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultDerivationPath(), nil
	}
	dp, err := accounts.ParseDerivationPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: derivation path %q: %w", types.ErrInvalidArgument, path, err)
	}
	return dp, nil
}

// NewWallet 生成助记词钱包
//
// entropy 为空时随机生成 128 bit 熵；否则为十六进制熵（16~32 字节，4 的倍数）。
// path 为空时私钥按 m/44'/60'/0'/0/0 派生。
func NewWallet(entropy, path string) (*types.Wallet, error) {
	dp, err := ParseDerivationPath(path)
	if err != nil {
		return nil, err
	}
	raw, err := parseEntropy(entropy)
	if err != nil {
		return nil, err
	}
	mnemonic, err := bip39.NewMnemonic(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: generate mnemonic: %w", types.ErrInvalidArgument, err)
	}
	return walletFromMnemonic(mnemonic, dp)
}

func parseEntropy(entropy string) ([]byte, error) {
	if entropy == "" {
		raw, err := bip39.NewEntropy(defaultEntropyBits)
		if err != nil {
			return nil, fmt.Errorf("generate entropy: %w", err)
		}
		return raw, nil
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(entropy, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: entropy must be hex: %w", types.ErrInvalidArgument, err)
	}
	if len(raw) < 16 || len(raw) > 32 || len(raw)%4 != 0 {
		return nil, fmt.Errorf("%w: entropy must be 16, 20, 24, 28, or 32 bytes", types.ErrInvalidArgument)
	}
	return raw, nil
}

func walletFromMnemonic(mnemonic string, path accounts.DerivationPath) (*types.Wallet, error) {
	key, err := DeriveKey(mnemonic, "", path)
	if err != nil {
		return nil, err
	}
	return &types.Wallet{
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivateKey: hexutil.Encode(crypto.FromECDSA(key)),
		Mnemonic:   mnemonic,
		Path:       path.String(),
	}, nil
}

// DeriveKey 由助记词按 BIP32 路径派生私钥
func DeriveKey(mnemonic, passphrase string, path accounts.DerivationPath) (*ecdsa.PrivateKey, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("%w: invalid mnemonic", types.ErrInvalidArgument)
	}
	seed := bip39.NewSeed(mnemonic, passphrase)

	node, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}
	for _, index := range path {
		if node, err = node.Derive(index); err != nil {
			return nil, fmt.Errorf("failed to derive %s: %w", path, err)
		}
	}
	ecPrivKey, err := node.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get EC private key: %w", err)
	}
	return ecPrivKey.ToECDSA(), nil
}

// NewJSONWallet 生成助记词钱包并以 keystore V3 格式加密
func NewJSONWallet(password, entropy string) (*types.JSONWallet, error) {
	wallet, err := NewWallet(entropy, "")
	if err != nil {
		return nil, err
	}
	return RetrieveJSONWalletFromMnemonic(password, wallet.Mnemonic, "")
}

// RetrieveJSONWalletFromMnemonic 由助记词按 path 派生（空串取默认路径）并加密
func RetrieveJSONWalletFromMnemonic(password, mnemonic, path string) (*types.JSONWallet, error) {
	dp, err := ParseDerivationPath(path)
	if err != nil {
		return nil, err
	}
	key, err := DeriveKey(mnemonic, "", dp)
	if err != nil {
		return nil, err
	}
	wallet, err := encryptWallet(password, key)
	if err != nil {
		return nil, err
	}
	wallet.Mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	return wallet, nil
}

// RetrieveJSONWalletFromPK 由私钥加密
func RetrieveJSONWalletFromPK(password, pk string) (*types.JSONWallet, error) {
	key, err := corekeystore.ParsePrivateKey(pk)
	if err != nil {
		return nil, err
	}
	return encryptWallet(password, key)
}

// InspectJSONWallet 解密 keystore V3 JSON
func InspectJSONWallet(password, jsonWallet string) (*types.Wallet, error) {
	key, err := keystore.DecryptKey([]byte(jsonWallet), password)
	if err != nil {
		return nil, fmt.Errorf("%w: decrypt json wallet: %w", types.ErrInvalidArgument, err)
	}
	return &types.Wallet{
		Address:    key.Address.Hex(),
		PrivateKey: hexutil.Encode(crypto.FromECDSA(key.PrivateKey)),
	}, nil
}

func encryptWallet(password string, privateKey *ecdsa.PrivateKey) (*types.JSONWallet, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", types.ErrInvalidArgument)
	}
	key := &keystore.Key{
		Id:         uuid.New(),
		Address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		PrivateKey: privateKey,
	}
	data, err := keystore.EncryptKey(key, password, scryptN, scryptP)
	if err != nil {
		return nil, fmt.Errorf("encrypt json wallet: %w", err)
	}
	return &types.JSONWallet{
		Address: key.Address.Hex(),
		JSON:    string(data),
	}, nil
}

// 📋 钱包接口包装：统一返回 Outcome

// NewWallet 生成助记词钱包
func (s *Service) NewWallet(ctx context.Context, entropy, path string) types.Outcome[*types.Wallet] {
	wallet, err := NewWallet(entropy, path)
	return outcome(ctx, s, "NewWallet", wallet, err)
}

// NewJSONWallet 生成并加密钱包
func (s *Service) NewJSONWallet(ctx context.Context, password, entropy string) types.Outcome[*types.JSONWallet] {
	wallet, err := NewJSONWallet(password, entropy)
	return outcome(ctx, s, "NewJSONWallet", wallet, err)
}

// RetrieveJSONWalletFromMnemonic 助记词恢复
func (s *Service) RetrieveJSONWalletFromMnemonic(ctx context.Context, password, mnemonic, path string) types.Outcome[*types.JSONWallet] {
	wallet, err := RetrieveJSONWalletFromMnemonic(password, mnemonic, path)
	return outcome(ctx, s, "RetrieveJSONWalletFromMnemonic", wallet, err)
}

// RetrieveJSONWalletFromPK 私钥恢复
func (s *Service) RetrieveJSONWalletFromPK(ctx context.Context, password, pk string) types.Outcome[*types.JSONWallet] {
	wallet, err := RetrieveJSONWalletFromPK(password, pk)
	return outcome(ctx, s, "RetrieveJSONWalletFromPK", wallet, err)
}

// InspectJSONWallet 解密 JSON 钱包
func (s *Service) InspectJSONWallet(ctx context.Context, password, jsonWallet string) types.Outcome[*types.Wallet] {
	wallet, err := InspectJSONWallet(password, jsonWallet)
	return outcome(ctx, s, "InspectJSONWallet", wallet, err)
}
