package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// BigInt 请求中的整数，接受 JSON 数字或十进制/0x 十六进制字符串
type BigInt struct {
	*big.Int
}

// UnmarshalJSON 实现 json.Unmarshaler
func (b *BigInt) UnmarshalJSON(data []byte) error {
	text := string(bytes.Trim(data, `"`))
	if text == "null" || text == "" {
		return nil
	}
	v, ok := parseBigInt(text)
	if !ok {
		return fmt.Errorf("invalid integer %s", data)
	}
	b.Int = v
	return nil
}

// StringList 接受单个字符串或字符串数组
type StringList []string

// UnmarshalJSON 实现 json.Unmarshaler
func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = StringList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected string or string array: %w", err)
	}
	*l = list
	return nil
}

// parseBigInt 非负整数，支持十进制与 0x 十六进制
func parseBigInt(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	v, ok := new(big.Int).SetString(s, 0)
	if !ok || v.Sign() < 0 {
		return nil, false
	}
	return v, true
}

func parseAddress(s string) (common.Address, bool) {
	if !common.IsHexAddress(s) {
		return common.Address{}, false
	}
	return common.HexToAddress(s), true
}

func parseAddresses(list []string) ([]common.Address, bool) {
	out := make([]common.Address, 0, len(list))
	for _, s := range list {
		addr, ok := parseAddress(s)
		if !ok {
			return nil, false
		}
		out = append(out, addr)
	}
	return out, true
}

func bigInts(list []BigInt) ([]*big.Int, bool) {
	out := make([]*big.Int, 0, len(list))
	for _, v := range list {
		if v.Int == nil {
			return nil, false
		}
		out = append(out, v.Int)
	}
	return out, true
}

// parseHash 32 字节十六进制哈希
func parseHash(s string) (common.Hash, bool) {
	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(raw) != 2*common.HashLength {
		return common.Hash{}, false
	}
	for _, r := range raw {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return common.Hash{}, false
		}
	}
	return common.HexToHash(s), true
}
