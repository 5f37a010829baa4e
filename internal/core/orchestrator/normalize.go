package orchestrator

import (
	"errors"
	"strings"

	"github.com/weisyn/mintgate/internal/core/contract"
	"github.com/weisyn/mintgate/pkg/types"
)

// 对外消息
const (
	MsgInFlight          = "content hash is being minted"
	MsgDuplicate         = "Duplicate contentHash"
	MsgOwnerKeyNotFound  = "Not found contract owner SK"
	MsgTokenNotExist     = "tokenId not exist"
	MsgContentHashAbsent = "not found the content hash"
	MsgInvalidOwner      = "invalid owner address"
)

// outcomeError 携带对外消息的分类错误
//
// Error() 即对外消息，Unwrap() 返回分类哨兵，供 Normalize 判定结果码。
type outcomeError struct {
	sentinel error
	msg      string
}

func (e *outcomeError) Error() string { return e.msg }
func (e *outcomeError) Unwrap() error { return e.sentinel }

func classified(sentinel error, msg string) error {
	return &outcomeError{sentinel: sentinel, msg: msg}
}

// Normalize 把错误映射为结果码与消息
//
// | 错误                              | 结果码    |
// |-----------------------------------|-----------|
// | ErrInFlight, ErrDuplicate         | DUPLICATE |
// | ErrThresholdExceeded              | THRESHOLD |
// | ErrNotFound, ErrKeyNotFound       | NOTFOUND  |
// | revert 原因包含 maxSupplyReason   | MAXSUPPLY |
// | 其他                              | ERROR     |
func Normalize(err error, maxSupplyReason string) (types.ResultCode, string) {
	if err == nil {
		return types.CodeOK, ""
	}

	msg := err.Error()
	var oe *outcomeError
	if errors.As(err, &oe) {
		msg = oe.msg
	}

	switch {
	case errors.Is(err, types.ErrInFlight):
		return types.CodeDuplicate, MsgInFlight
	case errors.Is(err, types.ErrDuplicate):
		return types.CodeDuplicate, msg
	case errors.Is(err, types.ErrThresholdExceeded):
		return types.CodeThreshold, msg
	case errors.Is(err, types.ErrNotFound), errors.Is(err, types.ErrKeyNotFound):
		return types.CodeNotFound, msg
	}

	if maxSupplyReason != "" {
		if reason := contract.RevertReason(err); strings.Contains(reason, maxSupplyReason) {
			return types.CodeMaxSupply, reason
		}
	}
	return types.CodeError, msg
}
