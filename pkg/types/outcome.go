package types

// ResultCode 统一结果码
//
// 🎯 封闭枚举：每个写操作与读操作都只返回以下结果码之一，
// 对外数字码由 mint.api_response_code 配置映射。
type ResultCode string

const (
	// CodeOK 操作成功
	CodeOK ResultCode = "OK"
	// CodeDuplicate 内容指纹已存在（或正在铸造）
	CodeDuplicate ResultCode = "DUPLICATE"
	// CodeThreshold gas 价格触发熔断
	CodeThreshold ResultCode = "THRESHOLD"
	// CodeNotFound 地址/内容/代币不存在
	CodeNotFound ResultCode = "NOTFOUND"
	// CodeError 账本错误或其他失败
	CodeError ResultCode = "ERROR"
	// CodeMaxSupply 合约已达最大供应量
	CodeMaxSupply ResultCode = "MAXSUPPLY"
)

// AllResultCodes 全部结果码（用于映射完整性校验）
var AllResultCodes = []ResultCode{CodeOK, CodeDuplicate, CodeThreshold, CodeNotFound, CodeError, CodeMaxSupply}

// Outcome 统一结果信封
//
// 每个操作使用自己的载荷类型 T，缓存命中与未命中返回完全相同的信封。
type Outcome[T any] struct {
	Code ResultCode `json:"code"`
	Msg  string     `json:"msg,omitempty"`
	Data T          `json:"data,omitempty"`
}

// OK 构建成功结果
func OK[T any](data T, msg string) Outcome[T] {
	return Outcome[T]{Code: CodeOK, Msg: msg, Data: data}
}

// Fail 构建不带载荷的结果
func Fail[T any](code ResultCode, msg string) Outcome[T] {
	return Outcome[T]{Code: code, Msg: msg}
}

// IsOK 是否成功
func (o Outcome[T]) IsOK() bool {
	return o.Code == CodeOK
}

// Envelope 对外响应信封（数字结果码）
type Envelope struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg,omitempty"`
	Data interface{} `json:"data,omitempty"`
}
