// Package handlers 提供 HTTP 网关的路由处理器
//
// 所有处理器遵循同一约定：
// - 参数缺失或格式错误：HTTP 400 {error: "Bad request"}
// - 其余情况：HTTP 200 + 信封 {code, msg, data}，code 由 mint.api_response_code 映射
package handlers

import (
	"net/http"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/weisyn/mintgate/internal/api/http/middleware"
	mintconfig "github.com/weisyn/mintgate/internal/config/mint"
	"github.com/weisyn/mintgate/pkg/types"
)

// 固定错误体
var (
	badRequestBody = gin.H{"error": "Bad request"}
	notFoundBody   = gin.H{"error": "Not found"}
)

// BadRequest 参数错误
func BadRequest(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, badRequestBody)
}

// NotFound 未知路由
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, notFoundBody)
}

// Responder 把 Outcome 转为对外信封
type Responder struct {
	mint *mintconfig.Config
}

// NewResponder 创建信封响应器
func NewResponder(mint *mintconfig.Config) *Responder {
	return &Responder{mint: mint}
}

// Envelope 构建信封；失败结果不带空载荷
func Envelope[T any](r *Responder, out types.Outcome[T]) types.Envelope {
	env := types.Envelope{
		Code: r.mint.ResponseCode(out.Code),
		Msg:  out.Msg,
	}
	if !isNil(out.Data) {
		env.Data = out.Data
	}
	return env
}

// respond 写出信封，并把结果码留给访问日志
func respond[T any](c *gin.Context, r *Responder, out types.Outcome[T]) {
	c.Set(middleware.KeyResultCode, string(out.Code))
	c.JSON(http.StatusOK, Envelope(r, out))
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// bindJSON 解析请求体，失败时写出 400
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		BadRequest(c)
		return false
	}
	return true
}

// queryAddress 读取必填地址查询参数，失败时写出 400
func queryAddress(c *gin.Context, name string) (addr common.Address, ok bool) {
	addr, ok = parseAddress(c.Query(name))
	if !ok {
		BadRequest(c)
	}
	return addr, ok
}
