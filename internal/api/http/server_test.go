package http

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/weisyn/mintgate/internal/api/http/handlers"
	"github.com/weisyn/mintgate/internal/api/http/middleware"
	apiconfig "github.com/weisyn/mintgate/internal/config/api"
	mintconfig "github.com/weisyn/mintgate/internal/config/mint"
	logimpl "github.com/weisyn/mintgate/internal/core/infrastructure/log"
	"github.com/weisyn/mintgate/pkg/types"
)

const testContract = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

// stubNFT 只实现测试用到的方法，其余调用会因 nil 接口 panic
type stubNFT struct {
	handlers.NFTService

	lastMint types.MintRequest
	mintOut  types.Outcome[*types.MintResult]
}

func (s *stubNFT) GetTotalSupply(_ context.Context, contract common.Address) types.Outcome[*types.TotalSupply] {
	if contract == common.HexToAddress(testContract) {
		return types.OK(&types.TotalSupply{TotalSupply: "42", BlockNumber: 7}, "")
	}
	return types.Fail[*types.TotalSupply](types.CodeNotFound, "contract not found")
}

func (s *stubNFT) MintForCreator(_ context.Context, req types.MintRequest) types.Outcome[*types.MintResult] {
	s.lastMint = req
	return s.mintOut
}

func (s *stubNFT) EstimateGasOfTransferNFT(_ context.Context, _, _, _ common.Address, tokenID *big.Int) types.Outcome[*types.GasFee] {
	return types.Fail[*types.GasFee](types.CodeError, "token "+tokenID.String())
}

type stubChain struct {
	handlers.ChainService
}

func (stubChain) GasPrice(context.Context) types.Outcome[*types.GasPrice] {
	return types.OK(&types.GasPrice{Price: "2500000000", Gwei: "2.5"}, "")
}

type stubLedger struct {
	err error
}

func (l stubLedger) BlockNumber(context.Context) (uint64, error) {
	return 99, l.err
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T, options apiconfig.HTTPConfig, nft *stubNFT, ledger stubLedger) *Server {
	t.Helper()
	logger := logimpl.NewFromZap(zap.NewNop())
	rsp := handlers.NewResponder(mintconfig.New(nil))
	registry := prometheus.NewRegistry()

	return NewServer(&options, logger, Routes{
		Contracts: handlers.NewContractHandlers(nft, rsp),
		Eth:       handlers.NewEthHandlers(stubChain{}, nil, rsp),
		Health:    handlers.NewHealthHandler(ledger, clock.NewMock(), "test"),
		Gatherer:  registry,
		Metrics:   middleware.NewMetrics(registry),
	})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// 🎯 成功结果：HTTP 200 + code 200 + data
func TestServer_TotalSupplyOK(t *testing.T) {
	s := newTestServer(t, apiconfig.HTTPConfig{}, &stubNFT{}, stubLedger{})

	for _, path := range []string{
		"/api/v1/nft/totalsupply/" + testContract,
		"/api/v1/nft/totalsupply?contractAddress=" + testContract,
	} {
		w := do(t, s, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))

		env := decode(t, w)
		assert.Equal(t, 200, env.Code)
		assert.JSONEq(t, `{"totalSupply":"42","blockNumber":7}`, string(env.Data))
	}
}

func TestServer_TotalSupplyNotFound(t *testing.T) {
	s := newTestServer(t, apiconfig.HTTPConfig{}, &stubNFT{}, stubLedger{})

	w := do(t, s, http.MethodGet, "/api/v1/nft/totalsupply/0x0000000000000000000000000000000000000001", "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, 404, env.Code)
	assert.Equal(t, "contract not found", env.Msg)
	assert.Empty(t, env.Data, "失败结果不带 data")
}

// 📋 参数格式错误统一返回 400
func TestServer_BadRequest(t *testing.T) {
	s := newTestServer(t, apiconfig.HTTPConfig{}, &stubNFT{}, stubLedger{})

	cases := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"地址非法", http.MethodGet, "/api/v1/nft/totalsupply/0x1234", ""},
		{"缺少地址", http.MethodGet, "/api/v1/nft/totalsupply", ""},
		{"请求体非 JSON", http.MethodPost, "/api/v3/contracts/mint", "not-json"},
		{"缺少 contentHash", http.MethodPost, "/api/v3/contracts/mint", `{"contractAddress":"` + testContract + `","toAddress":"` + testContract + `"}`},
		{"tokenId 为负数", http.MethodPost, "/api/v1/nft/estimate/transfer", `{"address":"` + testContract + `","from":"` + testContract + `","to":"` + testContract + `","tokenId":"-1"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, s, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Bad request"}`, w.Body.String())
		})
	}
}

func TestServer_NoRoute(t *testing.T) {
	s := newTestServer(t, apiconfig.HTTPConfig{}, &stubNFT{}, stubLedger{})

	w := do(t, s, http.MethodGet, "/api/v2/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}

// 🎯 结果码按配置映射为对外数字码，单个 contentHash 字符串视为列表
func TestServer_MintCodeMapping(t *testing.T) {
	nft := &stubNFT{mintOut: types.Fail[*types.MintResult](types.CodeThreshold, "gas price too high")}
	s := newTestServer(t, apiconfig.HTTPConfig{}, nft, stubLedger{})

	body := `{"contractAddress":"` + testContract + `","toAddress":"` + testContract + `","contentHash":"QmHash"}`
	w := do(t, s, http.MethodPost, "/api/v3/contracts/mint", body)
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	assert.Equal(t, 202, env.Code)
	assert.Equal(t, "gas price too high", env.Msg)
	assert.Equal(t, []string{"QmHash"}, nft.lastMint.Fingerprints)
	assert.Equal(t, common.HexToAddress(testContract), nft.lastMint.Recipient)
}

func TestServer_EthGasPrice(t *testing.T) {
	s := newTestServer(t, apiconfig.HTTPConfig{}, &stubNFT{}, stubLedger{})

	env := decode(t, do(t, s, http.MethodGet, "/api/v1/eth/gasPrice", ""))
	assert.Equal(t, 200, env.Code)
	assert.JSONEq(t, `{"price":"2500000000","gwei":"2.5"}`, string(env.Data))
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, apiconfig.HTTPConfig{}, &stubNFT{}, stubLedger{})
	w := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"blockNumber":99`)

	down := newTestServer(t, apiconfig.HTTPConfig{}, &stubNFT{}, stubLedger{err: errors.New("dial tcp: refused")})
	w = do(t, down, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")

	w = do(t, down, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t, apiconfig.HTTPConfig{MetricsEnabled: true}, &stubNFT{}, stubLedger{})

	do(t, s, http.MethodGet, "/api/v1/eth/gasPrice", "")
	w := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `mintgate_api_requests_total{method="GET",path="/api/v1/eth/gasPrice",status="200"} 1`)

	disabled := newTestServer(t, apiconfig.HTTPConfig{}, &stubNFT{}, stubLedger{})
	assert.Equal(t, http.StatusNotFound, do(t, disabled, http.MethodGet, "/metrics", "").Code)
}

func TestServer_RateLimit(t *testing.T) {
	s := newTestServer(t, apiconfig.HTTPConfig{RateLimitEnabled: true, RateLimitRPS: 0.001, RateLimitBurst: 1}, &stubNFT{}, stubLedger{})

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health/live", "").Code)
	w := do(t, s, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, w.Body.String())
}
