package handlers

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/gin-gonic/gin"

	"github.com/weisyn/mintgate/pkg/types"
)

// ChainService 链通用查询与钱包工具（由 network.Service 实现）
type ChainService interface {
	GasPrice(ctx context.Context) types.Outcome[*types.GasPrice]
	TxReceipt(ctx context.Context, hash common.Hash) types.Outcome[*types.TxReceipt]
	Tx(ctx context.Context, hash common.Hash) types.Outcome[*gethtypes.Transaction]
	BlockNumber(ctx context.Context) types.Outcome[*types.BlockNumber]
	Block(ctx context.Context, hash common.Hash) types.Outcome[*types.BlockInfo]
	Balance(ctx context.Context, address, blockHash string) types.Outcome[*types.AccountBalance]
	Observer(ctx context.Context, address string) types.Outcome[*types.AccountBalance]
	VerifySignature(ctx context.Context, address, msg, sig string) types.Outcome[*types.Verified]
	VerifyAddress(ctx context.Context, address string) types.Outcome[*types.Verified]
	NewWallet(ctx context.Context, entropy, path string) types.Outcome[*types.Wallet]
	NewJSONWallet(ctx context.Context, password, entropy string) types.Outcome[*types.JSONWallet]
	RetrieveJSONWalletFromMnemonic(ctx context.Context, password, mnemonic, path string) types.Outcome[*types.JSONWallet]
	RetrieveJSONWalletFromPK(ctx context.Context, password, pk string) types.Outcome[*types.JSONWallet]
	InspectJSONWallet(ctx context.Context, password, jsonWallet string) types.Outcome[*types.Wallet]
}

// TransferService 原生币转账（由 orchestrator 实现）
type TransferService interface {
	NativeTransfer(ctx context.Context, req types.NativeTransferRequest) types.Outcome[*types.TransferResult]
}

// EthHandlers /api/v1/eth 路由
type EthHandlers struct {
	chain    ChainService
	transfer TransferService
	rsp      *Responder
}

// NewEthHandlers 创建链查询路由处理器
func NewEthHandlers(chain ChainService, transfer TransferService, rsp *Responder) *EthHandlers {
	return &EthHandlers{chain: chain, transfer: transfer, rsp: rsp}
}

// RegisterRoutes 注册路由
func (h *EthHandlers) RegisterRoutes(r *gin.Engine) {
	eth := r.Group("/api/v1/eth")
	{
		eth.GET("/gasPrice", h.GasPrice)
		eth.GET("/txReceipt", h.TxReceipt)
		eth.GET("/tx", h.Tx)
		eth.GET("/blockNumber", h.BlockNumber)
		eth.GET("/block", h.Block)
		eth.GET("/balance", h.Balance)
		eth.GET("/observer/:address", h.Observer)
		eth.POST("/transfer", h.Transfer)

		eth.POST("/verify/signature", h.VerifySignature)
		eth.GET("/verify/address/:address", h.VerifyAddress)

		eth.POST("/wallet/new", h.NewWallet)
		eth.POST("/wallet/json/new", h.NewJSONWallet)
		eth.POST("/wallet/json/mnemonic", h.RetrieveJSONWalletFromMnemonic)
		eth.POST("/wallet/json/pk", h.RetrieveJSONWalletFromPK)
		eth.POST("/wallet/json/inspect", h.InspectJSONWallet)
	}
}

// GasPrice 网络 gas 价格
func (h *EthHandlers) GasPrice(c *gin.Context) {
	respond(c, h.rsp, h.chain.GasPrice(c.Request.Context()))
}

// TxReceipt 交易回执
func (h *EthHandlers) TxReceipt(c *gin.Context) {
	hash, ok := parseHash(c.Query("txHash"))
	if !ok {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.chain.TxReceipt(c.Request.Context(), hash))
}

// Tx 交易详情
func (h *EthHandlers) Tx(c *gin.Context) {
	hash, ok := parseHash(c.Query("txHash"))
	if !ok {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.chain.Tx(c.Request.Context(), hash))
}

// BlockNumber 区块高度
func (h *EthHandlers) BlockNumber(c *gin.Context) {
	respond(c, h.rsp, h.chain.BlockNumber(c.Request.Context()))
}

// Block 区块摘要
func (h *EthHandlers) Block(c *gin.Context) {
	hash, ok := parseHash(c.Query("blockHash"))
	if !ok {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.chain.Block(c.Request.Context(), hash))
}

// Balance 余额；blockHash 可选
func (h *EthHandlers) Balance(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		BadRequest(c)
		return
	}
	blockHash := c.Query("blockHash")
	if blockHash != "" {
		if _, ok := parseHash(blockHash); !ok {
			BadRequest(c)
			return
		}
	}
	respond(c, h.rsp, h.chain.Balance(c.Request.Context(), address, blockHash))
}

// Observer 余额观察
func (h *EthHandlers) Observer(c *gin.Context) {
	respond(c, h.rsp, h.chain.Observer(c.Request.Context(), c.Param("address")))
}

type transferRequest struct {
	From   string `json:"from" binding:"required"`
	To     string `json:"to" binding:"required"`
	Amount BigInt `json:"amount"`
	PK     string `json:"pk"`
	Force  bool   `json:"force"`
}

// Transfer 原生币转账；force=true 跳过熔断
func (h *EthHandlers) Transfer(c *gin.Context) {
	var body transferRequest
	if !bindJSON(c, &body) {
		return
	}
	from, ok1 := parseAddress(body.From)
	to, ok2 := parseAddress(body.To)
	if !ok1 || !ok2 || body.Amount.Int == nil {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.transfer.NativeTransfer(c.Request.Context(), types.NativeTransferRequest{
		From:       from,
		To:         to,
		Amount:     body.Amount.Int,
		PrivateKey: body.PK,
		Force:      body.Force,
	}))
}

type verifySignatureRequest struct {
	Address string `json:"address" binding:"required"`
	Msg     string `json:"msg" binding:"required"`
	Sig     string `json:"sig" binding:"required"`
}

// VerifySignature 校验 personal message 签名
func (h *EthHandlers) VerifySignature(c *gin.Context) {
	var body verifySignatureRequest
	if !bindJSON(c, &body) {
		return
	}
	respond(c, h.rsp, h.chain.VerifySignature(c.Request.Context(), body.Address, body.Msg, body.Sig))
}

// VerifyAddress 校验地址
func (h *EthHandlers) VerifyAddress(c *gin.Context) {
	respond(c, h.rsp, h.chain.VerifyAddress(c.Request.Context(), c.Param("address")))
}

type walletRequest struct {
	Password   string `json:"password"`
	Entropy    string `json:"entropy"`
	Mnemonic   string `json:"mnemonic"`
	PK         string `json:"pk"`
	JSONWallet string `json:"jsonWallet"`
	// Path 派生路径，空串取 m/44'/60'/0'/0/0
	Path string `json:"path"`
}

// bindWallet 解析钱包请求体；空请求体视为全部字段为空
func bindWallet(c *gin.Context) (walletRequest, bool) {
	var body walletRequest
	if c.Request.ContentLength == 0 {
		return body, true
	}
	return body, bindJSON(c, &body)
}

// NewWallet 生成助记词钱包
func (h *EthHandlers) NewWallet(c *gin.Context) {
	body, ok := bindWallet(c)
	if !ok {
		return
	}
	respond(c, h.rsp, h.chain.NewWallet(c.Request.Context(), body.Entropy, body.Path))
}

// NewJSONWallet 生成加密钱包
func (h *EthHandlers) NewJSONWallet(c *gin.Context) {
	body, ok := bindWallet(c)
	if !ok {
		return
	}
	if body.Password == "" {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.chain.NewJSONWallet(c.Request.Context(), body.Password, body.Entropy))
}

// RetrieveJSONWalletFromMnemonic 由助记词恢复加密钱包
func (h *EthHandlers) RetrieveJSONWalletFromMnemonic(c *gin.Context) {
	body, ok := bindWallet(c)
	if !ok {
		return
	}
	if body.Password == "" || body.Mnemonic == "" {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.chain.RetrieveJSONWalletFromMnemonic(c.Request.Context(), body.Password, body.Mnemonic, body.Path))
}

// RetrieveJSONWalletFromPK 由私钥生成加密钱包
func (h *EthHandlers) RetrieveJSONWalletFromPK(c *gin.Context) {
	body, ok := bindWallet(c)
	if !ok {
		return
	}
	if body.Password == "" || body.PK == "" {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.chain.RetrieveJSONWalletFromPK(c.Request.Context(), body.Password, body.PK))
}

// InspectJSONWallet 解密加密钱包
func (h *EthHandlers) InspectJSONWallet(c *gin.Context) {
	body, ok := bindWallet(c)
	if !ok {
		return
	}
	if body.Password == "" || body.JSONWallet == "" {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.chain.InspectJSONWallet(c.Request.Context(), body.Password, body.JSONWallet))
}
