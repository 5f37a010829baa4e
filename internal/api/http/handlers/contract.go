package handlers

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/weisyn/mintgate/pkg/types"
)

// NFTService Avatar 合约编排服务（由 orchestrator 实现）
type NFTService interface {
	MintForCreator(ctx context.Context, req types.MintRequest) types.Outcome[*types.MintResult]
	MintTo(ctx context.Context, req types.MintToRequest) types.Outcome[*types.SubmittedTx]
	GetMintReceipt(ctx context.Context, txHash common.Hash) types.Outcome[*types.MintReceipt]
	GetTotalSupply(ctx context.Context, contract common.Address) types.Outcome[*types.TotalSupply]
	EstimateGasOfTransferNFT(ctx context.Context, contract, from, to common.Address, tokenID *big.Int) types.Outcome[*types.GasFee]
	EstimateGasOfBatchTransfer(ctx context.Context, contract, from, to common.Address, fromTokenID, toTokenID *big.Int) types.Outcome[*types.GasFee]
	EstimateGasOfBatchTransferToN(ctx context.Context, contract, from common.Address, to []common.Address, tokenIDs []*big.Int) types.Outcome[*types.GasFee]
	GetTokenIdByContentHash(ctx context.Context, contract common.Address, contentHash string) types.Outcome[*types.TokenID]
	GetContractInfo(ctx context.Context, contract common.Address) types.Outcome[*types.ContractInfo]
	GetTokenInfo(ctx context.Context, contract common.Address, tokenID *big.Int) types.Outcome[*types.TokenInfo]
	GetTokenContentHash(ctx context.Context, contract common.Address, tokenID *big.Int) types.Outcome[*types.TokenInfo]
	GetTokenURI(ctx context.Context, contract common.Address, tokenID *big.Int) types.Outcome[*types.TokenInfo]
	GetSymbol(ctx context.Context, contract common.Address) types.Outcome[*types.Symbol]
	GetContractOwner(ctx context.Context, contract common.Address) types.Outcome[*types.Owner]
	GetMaxSupply(ctx context.Context, contract common.Address) types.Outcome[*types.MaxSupply]
	OwnerOf(ctx context.Context, contract common.Address, tokenID *big.Int) types.Outcome[*types.Owner]
	BalanceOf(ctx context.Context, contract common.Address, owner string) types.Outcome[*types.Balance]
	IsProxy(ctx context.Context, contract common.Address) types.Outcome[*types.ProxyInfo]
	BatchTransfer(ctx context.Context, req types.BatchTransferRequest) types.Outcome[*types.SubmittedTx]
	BatchTransferToN(ctx context.Context, req types.BatchTransferToNRequest) types.Outcome[*types.SubmittedTx]
	BatchBurn(ctx context.Context, req types.BatchBurnRequest) types.Outcome[*types.SubmittedTx]
	SetMaxSupply(ctx context.Context, contract common.Address, maxSupply uint64) types.Outcome[*types.SubmittedTx]
	SetBaseTokenURI(ctx context.Context, contract common.Address, baseTokenURI string) types.Outcome[*types.SubmittedTx]
	Deploy(ctx context.Context, req types.DeployRequest) types.Outcome[*types.DeployResult]
}

// ContractHandlers /api/v1/nft 与 /api/v3/contracts 路由
type ContractHandlers struct {
	service NFTService
	rsp     *Responder
}

// NewContractHandlers 创建合约路由处理器
func NewContractHandlers(service NFTService, rsp *Responder) *ContractHandlers {
	return &ContractHandlers{service: service, rsp: rsp}
}

// RegisterRoutes 注册路由
func (h *ContractHandlers) RegisterRoutes(r *gin.Engine) {
	nft := r.Group("/api/v1/nft")
	{
		nft.GET("/totalsupply", h.GetTotalSupply)
		nft.GET("/totalsupply/:address", h.GetTotalSupply)
		nft.POST("/estimate/transfer", h.EstimateGasOfTransferNFT)
	}

	v3 := r.Group("/api/v3/contracts")
	{
		// 写操作
		v3.POST("/mint", h.MintForCreator)
		v3.POST("/mintTo", h.MintTo)
		v3.POST("/batchTransfer", h.BatchTransfer)
		v3.POST("/batchTransferToN", h.BatchTransferToN)
		v3.POST("/batchBurn", h.BatchBurn)
		v3.POST("/deploy", h.Deploy)
		v3.POST("/setMaxSupply", h.SetMaxSupply)
		v3.POST("/setBaseTokenURI", h.SetBaseTokenURI)

		// 估算
		v3.POST("/estimate/batchTransfer", h.EstimateGasOfBatchTransfer)
		v3.POST("/estimate/batchTransferToN", h.EstimateGasOfBatchTransferToN)

		// 只读
		v3.GET("/mintStatus", h.GetMintStatus)
		v3.GET("/tokenIdByContentHash", h.GetTokenIdByContentHash)
		v3.GET("/info", h.GetContractInfo)
		v3.GET("/tokenInfo", h.GetTokenInfo)
		v3.GET("/tokenContentHash", h.GetTokenContentHash)
		v3.GET("/tokenURI", h.GetTokenURI)
		v3.GET("/symbol", h.GetSymbol)
		v3.GET("/owner", h.GetContractOwner)
		v3.GET("/maxSupply", h.GetMaxSupply)
		v3.GET("/ownerOf", h.OwnerOf)
		v3.GET("/balanceOf", h.BalanceOf)
		v3.GET("/isProxy", h.IsProxy)
	}
}

// GetTotalSupply 合约地址取自 :address 或 ?contractAddress
func (h *ContractHandlers) GetTotalSupply(c *gin.Context) {
	raw := c.Param("address")
	if raw == "" {
		raw = c.Query("contractAddress")
	}
	contract, ok := parseAddress(raw)
	if !ok {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.service.GetTotalSupply(c.Request.Context(), contract))
}

type estimateTransferRequest struct {
	Address string `json:"address" binding:"required"`
	From    string `json:"from" binding:"required"`
	To      string `json:"to" binding:"required"`
	TokenID BigInt `json:"tokenId"`
}

// EstimateGasOfTransferNFT 估算单个 NFT 转移手续费
func (h *ContractHandlers) EstimateGasOfTransferNFT(c *gin.Context) {
	var req estimateTransferRequest
	if !bindJSON(c, &req) {
		return
	}
	contract, ok1 := parseAddress(req.Address)
	from, ok2 := parseAddress(req.From)
	to, ok3 := parseAddress(req.To)
	if !ok1 || !ok2 || !ok3 || req.TokenID.Int == nil {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.service.EstimateGasOfTransferNFT(c.Request.Context(), contract, from, to, req.TokenID.Int))
}

type mintRequest struct {
	ContractAddress string     `json:"contractAddress" binding:"required"`
	ToAddress       string     `json:"toAddress" binding:"required"`
	ContentHash     StringList `json:"contentHash" binding:"required"`
}

// MintForCreator 按内容指纹铸造（contentHash 可为字符串或数组）
func (h *ContractHandlers) MintForCreator(c *gin.Context) {
	var req mintRequest
	if !bindJSON(c, &req) {
		return
	}
	contract, ok1 := parseAddress(req.ContractAddress)
	to, ok2 := parseAddress(req.ToAddress)
	if !ok1 || !ok2 {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.service.MintForCreator(c.Request.Context(), types.MintRequest{
		Contract:     contract,
		Recipient:    to,
		Fingerprints: req.ContentHash,
	}))
}

type mintToRequest struct {
	ContractAddress string `json:"contractAddress" binding:"required"`
	ToAddress       string `json:"toAddress" binding:"required"`
	Quantity        BigInt `json:"quantity"`
}

// MintTo 按数量铸造
func (h *ContractHandlers) MintTo(c *gin.Context) {
	var req mintToRequest
	if !bindJSON(c, &req) {
		return
	}
	contract, ok1 := parseAddress(req.ContractAddress)
	to, ok2 := parseAddress(req.ToAddress)
	if !ok1 || !ok2 || req.Quantity.Int == nil {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.service.MintTo(c.Request.Context(), types.MintToRequest{
		Contract:  contract,
		Recipient: to,
		Quantity:  req.Quantity.Int,
	}))
}

// GetMintStatus 铸造交易状态
func (h *ContractHandlers) GetMintStatus(c *gin.Context) {
	hash, ok := parseHash(c.Query("txHash"))
	if !ok {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.service.GetMintReceipt(c.Request.Context(), hash))
}

// GetTokenIdByContentHash 按内容指纹查 tokenId
func (h *ContractHandlers) GetTokenIdByContentHash(c *gin.Context) {
	contract, ok := queryAddress(c, "contractAddress")
	if !ok {
		return
	}
	contentHash := c.Query("contentHash")
	if contentHash == "" {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.service.GetTokenIdByContentHash(c.Request.Context(), contract, contentHash))
}

// GetContractInfo 合约概要
func (h *ContractHandlers) GetContractInfo(c *gin.Context) {
	if contract, ok := queryAddress(c, "contractAddress"); ok {
		respond(c, h.rsp, h.service.GetContractInfo(c.Request.Context(), contract))
	}
}

// tokenQuery 读取 contractAddress 与 tokenId
func tokenQuery(c *gin.Context) (common.Address, *big.Int, bool) {
	contract, ok := queryAddress(c, "contractAddress")
	if !ok {
		return contract, nil, false
	}
	tokenID, ok := parseBigInt(c.Query("tokenId"))
	if !ok {
		BadRequest(c)
		return contract, nil, false
	}
	return contract, tokenID, true
}

// GetTokenInfo 代币 URI 与内容指纹
func (h *ContractHandlers) GetTokenInfo(c *gin.Context) {
	if contract, tokenID, ok := tokenQuery(c); ok {
		respond(c, h.rsp, h.service.GetTokenInfo(c.Request.Context(), contract, tokenID))
	}
}

// GetTokenContentHash 代币内容指纹
func (h *ContractHandlers) GetTokenContentHash(c *gin.Context) {
	if contract, tokenID, ok := tokenQuery(c); ok {
		respond(c, h.rsp, h.service.GetTokenContentHash(c.Request.Context(), contract, tokenID))
	}
}

// GetTokenURI 代币 URI
func (h *ContractHandlers) GetTokenURI(c *gin.Context) {
	if contract, tokenID, ok := tokenQuery(c); ok {
		respond(c, h.rsp, h.service.GetTokenURI(c.Request.Context(), contract, tokenID))
	}
}

// GetSymbol 合约符号
func (h *ContractHandlers) GetSymbol(c *gin.Context) {
	if contract, ok := queryAddress(c, "contractAddress"); ok {
		respond(c, h.rsp, h.service.GetSymbol(c.Request.Context(), contract))
	}
}

// GetContractOwner 合约所有者
func (h *ContractHandlers) GetContractOwner(c *gin.Context) {
	if contract, ok := queryAddress(c, "contractAddress"); ok {
		respond(c, h.rsp, h.service.GetContractOwner(c.Request.Context(), contract))
	}
}

// GetMaxSupply 最大供应量
func (h *ContractHandlers) GetMaxSupply(c *gin.Context) {
	if contract, ok := queryAddress(c, "contractAddress"); ok {
		respond(c, h.rsp, h.service.GetMaxSupply(c.Request.Context(), contract))
	}
}

// OwnerOf 代币持有人
func (h *ContractHandlers) OwnerOf(c *gin.Context) {
	if contract, tokenID, ok := tokenQuery(c); ok {
		respond(c, h.rsp, h.service.OwnerOf(c.Request.Context(), contract, tokenID))
	}
}

// BalanceOf 持有数量；owner 格式由编排层校验
func (h *ContractHandlers) BalanceOf(c *gin.Context) {
	contract, ok := queryAddress(c, "contractAddress")
	if !ok {
		return
	}
	owner := c.Query("owner")
	if owner == "" {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.service.BalanceOf(c.Request.Context(), contract, owner))
}

// IsProxy 代理合约识别
func (h *ContractHandlers) IsProxy(c *gin.Context) {
	if contract, ok := queryAddress(c, "contractAddress"); ok {
		respond(c, h.rsp, h.service.IsProxy(c.Request.Context(), contract))
	}
}

type batchTransferRequest struct {
	ContractAddress string `json:"contractAddress" binding:"required"`
	FromAddress     string `json:"fromAddress" binding:"required"`
	ToAddress       string `json:"toAddress" binding:"required"`
	FromTokenID     BigInt `json:"fromTokenId"`
	ToTokenID       BigInt `json:"toTokenId"`
	PK              string `json:"pk"`
}

func (r *batchTransferRequest) parse() (types.BatchTransferRequest, bool) {
	contract, ok1 := parseAddress(r.ContractAddress)
	from, ok2 := parseAddress(r.FromAddress)
	to, ok3 := parseAddress(r.ToAddress)
	if !ok1 || !ok2 || !ok3 || r.FromTokenID.Int == nil || r.ToTokenID.Int == nil {
		return types.BatchTransferRequest{}, false
	}
	return types.BatchTransferRequest{
		Contract:    contract,
		From:        from,
		To:          to,
		FromTokenID: r.FromTokenID.Int,
		ToTokenID:   r.ToTokenID.Int,
		PrivateKey:  r.PK,
	}, true
}

// BatchTransfer 1 对 1 批量转移
func (h *ContractHandlers) BatchTransfer(c *gin.Context) {
	var body batchTransferRequest
	if !bindJSON(c, &body) {
		return
	}
	req, ok := body.parse()
	if !ok {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.service.BatchTransfer(c.Request.Context(), req))
}

// EstimateGasOfBatchTransfer 估算 1 对 1 批量转移手续费
func (h *ContractHandlers) EstimateGasOfBatchTransfer(c *gin.Context) {
	var body batchTransferRequest
	if !bindJSON(c, &body) {
		return
	}
	req, ok := body.parse()
	if !ok {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.service.EstimateGasOfBatchTransfer(c.Request.Context(), req.Contract, req.From, req.To, req.FromTokenID, req.ToTokenID))
}

type batchTransferToNRequest struct {
	ContractAddress string   `json:"contractAddress" binding:"required"`
	FromAddress     string   `json:"fromAddress" binding:"required"`
	ToAddress       []string `json:"toAddress" binding:"required"`
	TokenIDs        []BigInt `json:"tokenIds" binding:"required"`
	PK              string   `json:"pk"`
}

func (r *batchTransferToNRequest) parse() (types.BatchTransferToNRequest, bool) {
	contract, ok1 := parseAddress(r.ContractAddress)
	from, ok2 := parseAddress(r.FromAddress)
	to, ok3 := parseAddresses(r.ToAddress)
	ids, ok4 := bigInts(r.TokenIDs)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return types.BatchTransferToNRequest{}, false
	}
	return types.BatchTransferToNRequest{
		Contract:   contract,
		From:       from,
		To:         to,
		TokenIDs:   ids,
		PrivateKey: r.PK,
	}, true
}

// BatchTransferToN 1 对 N 批量转移
func (h *ContractHandlers) BatchTransferToN(c *gin.Context) {
	var body batchTransferToNRequest
	if !bindJSON(c, &body) {
		return
	}
	req, ok := body.parse()
	if !ok {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.service.BatchTransferToN(c.Request.Context(), req))
}

// EstimateGasOfBatchTransferToN 估算 1 对 N 批量转移手续费
func (h *ContractHandlers) EstimateGasOfBatchTransferToN(c *gin.Context) {
	var body batchTransferToNRequest
	if !bindJSON(c, &body) {
		return
	}
	req, ok := body.parse()
	if !ok {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.service.EstimateGasOfBatchTransferToN(c.Request.Context(), req.Contract, req.From, req.To, req.TokenIDs))
}

type batchBurnRequest struct {
	ContractAddress string `json:"contractAddress" binding:"required"`
	FromTokenID     BigInt `json:"fromTokenId"`
	ToTokenID       BigInt `json:"toTokenId"`
	PK              string `json:"pk"`
}

// BatchBurn 批量销毁
func (h *ContractHandlers) BatchBurn(c *gin.Context) {
	var body batchBurnRequest
	if !bindJSON(c, &body) {
		return
	}
	contract, ok := parseAddress(body.ContractAddress)
	if !ok || body.FromTokenID.Int == nil || body.ToTokenID.Int == nil {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.service.BatchBurn(c.Request.Context(), types.BatchBurnRequest{
		Contract:    contract,
		FromTokenID: body.FromTokenID.Int,
		ToTokenID:   body.ToTokenID.Int,
		PrivateKey:  body.PK,
	}))
}

type deployRequest struct {
	Name         string  `json:"name" binding:"required"`
	Symbol       string  `json:"symbol" binding:"required"`
	BaseTokenURI string  `json:"baseTokenURI" binding:"required"`
	MaxSupply    BigInt  `json:"maxSupply"`
	PK           string  `json:"pk"`
	Sync         bool    `json:"sync"`
	GasPriceC    *uint64 `json:"gasPriceC"`
	Upgradeable  bool    `json:"upgradeable"`
}

// Deploy 部署 Avatar 合约；sync=true 时等待上链
func (h *ContractHandlers) Deploy(c *gin.Context) {
	var body deployRequest
	if !bindJSON(c, &body) {
		return
	}
	if body.MaxSupply.Int == nil {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.service.Deploy(c.Request.Context(), types.DeployRequest{
		Name:         body.Name,
		Symbol:       body.Symbol,
		BaseTokenURI: body.BaseTokenURI,
		MaxSupply:    body.MaxSupply.Int,
		PrivateKey:   body.PK,
		Wait:         body.Sync,
		GasPriceC:    body.GasPriceC,
		Upgradeable:  body.Upgradeable,
	}))
}

type setMaxSupplyRequest struct {
	ContractAddress string `json:"contractAddress" binding:"required"`
	MaxSupply       BigInt `json:"maxSupply"`
}

// SetMaxSupply 设置最大供应量
func (h *ContractHandlers) SetMaxSupply(c *gin.Context) {
	var body setMaxSupplyRequest
	if !bindJSON(c, &body) {
		return
	}
	contract, ok := parseAddress(body.ContractAddress)
	if !ok || body.MaxSupply.Int == nil || !body.MaxSupply.IsUint64() {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.service.SetMaxSupply(c.Request.Context(), contract, body.MaxSupply.Uint64()))
}

type setBaseTokenURIRequest struct {
	ContractAddress string `json:"contractAddress" binding:"required"`
	BaseTokenURI    string `json:"baseTokenURI" binding:"required"`
}

// SetBaseTokenURI 设置基础 URI
func (h *ContractHandlers) SetBaseTokenURI(c *gin.Context) {
	var body setBaseTokenURIRequest
	if !bindJSON(c, &body) {
		return
	}
	contract, ok := parseAddress(body.ContractAddress)
	if !ok {
		BadRequest(c)
		return
	}
	respond(c, h.rsp, h.service.SetBaseTokenURI(c.Request.Context(), contract, body.BaseTokenURI))
}
