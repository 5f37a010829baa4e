package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
)

// 账本探活超时
const probeTimeout = 3 * time.Second

// LedgerProbe 账本连通性探测
type LedgerProbe interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// HealthHandler 健康检查端点处理器
//
// - /health: 完整健康报告（含账本连通性）
// - /health/live: 存活检查（进程是否响应）
type HealthHandler struct {
	ledger    LedgerProbe
	clock     clock.Clock
	startTime time.Time
	version   string
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status      string `json:"status"` // healthy, degraded
	Version     string `json:"version"`
	Uptime      string `json:"uptime"`
	BlockNumber uint64 `json:"blockNumber,omitempty"`
	Ledger      string `json:"ledger"`
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(ledger LedgerProbe, clk clock.Clock, version string) *HealthHandler {
	return &HealthHandler{
		ledger:    ledger,
		clock:     clk,
		startTime: clk.Now(),
		version:   version,
	}
}

// RegisterRoutes 注册健康检查路由
func (h *HealthHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.GetHealth)
	r.GET("/health/live", h.GetLiveness)
}

// GetHealth 完整健康报告；账本不可达时返回 503
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	rsp := HealthResponse{
		Status:  "healthy",
		Version: h.version,
		Uptime:  h.clock.Since(h.startTime).Truncate(time.Second).String(),
		Ledger:  "ok",
	}
	status := http.StatusOK

	number, err := h.ledger.BlockNumber(ctx)
	if err != nil {
		rsp.Status = "degraded"
		rsp.Ledger = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		rsp.BlockNumber = number
	}
	c.JSON(status, rsp)
}

// GetLiveness 存活检查
func (h *HealthHandler) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
