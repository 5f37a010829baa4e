// Package http 提供 mintgate 的 HTTP 网关
//
// 路由分三组：
// - /api/v1/nft、/api/v3/contracts：Avatar 合约读写
// - /api/v1/eth：链通用查询、转账与钱包工具
// - /health、/metrics：运维端点
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apiconfig "github.com/weisyn/mintgate/internal/config/api"
	"github.com/weisyn/mintgate/internal/api/http/handlers"
	"github.com/weisyn/mintgate/internal/api/http/middleware"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
)

// 优雅关闭的最长等待
const shutdownTimeout = 5 * time.Second

// Server HTTP服务器
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	options    *apiconfig.HTTPConfig
	logger     log.Logger
}

// Routes 路由依赖
type Routes struct {
	Contracts *handlers.ContractHandlers
	Eth       *handlers.EthHandlers
	Health    *handlers.HealthHandler

	// Gatherer 非空且启用指标时暴露 /metrics
	Gatherer prometheus.Gatherer
	Metrics  *middleware.Metrics
}

// NewServer 创建HTTP服务器并注册全部路由
func NewServer(options *apiconfig.HTTPConfig, logger log.Logger, routes Routes) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.NewRequestID(logger).Middleware())
	router.Use(middleware.NewLogger(logger).Middleware())
	if routes.Metrics != nil {
		router.Use(routes.Metrics.Middleware())
	}
	if options.RateLimitEnabled {
		router.Use(middleware.NewRateLimit(logger.GetZapLogger(), options.RateLimitRPS, options.RateLimitBurst).Middleware())
	}

	s := &Server{
		router:  router,
		options: options,
		logger:  logger,
	}
	s.setupRoutes(routes)
	return s
}

// setupRoutes 设置HTTP路由
func (s *Server) setupRoutes(routes Routes) {
	routes.Contracts.RegisterRoutes(s.router)
	routes.Eth.RegisterRoutes(s.router)
	routes.Health.RegisterRoutes(s.router)

	if s.options.MetricsEnabled && routes.Gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(routes.Gatherer, promhttp.HandlerOpts{})))
	}

	s.router.NoRoute(handlers.NotFound)
}

// Handler 返回路由处理器
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start 监听端口并在后台提供服务
//
// 端口被占用时直接返回错误，由 fx 启动失败退出。
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.options.Host, s.options.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	s.httpServer = &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.options.ReadTimeout,
		WriteTimeout: s.options.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("HTTP服务器运行失败: %v", err)
		}
	}()

	s.logger.Infof("HTTP服务器启动成功，监听地址: %s", listener.Addr())
	return nil
}

// Stop 优雅关闭，等待活跃请求完成
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("正在关闭HTTP服务器")

	stopCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(stopCtx); err != nil {
		s.logger.Errorf("HTTP服务器关闭出错: %v", err)
		return err
	}

	s.logger.Info("HTTP服务器已关闭")
	return nil
}
