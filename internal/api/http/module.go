package http

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/weisyn/mintgate/internal/api/http/handlers"
	"github.com/weisyn/mintgate/internal/api/http/middleware"
	"github.com/weisyn/mintgate/internal/app/version"
	apiconfig "github.com/weisyn/mintgate/internal/config/api"
	mintconfig "github.com/weisyn/mintgate/internal/config/mint"
	"github.com/weisyn/mintgate/internal/core/ledger"
	logimpl "github.com/weisyn/mintgate/internal/core/infrastructure/log"
	"github.com/weisyn/mintgate/internal/core/network"
	"github.com/weisyn/mintgate/internal/core/orchestrator"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/clock"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
)

// ServerParams HTTP服务器依赖
type ServerParams struct {
	fx.In

	Lifecycle    fx.Lifecycle
	Options      *apiconfig.APIOptions
	Mint         *mintconfig.Config
	Logger       log.Logger
	Clock        clock.Clock
	Ledger       ledger.Client
	Orchestrator *orchestrator.Orchestrator
	Network      *network.Service

	Registerer prometheus.Registerer `optional:"true"`
	Gatherer   prometheus.Gatherer   `optional:"true"`
}

// NewLifecycleServer 创建服务器并挂到 fx 生命周期
func NewLifecycleServer(params ServerParams) *Server {
	rsp := handlers.NewResponder(params.Mint)
	routes := Routes{
		Contracts: handlers.NewContractHandlers(params.Orchestrator, rsp),
		Eth:       handlers.NewEthHandlers(params.Network, params.Orchestrator, rsp),
		Health:    handlers.NewHealthHandler(params.Ledger, params.Clock, version.GetVersion()),
		Gatherer:  params.Gatherer,
	}
	if params.Registerer != nil {
		routes.Metrics = middleware.NewMetrics(params.Registerer)
	}

	server := NewServer(&params.Options.HTTP, logimpl.NewModuleLogger(params.Logger, "http"), routes)
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return server.Start()
		},
		OnStop: server.Stop,
	})
	return server
}

// Module 返回HTTP服务模块
//
// http.enabled=false 时不创建服务器。
func Module() fx.Option {
	return fx.Module("http",
		fx.Invoke(func(params ServerParams) {
			if params.Options.HTTP.Enabled {
				NewLifecycleServer(params)
			}
		}),
	)
}
