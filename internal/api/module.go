// Package api 汇集对外接口模块
package api

import (
	"go.uber.org/fx"

	"github.com/weisyn/mintgate/internal/api/http"
)

// Module 返回API模块选项
func Module() fx.Option {
	return fx.Module("api",
		http.Module(),
	)
}
