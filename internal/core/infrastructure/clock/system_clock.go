// Package clock 提供时间源的依赖注入
package clock

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	infraClock "github.com/weisyn/mintgate/pkg/interfaces/infrastructure/clock"
)

// NewSystemClock 使用系统真实时间
func NewSystemClock() infraClock.Clock { return clock.New() }

// Module 返回时钟模块
func Module() fx.Option {
	return fx.Module("clock",
		fx.Provide(NewSystemClock),
	)
}
