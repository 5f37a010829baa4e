package contract

import (
	"go.uber.org/fx"

	deployconfig "github.com/weisyn/mintgate/internal/config/deploy"
)

// Module 提供部署产物存储
func Module() fx.Option {
	return fx.Module("contract",
		fx.Provide(func(options *deployconfig.DeployOptions) *ArtifactStore {
			return NewArtifactStore(options)
		}),
	)
}
