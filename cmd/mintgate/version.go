package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/mintgate/internal/app/version"
)

// versionCmd 打印版本信息
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "打印版本信息",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.GetBuildInfo()
		rows := pterm.TableData{
			{"version", info.Version},
			{"commit", info.GitCommit},
			{"built", info.BuildTime},
			{"go", info.GoVersion},
			{"platform", info.Platform},
		}
		return pterm.DefaultTable.WithData(rows).Render()
	},
}
