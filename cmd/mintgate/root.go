package main

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	ConfigPath string // 配置文件路径
	Env        string // 内嵌配置环境（未指定配置文件时使用）
	Silent     bool   // 静默模式
}

var globalFlags GlobalFlags

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "mintgate",
	Short: "EVM 交易提交与 gas 定价网关",
	Long: `mintgate - Avatar NFT 合约的交易编排服务

提供以下能力:
- 铸造、转移、销毁与批量操作（同步或异步提交）
- gas 价格估算与熔断
- 重复提交与在途冲突拦截
- 链通用查询与钱包工具

运行 "mintgate serve --config <file>" 启动 HTTP 网关。`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if globalFlags.Silent {
			pterm.DisableOutput()
		}
	},
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigPath, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().StringVar(&globalFlags.Env, "env", "", "使用内嵌配置: dev|prod (仅在未指定 --config 时生效)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Silent, "silent", false, "静默模式 (仅输出错误)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateConfigCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(versionCmd)
}

// printBanner 打印启动横幅
func printBanner(subtitle string) {
	pterm.DefaultHeader.WithFullWidth().Println("mintgate")
	if subtitle != "" {
		pterm.Info.Println(subtitle)
	}
	pterm.Println()
}
