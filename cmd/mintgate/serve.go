package main

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/mintgate/configs"
	"github.com/weisyn/mintgate/internal/app"
	"github.com/weisyn/mintgate/internal/app/version"
	config "github.com/weisyn/mintgate/internal/config"
	"github.com/weisyn/mintgate/pkg/types"
)

// serveCmd 启动网关
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 网关",
	Long: `加载配置并启动全部模块，直到收到 SIGINT/SIGTERM。
使用 --config 启动时，SIGHUP 会重新读取该文件并更新熔断阈值。

示例：
  mintgate serve --config ./configs/development/config.json
  mintgate serve --env dev`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appConfig, source, err := loadConfig()
		if err != nil {
			return err
		}

		printBanner(version.GetFullVersion())
		printConfigSummary(appConfig, source)

		spinner, _ := pterm.DefaultSpinner.Start("正在启动...")
		opts := []app.Option{app.WithConfig(appConfig)}
		if globalFlags.ConfigPath != "" {
			// 文件配置支持 SIGHUP 热更新熔断阈值
			opts = append(opts, app.WithConfigFile(globalFlags.ConfigPath))
		}
		running, err := app.BootstrapApp(opts...)
		if err != nil {
			if spinner != nil {
				spinner.Fail("启动失败")
			}
			return err
		}
		if spinner != nil {
			spinner.Success("已启动")
		}

		sig := running.Wait()
		pterm.Info.Printfln("收到信号 %s，正在优雅关闭...", sig)
		if err := running.Stop(); err != nil {
			return err
		}
		pterm.Success.Println("已停止")
		return nil
	},
}

// loadConfig 读取 --config，未指定时回退到 --env 对应的内嵌配置
func loadConfig() (*types.AppConfig, string, error) {
	if globalFlags.ConfigPath != "" {
		appConfig, err := config.LoadAppConfig(globalFlags.ConfigPath)
		return appConfig, globalFlags.ConfigPath, err
	}
	if globalFlags.Env != "" {
		data := configs.ByEnvironment(globalFlags.Env)
		if data == nil {
			return nil, "", fmt.Errorf("未知环境: %q", globalFlags.Env)
		}
		appConfig, err := config.ParseAppConfig(data)
		return appConfig, "embedded:" + globalFlags.Env, err
	}
	return nil, "", fmt.Errorf("必须指定 --config 或 --env")
}

// printConfigSummary 以表格形式打印关键配置
func printConfigSummary(appConfig *types.AppConfig, source string) {
	rows := pterm.TableData{{"配置项", "值"}}
	rows = append(rows, []string{"source", source})
	if appConfig.Ledger != nil && appConfig.Ledger.RPCURL != nil {
		rows = append(rows, []string{"ledger.rpc_url", *appConfig.Ledger.RPCURL})
	}
	if appConfig.Tx != nil && appConfig.Tx.GasPriceThresholdGwei != nil {
		rows = append(rows, []string{"tx.gas_price_threshold_gwei", *appConfig.Tx.GasPriceThresholdGwei})
	}
	if appConfig.Mint != nil {
		rows = append(rows, []string{"mint.minters", strconv.Itoa(len(appConfig.Mint.Minters))})
	}
	if appConfig.API != nil && appConfig.API.HTTPPort != nil {
		rows = append(rows, []string{"api.http_port", strconv.Itoa(*appConfig.API.HTTPPort)})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-").WithData(rows).Render()
	pterm.Println()
}
