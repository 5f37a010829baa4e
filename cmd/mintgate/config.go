package main

import (
	"errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	config "github.com/weisyn/mintgate/internal/config"
)

// validateConfigCmd 校验配置文件
var validateConfigCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "校验配置文件的必填项与格式",
	RunE: func(cmd *cobra.Command, args []string) error {
		appConfig, source, err := loadConfig()
		if err != nil {
			return err
		}

		err = config.ValidateMandatoryConfig(appConfig)
		if err == nil {
			pterm.Success.Printfln("%s 校验通过", source)
			return nil
		}

		var verrs *config.ValidationErrors
		if errors.As(err, &verrs) {
			rows := pterm.TableData{{"#", "问题"}}
			for i, e := range verrs.Errors {
				rows = append(rows, []string{pterm.Sprint(i + 1), e.Error()})
			}
			_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
		}
		return errors.New("配置校验失败")
	},
}
