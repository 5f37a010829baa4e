package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/weisyn/mintgate/internal/core/keystore"
)

var keyDir string

// keyCmd 密钥库管理
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "管理签名身份的 keystore 文件",
}

// keyNewCmd 生成新密钥
var keyNewCmd = &cobra.Command{
	Use:   "new",
	Short: "生成新的签名密钥",
	RunE: func(cmd *cobra.Command, args []string) error {
		passphrase, err := promptNewPassphrase()
		if err != nil {
			return err
		}
		account, err := keystore.Open(keyDir).NewAccount(passphrase)
		if err != nil {
			return fmt.Errorf("生成密钥失败: %w", err)
		}
		pterm.Success.Printfln("地址: %s", account.Address.Hex())
		pterm.Info.Printfln("文件: %s", account.URL.Path)
		return nil
	},
}

// keyImportCmd 导入私钥
var keyImportCmd = &cobra.Command{
	Use:   "import <hex-private-key>",
	Short: "将十六进制私钥导入 keystore",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		privateKey, err := keystore.ParsePrivateKey(args[0])
		if err != nil {
			return err
		}
		passphrase, err := promptNewPassphrase()
		if err != nil {
			return err
		}
		account, err := keystore.Open(keyDir).ImportECDSA(privateKey, passphrase)
		if err != nil {
			return fmt.Errorf("导入失败: %w", err)
		}
		pterm.Success.Printfln("已导入: %s", account.Address.Hex())
		return nil
	},
}

// keyListCmd 列出密钥
var keyListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出 keystore 中的地址",
	RunE: func(cmd *cobra.Command, args []string) error {
		accounts := keystore.Open(keyDir).Accounts()
		if len(accounts) == 0 {
			pterm.Warning.Printfln("%s 中没有密钥", keyDir)
			return nil
		}
		rows := pterm.TableData{{"#", "地址", "文件"}}
		for i, account := range accounts {
			rows = append(rows, []string{pterm.Sprint(i), account.Address.Hex(), account.URL.Path})
		}
		return pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-").WithData(rows).Render()
	},
}

func init() {
	keyCmd.PersistentFlags().StringVar(&keyDir, "dir", "./data/keystore", "keystore 目录")
	keyCmd.AddCommand(keyNewCmd)
	keyCmd.AddCommand(keyImportCmd)
	keyCmd.AddCommand(keyListCmd)
}

// promptPassword 提示输入密码（不回显）
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt + ": ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("读取密码失败: %w", err)
	}
	fmt.Println()
	return string(bytePassword), nil
}

// promptNewPassphrase 两次输入口令；环境变量 MINTGATE_PASSPHRASE 存在时直接使用
func promptNewPassphrase() (string, error) {
	if passphrase := os.Getenv("MINTGATE_PASSPHRASE"); passphrase != "" {
		return passphrase, nil
	}
	first, err := promptPassword("输入口令")
	if err != nil {
		return "", err
	}
	second, err := promptPassword("再次输入口令")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", fmt.Errorf("两次输入的口令不一致")
	}
	if first == "" {
		return "", fmt.Errorf("口令不能为空")
	}
	return first, nil
}
