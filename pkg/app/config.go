/*
配置加载：注册 --config/-c 标志，把配置文件和环境变量灌进 viper。
查找顺序：显式路径 > 当前目录 > ~/.<服务名首段>/ > /etc/<服务名首段>/。
环境变量前缀由二进制名推导（dps-probe -> DPS_PROBE_），
点和连字符统一映射为下划线（upstream.base-url -> UPSTREAM_BASE_URL）。
*/
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFlagName = "config"

var cfgFile string

// nolint: gochecknoinits
func init() {
	pflag.StringVarP(&cfgFile, "config", "c", cfgFile,
		"从指定的文件读取配置，支持 JSON、TOML、YAML、HCL 或 Java properties 格式。")
}

// addConfigFlag 把 --config 标志挂进命令的标志集，并在 cobra 初始化阶段
// 完成配置文件定位与读取。
func addConfigFlag(basename string, fs *pflag.FlagSet) {
	fs.AddFlag(pflag.Lookup(configFlagName))

	viper.AutomaticEnv()
	viper.SetEnvPrefix(strings.Replace(strings.ToUpper(basename), "-", "_", -1))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	cobra.OnInitialize(func() {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath(".")

			if names := strings.Split(basename, "-"); len(names) > 1 {
				if home, err := os.UserHomeDir(); err == nil {
					viper.AddConfigPath(filepath.Join(home, "."+names[0]))
				}
				viper.AddConfigPath(filepath.Join("/etc", names[0]))
			}

			viper.SetConfigName(basename)
		}

		if err := viper.ReadInConfig(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "错误：读取配置文件失败(%s)：%v\n", cfgFile, err)
			os.Exit(1)
		}
	})
}

// printConfig 以表格形式输出当前生效的全部配置项，便于核对启动参数
func printConfig() {
	if keys := viper.AllKeys(); len(keys) > 0 {
		fmt.Printf("%v 配置项：\n", progressMessage)
		table := uitable.New()
		table.Separator = " "
		table.MaxColWidth = 80
		table.RightAlign(0)

		for _, k := range keys {
			table.AddRow(fmt.Sprintf("%s:", k), viper.Get(k))
		}

		fmt.Printf("%v", table)
	}
	fmt.Println()
}
