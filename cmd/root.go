package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configDefault string
var rootCmd = &cobra.Command{
	Use:   "clipbook",
	Short: "ClipBook Note Service",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadDotEnv(".env")
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpTemplate()
		cmd.Help()
	},
}

// loadDotEnv loads KEY=VALUE pairs from file into the environment without overriding existing variables
// loadDotEnv 从文件加载环境变量，不覆盖已存在的变量
func loadDotEnv(file string) {
	if _, err := os.Stat(file); err != nil {
		return
	}
	if err := godotenv.Load(file); err != nil {
		bootstrapLogger.Warn("failed to load .env", zap.String("file", file), zap.Error(err))
		return
	}
	bootstrapLogger.Debug(".env loaded", zap.String("file", file))
}

func Execute(c string) {
	configDefault = c
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
