// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the p12pem CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/p12pem/internal/tool"
	"github.com/pdiddy/p12pem/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd converts a directory of bundles.
var rootCmd = &cobra.Command{
	Use:   "p12pem [dir]",
	Short: "Convert PKCS#12 bundles to PEM using PINs from companion PDFs",
	Long: `p12pem converts every .p12 bundle in a directory into an unencrypted
private key and a certificate chain in PEM format, plus base64 copies of both.

Each bundle's PIN is read from the PDF with the same name (acme.p12 uses
acme.pdf). For a bundle named X the outputs are X-key.pem, X-cert.pem,
X-key-b64.txt and X-cert-b64.txt, written next to the inputs.

The directory defaults to the current directory. Problems with individual
bundles are reported on the console and do not change the exit status
unless strict mode is enabled in the configuration.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return runConvert(ctx, cfg, tool.OS(), dir, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./p12pem.yaml or ~/.config/p12pem/config.yaml)")

	viper.SetDefault("backend", string(types.BundleNative))
	viper.SetDefault("text_backend", string(types.TextNative))
	viper.SetDefault("openssl_legacy", false)
	viper.SetDefault("tool_timeout", types.DefaultToolTimeout)
	viper.SetDefault("patterns", []string{})
	viper.SetDefault("strict", false)
	viper.SetDefault("report", "")
	viper.SetDefault("history", "")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("p12pem")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "p12pem"))
		}
	}

	viper.SetEnvPrefix("P12PEM")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged file, environment and default settings.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg.WithDefaults(), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
