// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-hub CLI: it serves the
// CMDB research hub and offers command line access to its reference catalog.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the research-hub CLI.
var rootCmd = &cobra.Command{
	Use:   "research-hub",
	Short: "Curated CMDB research references: hub server and catalog tools",
	Long: `research-hub serves the CMDB Research Hub: an informational page with a
searchable, tag-filterable list of curated references, plus a JSON query API.

The same reference filter is available on the command line (references, tags),
in an interactive terminal browser (browse), and to the catalog maintenance
commands (lint, export). The catalog is built into the binary; --catalog
selects a YAML catalog file instead.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-hub.yaml or ~/.config/research-hub/research-hub.yaml)")
	rootCmd.PersistentFlags().String("catalog", "", "YAML catalog file (default: built-in catalog)")
	rootCmd.PersistentFlags().String("log-env", "", "logger flavour: prod, dev or local (default local)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override: debug, info, warn, error")

	bindFlag("catalog", rootCmd.PersistentFlags().Lookup("catalog"))
	bindFlag("log.env", rootCmd.PersistentFlags().Lookup("log-env"))
	bindFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-hub")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-hub"))
		}
	}

	viper.SetEnvPrefix("RESEARCH_HUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
