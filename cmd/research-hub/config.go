// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-hub/internal/catalog"
	"github.com/pdiddy/research-hub/pkg/types"
)

// bindFlag ties a viper key to a command flag. Flags are defined in init
// functions, so a failed lookup is a programming error.
func bindFlag(key string, f *pflag.Flag) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

// loadConfig assembles the hub configuration from flags, environment and
// config file, in viper's order of precedence, and fills in defaults.
func loadConfig(v *viper.Viper) types.HubConfig {
	cfg := types.HubConfig{
		CatalogPath: v.GetString("catalog"),
		Log: types.LogConfig{
			Env:   v.GetString("log.env"),
			Level: v.GetString("log.level"),
		},
		Server: types.ServerConfig{
			Addr:            v.GetString("server.addr"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Links: types.LinkCheckConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("links.timeout"),
				UserAgent: v.GetString("links.user_agent"),
			},
			Delay:      v.GetDuration("links.delay"),
			MaxRetries: v.GetInt("links.max_retries"),
		},
		Export: types.ExportConfig{
			OutputDir: v.GetString("export.output_dir"),
			Format:    types.ExportFormat(v.GetString("export.format")),
		},
	}
	if cfg.Links.UserAgent == "" {
		cfg.Links.UserAgent = "research-hub/" + version
	}
	cfg.ApplyDefaults()
	return cfg
}

// openCatalog loads the configured catalog, or the built-in one.
func openCatalog(cfg types.HubConfig) (*catalog.Catalog, error) {
	return catalog.Open(cfg.CatalogPath)
}
