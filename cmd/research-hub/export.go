// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-hub/internal/export"
	"github.com/pdiddy/research-hub/internal/query"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the catalog, or a filtered view of it, to a file",
	Long: `Export writes the references selected by --query and --tag (the whole
catalog by default) to the output directory:

  yaml    references.yaml      catalog file, usable with --catalog
  json    references.json      references with the tag list
  csl     references.csl.yaml  CSL-YAML bibliography for Pandoc
  sqlite  references.db        SQLite snapshot with a full-text index

Files are replaced atomically. The SQLite snapshot is for offline analysis;
the hub never reads it.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "", "export format: yaml, json, csl or sqlite (default yaml)")
	exportCmd.Flags().String("output-dir", "", "output directory (default export)")
	exportCmd.Flags().String("query", "", "only export references matching this text")
	exportCmd.Flags().String("tag", "all", "only export references with this tag")
	bindFlag("export.format", exportCmd.Flags().Lookup("format"))
	bindFlag("export.output_dir", exportCmd.Flags().Lookup("output-dir"))

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	format, err := export.ParseFormat(string(cfg.Export.Format))
	if err != nil {
		return err
	}

	c, err := openCatalog(cfg)
	if err != nil {
		return err
	}

	q, _ := cmd.Flags().GetString("query")
	tag, _ := cmd.Flags().GetString("tag")
	opts := export.Options{
		Format: format,
		State:  query.State{FreeText: q, ActiveTag: tag},
	}

	_, err = export.Write(cmd.Context(), c, cfg.Export.OutputDir, opts, os.Stdout)
	return err
}
