// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-hub/internal/render"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the catalog tags with reference counts",
	RunE:  runTags,
}

func init() {
	tagsCmd.Flags().String("active", "all", "tag id to mark as selected")
	tagsCmd.Flags().Bool("json", false, "output tags as JSON")

	rootCmd.AddCommand(tagsCmd)
}

func runTags(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	c, err := openCatalog(cfg)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(c.TagCounts())
	}

	active, _ := cmd.Flags().GetString("active")
	render.TagTable(os.Stdout, c.TagCounts(), active)
	return nil
}
