// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-hub/internal/query"
	"github.com/pdiddy/research-hub/internal/render"
)

var referencesCmd = &cobra.Command{
	Use:     "references [query...]",
	Aliases: []string{"refs"},
	Short:   "List references matching a search text and tag",
	Long: `References filters the catalog like the hub's search box: the query is
matched case-insensitively against title, authors and summary, and --tag
restricts the list to one category. Results keep catalog order.

Output is a table by default; --json and --csl select JSON or CSL-YAML.`,
	RunE: runReferences,
}

func init() {
	referencesCmd.Flags().String("tag", "all", "tag id to filter by")
	referencesCmd.Flags().Bool("json", false, "output references as JSON")
	referencesCmd.Flags().Bool("csl", false, "output references as CSL-YAML")
	referencesCmd.MarkFlagsMutuallyExclusive("json", "csl")

	rootCmd.AddCommand(referencesCmd)
}

func runReferences(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	c, err := openCatalog(cfg)
	if err != nil {
		return err
	}

	tag, _ := cmd.Flags().GetString("tag")
	st := query.State{FreeText: strings.Join(args, " "), ActiveTag: tag}
	refs := st.Apply(c)

	asJSON, _ := cmd.Flags().GetBool("json")
	asCSL, _ := cmd.Flags().GetBool("csl")
	switch {
	case asJSON:
		return render.JSON(os.Stdout, refs)
	case asCSL:
		return render.CSL(os.Stdout, refs)
	default:
		render.Table(os.Stdout, refs)
		return nil
	}
}
