// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-hub/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the references interactively in the terminal",
	Long: `Browse opens a full-screen browser: type to search, tab and shift+tab to
change the tag, arrow keys to move and enter to show details. The list is
re-filtered on every keystroke.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCatalog(loadConfig(viper.GetViper()))
		if err != nil {
			return err
		}
		return tui.Run(cmd.Context(), c)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
