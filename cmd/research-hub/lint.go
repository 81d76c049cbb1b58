// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-hub/internal/httputil"
	"github.com/pdiddy/research-hub/internal/linkcheck"
	"github.com/pdiddy/research-hub/internal/logger"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check the catalog for data defects and broken links",
	Long: `Lint reports catalog defects: tag ids missing from the tag set, duplicate
tags or titles, references without tags, a missing "all" tag and malformed
links. The hub tolerates all of them; lint exists to catch them before they
confuse readers.

With --check-links every reference link is probed over HTTP, one request at a
time. Rate-limited responses are retried with exponential backoff.`,
	RunE: runLint,
}

func init() {
	lintCmd.Flags().Bool("check-links", false, "probe every reference link over HTTP")
	lintCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 15s)")
	lintCmd.Flags().Duration("delay", 0, "delay between consecutive link probes")
	lintCmd.Flags().Int("max-retries", 0, "retries on HTTP 429/503 (default 3)")
	bindFlag("links.timeout", lintCmd.Flags().Lookup("timeout"))
	bindFlag("links.delay", lintCmd.Flags().Lookup("delay"))
	bindFlag("links.max_retries", lintCmd.Flags().Lookup("max-retries"))

	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	c, err := openCatalog(cfg)
	if err != nil {
		return err
	}

	issues := c.Validate()
	for _, issue := range issues {
		fmt.Fprintln(os.Stdout, issue)
	}
	fmt.Fprintf(os.Stdout, "%d references, %d tags, %d issue(s)\n", c.Len(), len(c.Tags()), len(issues))

	broken := 0
	if check, _ := cmd.Flags().GetBool("check-links"); check {
		l, err := logger.New(cfg.Log)
		if err != nil {
			return err
		}
		defer func() { _ = l.Sync() }()

		fmt.Fprintln(os.Stdout)
		client := httputil.NewClient(cfg.Links.HTTPConfig, cfg.Links.MaxRetries, l)
		summary, err := linkcheck.New(client, cfg.Links.Delay).CheckAll(cmd.Context(), c.References(), os.Stdout)
		if err != nil {
			return err
		}
		broken = summary.Broken
	}

	switch {
	case len(issues) > 0 && broken > 0:
		return fmt.Errorf("%d catalog issue(s), %d broken link(s)", len(issues), broken)
	case len(issues) > 0:
		return fmt.Errorf("%d catalog issue(s)", len(issues))
	case broken > 0:
		return fmt.Errorf("%d broken link(s)", broken)
	}
	return nil
}
