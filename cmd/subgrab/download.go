package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDownloadCommand() *cobra.Command {
	flags := &searchFlags{}
	var index int
	var outDir string

	cmd := &cobra.Command{
		Use:   "download <title | identifier | filename>",
		Short: "Search, fetch the chosen subtitle and save it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			ctx := cmd.Context()

			results, err := runSearch(ctx, a, flags, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(results) == 0 {
				return fmt.Errorf("no subtitles found")
			}
			if index < 1 || index > len(results) {
				return fmt.Errorf("--index %d out of range, search returned %d results", index, len(results))
			}
			chosen := results[index-1]

			resolved, err := a.downloader.Fetch(ctx, chosen)
			if err != nil {
				return fmt.Errorf("downloading %s: %w", chosen.Ref(), err)
			}
			path, err := a.downloader.Save(resolved, outDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&index, "index", 1, "1-based result to download, as printed by search")
	cmd.Flags().StringVar(&outDir, "out", "", "directory to save into (default from config)")
	return cmd
}
