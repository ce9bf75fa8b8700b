package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ciefp/subgrab/internal/config"
	"github.com/ciefp/subgrab/internal/models"
)

type searchFlags struct {
	mode      string
	languages []string
	season    int
	episode   int
	year      int
	asJSON    bool
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mode, "mode", "standard", "search mode: standard, smart, series, advanced-identifier, advanced-filename, advanced-freetext")
	cmd.Flags().StringSliceVar(&f.languages, "languages", nil, "language codes, or 'all' (default from config)")
	cmd.Flags().IntVar(&f.season, "season", 0, "season number for series lookups")
	cmd.Flags().IntVar(&f.episode, "episode", 0, "episode number for series lookups")
	cmd.Flags().IntVar(&f.year, "year", 0, "release year hint")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "emit results as JSON")
}

func (f *searchFlags) query(subject string) models.SearchQuery {
	languages := f.languages
	if len(languages) == 0 {
		languages = config.GetConfig().Languages
	}
	return models.SearchQuery{
		Title:     subject,
		Languages: languages,
		Season:    f.season,
		Episode:   f.episode,
		Year:      f.year,
	}
}

// runSearch executes one search in the requested mode.
func runSearch(ctx context.Context, a *app, flags *searchFlags, subject string) ([]models.SubtitleResult, error) {
	query := flags.query(subject)

	switch strings.TrimPrefix(flags.mode, "advanced-") {
	case "standard":
		return a.aggregator.SearchAll(ctx, query), nil
	case "smart":
		return a.aggregator.SearchAllSmart(ctx, query), nil
	case "series":
		if query.Season <= 0 {
			return nil, fmt.Errorf("series mode needs --season")
		}
		return a.aggregator.SearchAll(ctx, query), nil
	case "identifier":
		query.Identifier = subject
		query.Title = ""
		return a.aggregator.SearchDirect(ctx, query, models.MethodIdentifier), nil
	case "filename":
		query.Filename = subject
		query.Title = ""
		return a.aggregator.SearchDirect(ctx, query, models.MethodFilename), nil
	case "freetext":
		return a.aggregator.SearchDirect(ctx, query, models.MethodFreeText), nil
	}
	return nil, fmt.Errorf("unknown mode %q", flags.mode)
}

func newSearchCommand() *cobra.Command {
	flags := &searchFlags{}

	cmd := &cobra.Command{
		Use:   "search <title | identifier | filename>",
		Short: "Search the subtitle catalogs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			results, err := runSearch(cmd.Context(), a, flags, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printResults(cmd, results, flags.asJSON)
		},
	}
	flags.register(cmd)
	return cmd
}

func printResults(cmd *cobra.Command, results []models.SubtitleResult, asJSON bool) error {
	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "No subtitles found.")
		return nil
	}
	for i, r := range results {
		line := fmt.Sprintf("%3d. [%s] %s (%s)", i+1, r.Service, r.Title, r.LanguageCode)
		if r.IsSeries && r.Season > 0 {
			line += fmt.Sprintf(" S%02dE%02d", r.Season, r.Episode)
		}
		if r.Downloads > 0 {
			line += fmt.Sprintf(" downloads=%d", r.Downloads)
		}
		if r.Release != "" {
			line += " " + r.Release
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
