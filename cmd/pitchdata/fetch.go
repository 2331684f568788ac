package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dwes123/pitch-arsenal-go/internal/fetch"
	"github.com/dwes123/pitch-arsenal-go/internal/pitchtype"
)

func fetchPitchTypesCmd(a *app) *cobra.Command {
	var codes string

	c := &cobra.Command{
		Use:   "fetch-pitch-types",
		Short: "Download one pitch-arsenal CSV per pitch type",
		RunE: func(cmd *cobra.Command, _ []string) error {
			selected, err := parseCodes(codes)
			if err != nil {
				return err
			}
			f := fetch.NewStatsSiteFetcher(fetch.NewClient(a.cfg.Fetch), a.cfg.Fetch, a.cfg.RawDir)
			written, err := f.FetchPitchTypes(cmd.Context(), a.cfg.Season, a.cfg.Segment, selected)
			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return err
		},
	}

	c.Flags().StringVar(&codes, "codes", "", "comma separated pitch codes (default: every known type)")
	return c
}

func fetchSpinCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch-spin",
		Short: "Download the active spin leaderboard CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := fetch.NewStatsSiteFetcher(fetch.NewClient(a.cfg.Fetch), a.cfg.Fetch, a.cfg.RawDir)
			path, err := f.FetchSpin(cmd.Context(), a.cfg.Season)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func fetchAnalyticsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch-analytics",
		Short: "Download the combined analytics export",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Fetch.AnalyticsPageURL == "" {
				return fmt.Errorf("analytics_page_url is not configured")
			}
			f := fetch.NewAnalyticsFetcher(fetch.NewClient(a.cfg.Fetch), a.cfg.Fetch, a.cfg.RawDir)
			path, err := f.Fetch(cmd.Context(), a.cfg.Season)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func parseCodes(s string) ([]pitchtype.Code, error) {
	var codes []pitchtype.Code
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, ok := pitchtype.Normalize(part)
		if !ok {
			return nil, fmt.Errorf("unknown pitch type %q", part)
		}
		codes = append(codes, code)
	}
	return codes, nil
}
