package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dwes123/pitch-arsenal-go/internal/middleware"
	"github.com/dwes123/pitch-arsenal-go/internal/pipeline"
	"github.com/dwes123/pitch-arsenal-go/internal/validate"
)

var errInvalid = errors.New("validation found errors")

func buildCmd(a *app) *cobra.Command {
	var notify bool

	c := &cobra.Command{
		Use:   "build",
		Short: "Merge the downloaded CSVs into per-pitcher JSON and validate it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, notify, (*pipeline.Runner).Build)
		},
	}

	c.Flags().BoolVar(&notify, "notify", false, "send the run summary to the configured channels")
	return c
}

func refreshCmd(a *app) *cobra.Command {
	var notify bool

	c := &cobra.Command{
		Use:   "refresh",
		Short: "Download fresh exports for the target season, then build",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, notify, (*pipeline.Runner).Refresh)
		},
	}

	c.Flags().BoolVar(&notify, "notify", false, "send the run summary to the configured channels")
	return c
}

func (a *app) run(cmd *cobra.Command, notify bool, step func(*pipeline.Runner, context.Context) (*pipeline.Result, error)) error {
	runner, cleanup, err := a.runner(cmd.Context(), notify)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := step(runner, cmd.Context())
	if res != nil {
		res.Render(cmd.OutOrStdout())
		for _, fe := range res.FetchErrors {
			fmt.Fprintln(cmd.ErrOrStderr(), "download failed:", fe)
		}
	}
	if err != nil {
		return err
	}
	return report(cmd.OutOrStdout(), res.Report)
}

func validateCmd(a *app) *cobra.Command {
	var asJSON bool

	c := &cobra.Command{
		Use:   "validate",
		Short: "Check the built JSON files for consistency",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := validate.Check(a.cfg.OutDir)
			if err != nil {
				return err
			}
			if !asJSON {
				return report(cmd.OutOrStdout(), r)
			}
			data, err := r.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			if !r.OK() {
				return errInvalid
			}
			return nil
		},
	}

	c.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return c
}

func report(w io.Writer, r *validate.Report) error {
	if r == nil {
		return nil
	}
	r.Render(w)
	if !r.OK() {
		return errInvalid
	}
	return nil
}

func hashTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "hash-token <token>",
		Short:       "Print the bcrypt hash to use as ADMIN_TOKEN_HASH",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := middleware.HashToken(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
