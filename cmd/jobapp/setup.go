package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jobapp/internal/profile"
)

func (c *cli) setupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create directories, default templates and a starter profile, then run the doctor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			for _, dir := range []string{app.Templates.Dir, app.Output.Dir(), app.Uploads.Dir()} {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create %s: %w", dir, err)
				}
			}

			written, err := app.Templates.WriteDefaults()
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Fprintf(c.out, "%s wrote %s\n", okMark("+"), path)
			}

			if !app.Profiles.Exists() {
				if err := app.Profiles.Save(profile.Default()); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "%s wrote %s, edit it or run `jobapp parse <resume>`\n", okMark("+"), app.Profiles.Path())
			}

			fmt.Fprintln(c.out)
			printReport(c.out, app.HealthService.Run(cmd.Context()))
			return nil
		},
	}
}

var errDoctorFailed = errors.New("doctor found problems")

func (c *cli) doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check pandoc, LaTeX, the generation endpoint, templates and the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			report := app.HealthService.Run(cmd.Context())
			printReport(c.out, report)
			if !report.OK {
				return errDoctorFailed
			}
			return nil
		},
	}
}
