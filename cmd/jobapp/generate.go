package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"jobapp/internal/applies"
)

func (c *cli) generateCmd() *cobra.Command {
	var company string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Read a job listing from stdin and write a tailored resume and cover letter",
		Example: `  jobapp generate < listing.txt
  pbpaste | jobapp generate --company "Acme Corp"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := io.ReadAll(c.in)
			if err != nil {
				return fmt.Errorf("read job listing: %w", err)
			}
			listing := strings.TrimSpace(string(raw))
			if listing == "" {
				return applies.ErrEmptyListing
			}

			app, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			artifacts, err := app.ApplyService.Generate(cmd.Context(), listing, company, func(line string) {
				fmt.Fprintln(c.errOut, dim(line))
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(c.out, okMark("Application generated:"))
			printArtifacts(c.out, artifacts)
			return nil
		},
	}
	cmd.Flags().StringVar(&company, "company", "", "Company name (extracted from the listing if not provided)")
	return cmd
}
