package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jobapp/internal/profile"
)

func (c *cli) modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models offered by the configured endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			p, err := app.Profiles.Load()
			if err != nil {
				return err
			}
			settings := p.GenerationSettings
			models, err := profile.ListModels(cmd.Context(), app.LLM, settings)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.out, "%s %s\n", dim("endpoint"), settings.BaseURL)
			if len(models) == 0 {
				fmt.Fprintln(c.out, warnMark("no models loaded"))
				return nil
			}
			for _, m := range models {
				if m == settings.Model {
					fmt.Fprintf(c.out, "* %s\n", okMark(m))
					continue
				}
				fmt.Fprintf(c.out, "  %s\n", m)
			}
			return nil
		},
	}
}

func (c *cli) settingsCmd() *cobra.Command {
	var (
		model       string
		baseURL     string
		temperature float64
		maxTokens   int
	)
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or update the generation settings stored in the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.app(cmd.Context())
			if err != nil {
				return err
			}

			var update profile.SettingsUpdate
			flags := cmd.Flags()
			if flags.Changed("model") {
				update.Model = &model
			}
			if flags.Changed("url") {
				update.BaseURL = &baseURL
			}
			if flags.Changed("temperature") {
				update.Temperature = &temperature
			}
			if flags.Changed("max-tokens") {
				update.MaxTokens = &maxTokens
			}

			var p profile.Profile
			if update == (profile.SettingsUpdate{}) {
				p, err = app.Profiles.Load()
			} else {
				p, err = app.Profiles.UpdateSettings(update.Apply)
			}
			if err != nil {
				return err
			}

			s := p.GenerationSettings
			fmt.Fprintf(c.out, "base_url     %s\n", s.BaseURL)
			fmt.Fprintf(c.out, "model        %s\n", s.Model)
			fmt.Fprintf(c.out, "temperature  %g\n", s.Temperature)
			fmt.Fprintf(c.out, "max_tokens   %d\n", s.MaxTokens)
			return nil
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "Model name")
	cmd.Flags().StringVar(&baseURL, "url", "", "Endpoint base URL, e.g. http://localhost:1234/v1")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "Sampling temperature (0-2)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Maximum tokens per completion")
	return cmd
}
