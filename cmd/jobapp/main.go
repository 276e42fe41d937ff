package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jobapp/internal/bootstrap"
	"jobapp/internal/shared/config"
	"jobapp/internal/shared/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{in: os.Stdin, out: os.Stdout, errOut: os.Stderr, loadConfig: config.Load}
	if err := c.root().ExecuteContext(ctx); err != nil {
		printError(c.errOut, err)
		stop()
		os.Exit(1)
	}
}

// cli carries the streams and flags shared by every command.
type cli struct {
	in         io.Reader
	out        io.Writer
	errOut     io.Writer
	loadConfig func() (config.Config, error)

	profilePath string
	verbose     bool
}

func (c *cli) root() *cobra.Command {
	root := &cobra.Command{
		Use:           "jobapp",
		Short:         "Generate tailored resumes and cover letters with a local model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(c.in)
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	root.PersistentFlags().StringVar(&c.profilePath, "config", "", "Path to the profile JSON file (default from profile_path)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Write structured logs to stderr")

	root.AddCommand(
		c.setupCmd(),
		c.doctorCmd(),
		c.generateCmd(),
		c.parseCmd(),
		c.modelsCmd(),
		c.settingsCmd(),
	)
	return root
}

// app loads configuration and builds the services without the HTTP session.
func (c *cli) app(ctx context.Context) (*bootstrap.App, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if c.profilePath != "" {
		cfg.ProfilePath = c.profilePath
	}
	if c.verbose {
		telemetry.Init("jobapp", "local")
	} else {
		telemetry.SetOutput(io.Discard)
	}
	return bootstrap.Build(ctx, cfg, false)
}
