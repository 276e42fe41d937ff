package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) parseCmd() *cobra.Command {
	var noBackup bool
	cmd := &cobra.Command{
		Use:   "parse <resume.pdf|resume.docx>",
		Short: "Import an existing resume into the profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			result, err := app.ImportService.ImportWithProgress(cmd.Context(), args[0], !noBackup, func(line string) {
				fmt.Fprintln(c.errOut, dim(line))
			})
			if err != nil {
				return err
			}

			pi := result.Profile.PersonalInfo
			fmt.Fprintf(c.out, "%s %s\n", okMark("Profile updated:"), result.ProfilePath)
			if result.BackupPath != "" {
				fmt.Fprintf(c.out, "  backup      %s\n", result.BackupPath)
			}
			fmt.Fprintf(c.out, "  name        %s\n", pi.FullName)
			fmt.Fprintf(c.out, "  field       %s\n", pi.Field)
			fmt.Fprintf(c.out, "  skills      %d\n", len(result.Profile.Skills))
			fmt.Fprintf(c.out, "  experience  %d\n", len(result.Profile.Experience))
			return nil
		},
	}
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Do not back up the current profile before overwriting it")
	return cmd
}
