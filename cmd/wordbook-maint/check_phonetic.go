package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/wordbook/internal/app"
)

func newCheckPhoneticCmd() *cobra.Command {
	var fix bool
	cmd := &cobra.Command{
		Use:   "check-phonetic",
		Short: "Recompute pinyin of every Chinese item and report mismatches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				report, err := a.Services.Vocabulary.AuditPhonetics(cmd.Context(), fix)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, m := range report.Mismatches {
					fmt.Fprintf(out, "#%d user=%d %s: stored %q, expected %q\n", m.ItemID, m.UserID, m.Text, m.Stored, m.Expected)
				}
				fmt.Fprintf(out, "checked %d, mismatched %d, fixed %d\n", report.Checked, len(report.Mismatches), report.Fixed)
				if !fix && len(report.Mismatches) > 0 {
					fmt.Fprintln(out, "run again with --fix to rewrite them")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "rewrite mismatched pinyin")
	return cmd
}
